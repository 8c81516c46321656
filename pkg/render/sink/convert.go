package sink

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// rsvgConvert is the librsvg command-line converter.
const rsvgConvert = "rsvg-convert"

// RenderPDF renders the map as SVG and converts it to PDF.
func RenderPDF(ctx context.Context, root *tree.Node, opts ...Option) ([]byte, error) {
	return ToPDF(ctx, RenderSVG(root, opts...))
}

// ToPDF converts an SVG document to PDF with rsvg-convert. Install it with
// "brew install librsvg" or "apt install librsvg2-bin".
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	if !HasPDFSupport() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"pdf export needs %s (brew install librsvg, apt install librsvg2-bin)", rsvgConvert)
	}

	cmd := exec.CommandContext(ctx, rsvgConvert, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// HasPDFSupport reports whether rsvg-convert is on the PATH.
func HasPDFSupport() bool {
	_, err := exec.LookPath(rsvgConvert)
	return err == nil
}
