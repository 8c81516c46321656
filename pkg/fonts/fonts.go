// Package fonts provides the embedded faces used by raster output and the
// text metrics derived from them.
//
// The Go font family ships inside golang.org/x/image, so no font files have
// to be installed on the host.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family list used by SVG output. It names the
// embedded Go font first so that browsers with it installed match the PNG.
const FontFamily = `'Go', 'Inter', 'Helvetica Neue', Arial, sans-serif`

var (
	parseOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	parseErr  error
)

func parse() error {
	parseOnce.Do(func() {
		if regular, parseErr = truetype.Parse(goregular.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse regular face: %w", parseErr)
			return
		}
		if bold, parseErr = truetype.Parse(gobold.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse bold face: %w", parseErr)
		}
	})
	return parseErr
}

type faceKey struct {
	size float64
	bold bool
}

var (
	facesMu sync.Mutex
	faces   = map[faceKey]font.Face{}
)

// Face returns a face of the given pixel size. Faces are cached per size
// and weight and must not be closed by the caller.
func Face(size float64, isBold bool) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, err
	}
	key := faceKey{size: size, bold: isBold}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[key]; ok {
		return f, nil
	}
	ttf := regular
	if isBold {
		ttf = bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	faces[key] = f
	return f, nil
}

// Measure returns the advance width and line height of text set in the
// embedded face.
func Measure(text string, size float64, isBold bool) (w, h float64, err error) {
	f, err := Face(size, isBold)
	if err != nil {
		return 0, 0, err
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	adv := font.MeasureString(f, text)
	return float64(adv) / 64, float64(f.Metrics().Height) / 64, nil
}
