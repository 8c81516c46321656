package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // output file (single format) or base path
	formats string  // comma-separated formats
	expand  string  // expansion depth or "all"
	width   float64 // frame width in pixels
	height  float64 // frame height in pixels
	scale   float64 // PNG pixel ratio
	fit     bool    // zoom so the whole tree is in frame
	refresh bool    // bypass cached snapshots and artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		formats: pipeline.FormatSVG,
		expand:  "all",
		width:   pipeline.DefaultWidth,
		height:  pipeline.DefaultHeight,
		scale:   pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render a hierarchy to SVG, PNG, PDF, DOT or JSON",
		Long: `Render lays the hierarchy out, runs the animation until it settles and
writes the final frame in every requested format.

Formats:
  svg    vector image of the mind map
  png    raster image (--scale sets the pixel ratio)
  pdf    vector document (needs rsvg-convert)
  dot    Graphviz source with pinned positions
  neato  the DOT source laid out by Graphviz, as SVG
  json   snapshot of nodes, positions and view`,
		Example: `  mindmap render ./notes
  mindmap render docs.json -f svg,png -o out/docs --expand 1
  mindmap render index.db -f dot --fit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output format(s): svg, png, pdf, dot, neato, json (comma-separated)")
	cmd.Flags().StringVar(&opts.expand, "expand", opts.expand, "expand folders to this depth, or \"all\"")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel ratio")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "zoom so the whole tree fits the frame")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached snapshots and artifacts")

	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// completeFormats offers the known formats after the ones already typed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	var out []string
	for f := range pipeline.ValidFormats {
		out = append(out, prefix+f)
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, input string, ro renderOpts) error {
	opts, err := c.pipelineOptions()
	if err != nil {
		return err
	}
	if opts.Formats, err = pipeline.ParseFormats(ro.formats); err != nil {
		return err
	}
	if opts.Expand, err = pipeline.ParseExpand(ro.expand); err != nil {
		return err
	}
	opts.Width, opts.Height, opts.Scale = ro.width, ro.height, ro.scale
	opts.Fit, opts.Refresh = ro.fit, ro.refresh

	src, err := c.openSource(input, ro.refresh)
	if err != nil {
		return err
	}
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	var spin *Spinner
	if !c.verbose {
		opts.Logger = atLevel(c.Logger, log.WarnLevel)
		spin = newSpinner(ctx, "Loading "+input)
		opts.OnStage = func(stage string) {
			spin.SetMessage(strings.ToUpper(stage[:1]) + stage[1:] + " " + input)
		}
		spin.Start()
	}
	result, err := runner.Run(ctx, src, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, ro.output, input)
	if err != nil {
		return err
	}
	prog.done("Rendered", "input", input, "formats", len(paths))

	out := newConsole(w)
	out.success("Rendered %s", input)
	out.stats(result.Stats, result.CacheHit)
	if result.Stats.Dropped > 0 {
		out.warn("%d file(s) outside the root folder were dropped", result.Stats.Dropped)
	}
	for _, p := range paths {
		out.file(p)
	}
	out.nextStep("Explore interactively", "mindmap view "+input)
	return nil
}

// writeArtifacts writes each artifact and returns the paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(output, input, format, len(formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath names the file for one format. An explicit output file name
// is used verbatim when only one format is written.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" && filepath.Ext(output) != "" {
		return output
	}
	return basePath(output, input) + pipeline.FormatExt[format]
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output ends in
// a format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		input = filepath.Clean(input)
		if input == "." || input == string(filepath.Separator) {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, ext := range formatExts() {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// formatExts returns the known output extensions, longest first so
// ".neato.svg" wins over ".svg".
func formatExts() []string {
	exts := make([]string, 0, len(pipeline.FormatExt))
	for _, ext := range pipeline.FormatExt {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if len(exts[i]) != len(exts[j]) {
			return len(exts[i]) > len(exts[j])
		}
		return exts[i] < exts[j]
	})
	return exts
}
