package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindmap/pkg/pipeline"
)

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle renders the viewer's status line title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders paths and other values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)

	styleSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// marks prefixes each console line kind with a colored glyph.
var marks = map[string]string{
	"ok":   lipgloss.NewStyle().Foreground(colorGreen).Render("✓"),
	"fail": lipgloss.NewStyle().Foreground(colorRed).Render("✗"),
	"warn": lipgloss.NewStyle().Foreground(colorAmber).Render("!"),
	"info": lipgloss.NewStyle().Foreground(colorGray).Render("›"),
}

// console writes human-facing command output. Logs go to the CLI logger
// on stderr; console lines go to the command's stdout.
type console struct {
	w io.Writer
}

func newConsole(w io.Writer) console { return console{w: w} }

func (c console) line(mark, format string, args ...any) {
	fmt.Fprintln(c.w, marks[mark]+" "+fmt.Sprintf(format, args...))
}

func (c console) success(format string, args ...any) { c.line("ok", format, args...) }
func (c console) fail(format string, args ...any)    { c.line("fail", format, args...) }
func (c console) info(format string, args ...any)    { c.line("info", format, args...) }

func (c console) warn(format string, args ...any) {
	c.line("warn", "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// detail prints an indented, dimmed line.
func (c console) detail(format string, args ...any) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (c console) file(path string) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func (c console) nextStep(description, command string) {
	fmt.Fprintln(c.w, StyleDim.Render(description+":")+" "+styleCommand.Render(command))
}

// stats prints a one-line summary of a pipeline run, e.g.
//
//	12 folders · 40 files · 9 visible · 31 frames · fresh
func (c console) stats(s pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d folders", s.Folders),
		fmt.Sprintf("%d files", s.Files),
		fmt.Sprintf("%d visible", s.Visible),
	}
	origin := lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	if !cached {
		frames := fmt.Sprintf("%d frames", s.Frames)
		if !s.Settled {
			frames += " (snapped)"
		}
		parts = append(parts, frames)
		origin = lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(c.w, "  "+StyleDim.Render(strings.Join(parts, " · "))+sep+origin)
}
