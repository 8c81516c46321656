// Package term implements a character-cell [render.Surface] for terminals.
//
// Every cell stands for a fixed box of [CellWidth] x [CellHeight] screen
// pixels, so the pan, zoom and hit-testing math of the engine works
// unchanged; the host converts mouse cell coordinates with
// [Canvas.CellToScreen]. Edges are sampled into dot glyphs, bubbles become
// colored cell runs and labels are written over them. [Canvas.String]
// composes the frame into lipgloss-styled lines.
package term

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindmap/pkg/render"
)

// Cell size in screen pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

const (
	edgeGlyph      = '·'
	edgeHoverGlyph = '•'
	blank          = ' '
)

type cell struct {
	ch   rune
	fg   color.NRGBA
	bg   color.NRGBA
	bold bool
}

// Canvas is a cols x rows grid of cells.
type Canvas struct {
	cols, rows int
	cells      []cell
	view       render.View
	background color.NRGBA
	frame      string
}

// New creates a canvas. Sizes below one cell are raised to one.
func New(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the grid size. The next Begin clears it.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 1), max(rows, 1)
	c.cells = make([]cell, c.cols*c.rows)
}

// Size returns the grid size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// ScreenSize returns the grid size in screen pixels.
func (c *Canvas) ScreenSize() (width, height float64) {
	return float64(c.cols * CellWidth), float64(c.rows * CellHeight)
}

// CellToScreen returns the screen pixel at the center of a cell.
func CellToScreen(col, row int) (x, y float64) {
	return float64(col*CellWidth) + CellWidth/2, float64(row*CellHeight) + CellHeight/2
}

// MeasureText implements [render.Measurer]. A label takes one cell per
// rune whatever the font, and a little over half a row.
func (c *Canvas) MeasureText(text string, _ render.Font) (w, h float64) {
	return float64(len([]rune(text)) * CellWidth), CellHeight * 0.6
}

func (c *Canvas) Begin(view render.View, bg color.NRGBA) {
	c.view = view
	c.background = bg
	for i := range c.cells {
		c.cells[i] = cell{ch: blank, bg: bg}
	}
}

func (c *Canvas) Curve(x1, y1, cx, cy, x2, y2 float64, stroke render.Stroke) {
	if stroke.Width <= 0 {
		return
	}
	glyph := edgeGlyph
	if stroke.Width > 2 {
		glyph = edgeHoverGlyph
	}
	sx1, sy1 := c.view.WorldToScreen(x1, y1)
	sx2, sy2 := c.view.WorldToScreen(x2, y2)
	steps := int(math.Hypot(sx2-sx1, sy2-sy1)/(CellWidth/2)) + 1

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		wx := u*u*x1 + 2*u*t*cx + t*t*x2
		wy := u*u*y1 + 2*u*t*cy + t*t*y2
		col, row := c.cellAt(wx, wy)
		if p := c.at(col, row); p != nil && (p.ch == blank || p.ch == edgeGlyph) {
			p.ch = glyph
			p.fg = render.WithAlpha(stroke.Color, 0xff)
		}
	}
}

func (c *Canvas) RoundedRect(r render.Rect, _ float64, fill color.NRGBA, _ render.Stroke, glow color.NRGBA) {
	sx1, sy1 := c.view.WorldToScreen(r.X, r.Y)
	sx2, sy2 := c.view.WorldToScreen(r.Right(), r.Bottom())
	col1, col2 := span(sx1, sx2, CellWidth)
	row1, row2 := span(sy1, sy2, CellHeight)
	for row := row1; row <= row2; row++ {
		for col := col1; col <= col2; col++ {
			if p := c.at(col, row); p != nil {
				*p = cell{ch: blank, bg: fill, bold: glow.A > 0}
			}
		}
	}
}

func (c *Canvas) Circle(x, y, _ float64, fill color.NRGBA, stroke render.Stroke) {
	col, row := c.cellAt(x, y)
	if p := c.at(col, row); p != nil {
		p.ch = blank
		p.bg = fill
		if stroke.Width > 0 {
			p.bg = stroke.Color
		}
	}
}

func (c *Canvas) Text(text string, x, y float64, font render.Font, fg color.NRGBA) {
	runes := []rune(text)
	sx, sy := c.view.WorldToScreen(x, y)
	row := int(math.Floor(sy / CellHeight))
	start := int(math.Round(sx/CellWidth - float64(len(runes))/2))
	for i, r := range runes {
		if p := c.at(start+i, row); p != nil {
			p.ch = r
			p.fg = fg
			p.bold = p.bold || font.Bold
		}
	}
}

func (c *Canvas) End() {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		c.writeRow(&b, row)
	}
	c.frame = b.String()
}

// String returns the last finished frame with colors.
func (c *Canvas) String() string { return c.frame }

// Plain returns the glyphs of the current grid without styling, one line
// per row with trailing blanks trimmed.
func (c *Canvas) Plain() string {
	lines := make([]string, c.rows)
	for row := range lines {
		rs := make([]rune, c.cols)
		for col := range rs {
			rs[col] = c.cells[row*c.cols+col].ch
		}
		lines[row] = strings.TrimRight(string(rs), " ")
	}
	return strings.Join(lines, "\n")
}

// writeRow renders runs of equally styled cells with one lipgloss style
// each.
func (c *Canvas) writeRow(b *strings.Builder, row int) {
	cells := c.cells[row*c.cols : (row+1)*c.cols]
	for i := 0; i < len(cells); {
		j := i
		var run strings.Builder
		for j < len(cells) && sameStyle(cells[i], cells[j]) {
			run.WriteRune(cells[j].ch)
			j++
		}
		st := lipgloss.NewStyle().
			Background(lipgloss.Color(render.Hex(cells[i].bg))).
			Bold(cells[i].bold)
		if cells[i].fg.A > 0 {
			st = st.Foreground(lipgloss.Color(render.Hex(cells[i].fg)))
		}
		b.WriteString(st.Render(run.String()))
		i = j
	}
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold
}

func (c *Canvas) cellAt(wx, wy float64) (col, row int) {
	sx, sy := c.view.WorldToScreen(wx, wy)
	return int(math.Floor(sx / CellWidth)), int(math.Floor(sy / CellHeight))
}

func (c *Canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

// span returns the inclusive cell range covered by [a, b], at least one
// cell wide.
func span(a, b, size float64) (first, last int) {
	first = int(math.Floor(a / size))
	last = int(math.Ceil(b/size)) - 1
	if last < first {
		last = first
	}
	return first, last
}
