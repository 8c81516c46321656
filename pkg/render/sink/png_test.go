package sink

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/render"
)

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(docs(), WithSize(800, 600), WithScale(2))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1600, img.Bounds().Dx())
	assert.Equal(t, 1200, img.Bounds().Dy())

	bg := render.DefaultTheme().Background
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(bg.R), r>>8)
	assert.Equal(t, uint32(bg.G), g>>8)
	assert.Equal(t, uint32(bg.B), b>>8)

	// The root bubble covers its center.
	r, g, b, _ = img.At(800, 600).RGBA()
	assert.False(t, r>>8 == uint32(bg.R) && g>>8 == uint32(bg.G) && b>>8 == uint32(bg.B))
}

func TestPNGSurfaceMeasure(t *testing.T) {
	s := NewPNGSurface(10, 10, 1)
	w1, h := s.MeasureText("Docs", render.Font{Size: 16})
	w2, _ := s.MeasureText("Documentation", render.Font{Size: 16})
	assert.Greater(t, w1, 0.0)
	assert.Greater(t, w2, w1)
	assert.Greater(t, h, 0.0)
}
