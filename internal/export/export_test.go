package export

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/uvstudio/internal/surface"
)

func fixedExporter(dir string) *Exporter {
	x := New(dir, "surface")
	x.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }
	return x
}

func TestSurfaceExport(t *testing.T) {
	s, err := surface.New(32, 32)
	require.NoError(t, err)
	s.SetBackground(colorful.Color{R: 1})

	dir := filepath.Join(t.TempDir(), "out")
	x := fixedExporter(dir)

	first, err := x.Surface(s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "surface_2026-03-01_12-30-00.png"), first)

	second, err := x.Surface(s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "surface_2026-03-01_12-30-00_2.png"), second)

	f, err := os.Open(first)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	r, g, _, a := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Equal(t, uint32(0xffff), a)
}

func TestFlipRGBA(t *testing.T) {
	// Two rows, bottom row first as a GL readback delivers them.
	pixels := []byte{
		1, 1, 1, 255,
		2, 2, 2, 255,
	}
	img, err := FlipRGBA(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), img.Pix[0])
	assert.Equal(t, uint8(1), img.Pix[4])

	_, err = FlipRGBA(pixels, 2, 2)
	assert.Error(t, err)
}
