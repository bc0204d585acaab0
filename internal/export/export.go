// Package export writes drawing surfaces and viewport captures to PNG files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/uvstudio/internal/surface"
)

// Exporter names and writes PNG snapshots into a directory.
type Exporter struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// New creates an exporter writing prefix_<timestamp>.png files into dir.
func New(dir, prefix string) *Exporter {
	return &Exporter{outputDir: dir, prefix: prefix, now: time.Now}
}

// Dir returns the output directory.
func (x *Exporter) Dir() string { return x.outputDir }

// RenderSurface rasterizes s at its native size.
func RenderSurface(s *surface.Surface) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Size(), s.Size()))
	s.Render(img)
	return img
}

// WriteSurface encodes s as PNG to w.
func WriteSurface(w io.Writer, s *surface.Surface) error {
	if err := png.Encode(w, RenderSurface(s)); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// Surface renders s into a new file and returns its path.
func (x *Exporter) Surface(s *surface.Surface) (string, error) {
	return x.Image(RenderSurface(s))
}

// Pixels saves a bottom-up RGBA readback, such as glReadPixels output,
// flipping it upright.
func (x *Exporter) Pixels(pixels []byte, width, height int) (string, error) {
	img, err := FlipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}
	return x.Image(img)
}

// FlipRGBA copies a bottom-up RGBA buffer into a top-down image.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

// Image writes img to the next free file name.
func (x *Exporter) Image(img image.Image) (string, error) {
	if x.outputDir != "" {
		if err := os.MkdirAll(x.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	name, f, err := x.create()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return name, f.Close()
}

// create opens a new file, adding a counter when the timestamp is taken.
func (x *Exporter) create() (string, *os.File, error) {
	base := fmt.Sprintf("%s_%s", x.prefix, x.now().Format("2006-01-02_15-04-05"))
	for i := 1; ; i++ {
		name := base + ".png"
		if i > 1 {
			name = fmt.Sprintf("%s_%d.png", base, i)
		}
		path := filepath.Join(x.outputDir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("creating file: %w", err)
		}
		return path, f, nil
	}
}
