// Package texture bridges the drawing surface to the GPU: it holds the CPU-side
// pixel buffer sampled by mesh materials and the dirty flag that tells the
// renderer to re-upload it.
package texture

import (
	"image"

	"github.com/Faultbox/uvstudio/internal/surface"
)

// The surface has a top-left origin and UV space a bottom-left one. Sampling
// with v' = v*RepeatY + OffsetY compensates; without it artwork renders
// upside down.
const (
	RepeatY float32 = -1
	OffsetY float32 = 1
)

// Uploader pushes pixel data to wherever the texture lives on the GPU.
type Uploader interface {
	Upload(t *Texture) error
}

// Texture is the GPU-consumable view of a drawing surface.
type Texture struct {
	pixels  *image.RGBA
	dirty   bool
	uploads int
}

// Wrap returns the texture for s, creating it on first use. The texture
// registers itself as the surface's invalidator and starts dirty.
func Wrap(s *surface.Surface) *Texture {
	if t, ok := s.Invalidator().(*Texture); ok {
		return t
	}
	n := s.Size()
	t := &Texture{
		pixels: image.NewRGBA(image.Rect(0, 0, n, n)),
		dirty:  true,
	}
	s.SetInvalidator(t)
	return t
}

// Invalidate marks the pixel data stale. Repeated calls before the next
// upload have no further effect.
func (t *Texture) Invalidate() {
	t.dirty = true
}

// NeedsUpdate reports whether the pixels must be refreshed and uploaded.
func (t *Texture) NeedsUpdate() bool { return t.dirty }

// Pixels returns the CPU-side pixel buffer.
func (t *Texture) Pixels() *image.RGBA { return t.pixels }

// Size returns the texture side in pixels.
func (t *Texture) Size() int { return t.pixels.Bounds().Dx() }

// Uploads returns how many times the texture has been uploaded.
func (t *Texture) Uploads() int { return t.uploads }

// Refresh re-renders the surface into the pixel buffer.
func (t *Texture) Refresh(s *surface.Surface) {
	s.Render(t.pixels)
}

// MarkUploaded clears the dirty flag after the renderer consumed the pixels.
func (t *Texture) MarkUploaded() {
	t.dirty = false
	t.uploads++
}

// Sync refreshes and uploads the texture if, and only if, it is dirty.
// It reports whether an upload happened. On upload failure the texture stays
// dirty so the next frame retries.
func (t *Texture) Sync(s *surface.Surface, up Uploader) (bool, error) {
	if !t.dirty {
		return false, nil
	}
	t.Refresh(s)
	if up != nil {
		if err := up.Upload(t); err != nil {
			return false, err
		}
	}
	t.MarkUploaded()
	return true, nil
}

// Transform maps a mesh UV to the texture coordinate actually sampled.
func Transform(u, v float32) (float32, float32) {
	return u, v*RepeatY + OffsetY
}
