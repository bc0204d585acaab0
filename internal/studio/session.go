// Package studio wires the drawing surface, texture bridge, selection engine,
// transitions and scene into one editing session, and runs it in a window.
package studio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/anthonynsimon/bild/transform"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/uvstudio/internal/assets"
	"github.com/Faultbox/uvstudio/internal/config"
	"github.com/Faultbox/uvstudio/internal/engine/model"
	"github.com/Faultbox/uvstudio/internal/engine/picking"
	"github.com/Faultbox/uvstudio/internal/engine/texture"
	"github.com/Faultbox/uvstudio/internal/logger"
	"github.com/Faultbox/uvstudio/internal/scene"
	"github.com/Faultbox/uvstudio/internal/selection"
	"github.com/Faultbox/uvstudio/internal/surface"
	"github.com/Faultbox/uvstudio/internal/transition"
	"github.com/Faultbox/uvstudio/internal/uvmap"
	pmath "github.com/Faultbox/uvstudio/pkg/math"
)

var (
	ErrNoModel          = errors.New("no model loaded")
	ErrUnknownComponent = errors.New("unknown component")
	ErrUnknownGarment   = errors.New("unknown garment")
)

// Session is one garment being customized. It is not safe for concurrent use;
// everything runs on the frame thread.
type Session struct {
	cfg    *config.Config
	assets *assets.Manager

	surface     *surface.Surface
	preview     *surface.Surface
	texture     *texture.Texture
	selection   *selection.Engine
	transitions *transition.Engine

	scene      *scene.Scene
	loading    bool
	lastErr    error
	editTarget string
	corner     color.RGBA

	log *zap.Logger
}

// NewSession creates an empty session sized and timed from cfg.
func NewSession(cfg *config.Config, am *assets.Manager) (*Session, error) {
	s, err := surface.New(cfg.Surface.Size, cfg.Surface.Size)
	if err != nil {
		return nil, fmt.Errorf("drawing surface: %w", err)
	}
	// The preview shares the drawing surface's pixel space; PreviewImage
	// scales it down.
	preview, err := surface.New(cfg.Surface.Size, cfg.Surface.Size)
	if err != nil {
		return nil, fmt.Errorf("preview surface: %w", err)
	}

	tr := transition.New()
	tr.BackgroundDuration = cfg.Transitions.BackgroundDuration
	tr.BackgroundStep = cfg.Transitions.BackgroundStep
	tr.MeshDuration = cfg.Transitions.MeshDuration

	corner := surface.DefaultCornerColor
	if c, err := colorful.Hex(cfg.Surface.CornerColor); err == nil {
		r, g, b := c.Clamped().RGB255()
		corner = color.RGBA{R: r, G: g, B: b, A: 255}
	}

	return &Session{
		cfg:         cfg,
		assets:      am,
		surface:     s,
		preview:     preview,
		texture:     texture.Wrap(s),
		selection:   selection.New(s),
		transitions: tr,
		editTarget:  cfg.Surface.EditTarget,
		corner:      corner,
		log:         logger.Named("studio"),
	}, nil
}

// Surface returns the drawing surface.
func (s *Session) Surface() *surface.Surface { return s.surface }

// Preview returns the snapshot surface filled by Snapshot.
func (s *Session) Preview() *surface.Surface { return s.preview }

// Texture returns the texture every mesh samples.
func (s *Session) Texture() *texture.Texture { return s.texture }

// Scene returns the loaded model, or nil.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Transitions returns the session's transition engine.
func (s *Session) Transitions() *transition.Engine { return s.transitions }

// Gesture returns the in-progress pointer gesture.
func (s *Session) Gesture() selection.Gesture { return s.selection.Gesture() }

// Loading reports whether a model load is in flight.
func (s *Session) Loading() bool { return s.loading }

// LastError returns the most recent asset failure, or nil.
func (s *Session) LastError() error { return s.lastErr }

// ActiveElement returns the selected element, or nil.
func (s *Session) ActiveElement() *surface.Element { return s.surface.Active() }

// EditTarget returns the component new artwork is placed on.
func (s *Session) EditTarget() string { return s.editTarget }

// SetEditTarget changes the component new artwork is placed on. With a model
// loaded the name must be one of its components.
func (s *Session) SetEditTarget(name string) error {
	if s.scene != nil {
		if _, ok := s.scene.Find(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownComponent, name)
		}
	}
	s.editTarget = name
	return nil
}

// ComponentNames lists the loaded model's component names.
func (s *Session) ComponentNames() []string {
	if s.scene == nil {
		return nil
	}
	return s.scene.ComponentNames()
}

// BeginLoading marks a model load as in flight.
func (s *Session) BeginLoading() {
	s.loading = true
}

// OnModelLoaded installs sc as the session's model. Color fades still running
// on the replaced model are dropped.
func (s *Session) OnModelLoaded(sc *scene.Scene) {
	if old := s.scene; old != nil && old != sc {
		old.Traverse(func(m *scene.Mesh) { s.transitions.Cancel(m.Material) })
	}
	sc.AssignMap(s.texture)
	if s.cfg.Model.Intro {
		sc.PlayIntro()
	}
	s.scene = sc
	s.loading = false
	s.lastErr = nil
	s.texture.Invalidate()
	s.log.Info("model loaded", zap.Strings("components", sc.ComponentNames()))
}

// OnModelFailed records a failed model load. The previous model, if any, stays.
func (s *Session) OnModelFailed(err error) {
	s.loading = false
	s.lastErr = err
	s.log.Error("model load failed", zap.Error(err))
}

// LoadModel reads and decodes an OBJ model through the asset manager.
func (s *Session) LoadModel(name string) (*scene.Scene, error) {
	s.BeginLoading()
	comps, err := s.assets.LoadModel(name)
	if err != nil {
		s.OnModelFailed(err)
		return nil, err
	}
	cx, cz := model.CenterXZ(comps)
	s.log.Debug("model centered", zap.String("model", name), zap.Float32("x", cx), zap.Float32("z", cz))
	sc := scene.New()
	for _, c := range comps {
		sc.Add(scene.NewMesh(c))
	}
	s.OnModelLoaded(sc)
	return sc, nil
}

// ImportArtwork decodes data and places it on the surface over the UV island
// of component, then selects it. Nothing changes when decoding fails.
func (s *Session) ImportArtwork(data []byte, component string) (*surface.Element, error) {
	img, err := assets.DecodeImage(data)
	if err != nil {
		s.lastErr = err
		s.log.Warn("artwork rejected", zap.Error(err))
		return nil, err
	}
	return s.placeImage(img, component), nil
}

// ImportFile reads an image file and imports it onto the edit target.
func (s *Session) ImportFile(path string) (*surface.Element, error) {
	data, err := s.assets.Load(path)
	if err != nil {
		s.lastErr = err
		s.log.Warn("artwork unreadable", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	// Dropped files change under the same name.
	s.assets.Forget(path)
	return s.ImportArtwork(data, s.editTarget)
}

// AddShape places a filled rectangle or ellipse of color hex (#rrggbb) over
// the edit target's UV island and selects it.
func (s *Session) AddShape(kind surface.Kind, hex string) (*surface.Element, error) {
	c, err := transition.ParseBackground(hex)
	if err != nil {
		return nil, err
	}
	r, g, b := c.Clamped().RGB255()
	n := s.surface.Size() / shapeFraction
	e := surface.NewShape(kind, n, n, color.RGBA{R: r, G: g, B: b, A: 255})
	s.place(e, s.editTarget)
	return e, nil
}

// shapeFraction sizes new shapes relative to the surface edge.
const shapeFraction = 4

func (s *Session) placeImage(img image.Image, component string) *surface.Element {
	e := surface.NewImage(assets.ToRGBA(img))
	s.place(e, component)
	return e
}

func (s *Session) place(e *surface.Element, component string) {
	var geom *uvmap.Component
	if s.scene != nil {
		if m, ok := s.scene.Find(component); ok {
			geom = m.Geometry()
		}
	}
	st, err := uvmap.Analyze(geom)
	if err != nil {
		s.log.Debug("placing without UV statistics", zap.String("component", component), zap.Error(err))
	}

	w, h := e.Size()
	p := uvmap.Place(s.surface.Size(), int(w), int(h), st)

	e.SetScale(p.Scale, p.Scale)
	e.SetPosition(p.Left, p.Top)
	e.CornerSize = p.CornerSize
	e.CornerColor = s.corner

	s.surface.Batch(func() {
		s.surface.Add(e)
		s.surface.SetActive(e)
	})
	s.log.Info("element placed",
		zap.Stringer("kind", e.Kind),
		zap.String("component", component),
		zap.Float32("left", p.Left),
		zap.Float32("top", p.Top),
		zap.Float32("scale", p.Scale),
	)
}

// RemoveActive deletes the selected element. It reports whether one existed.
func (s *Session) RemoveActive() bool {
	e := s.surface.Active()
	if e == nil {
		return false
	}
	return s.surface.Remove(e)
}

// Snapshot copies the drawing surface into the preview surface.
func (s *Session) Snapshot() *surface.Surface {
	surface.Copy(s.surface, s.preview)
	return s.preview
}

// PreviewImage snapshots the surface and renders it at the configured
// preview size.
func (s *Session) PreviewImage() *image.RGBA {
	p := s.Snapshot()
	n := p.Size()
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	p.Render(img)
	if size := s.cfg.Surface.PreviewSize; size != n {
		img = transform.Resize(img, size, size, transform.Linear)
	}
	return img
}

// cursor maps a pointer ray to surface pixels through the nearest mesh hit.
func (s *Session) cursor(r picking.Ray) (pmath.Vec2, bool) {
	if s.scene == nil {
		return pmath.Vec2{}, false
	}
	hit, ok := picking.Pick(r, s.scene.Meshes())
	if !ok || !hit.HasUV {
		return pmath.Vec2{}, false
	}
	return s.surface.UVToPixel(hit.UV), true
}

// PointerDown starts a gesture at the garment point under r.
func (s *Session) PointerDown(r picking.Ray) selection.State {
	c, ok := s.cursor(r)
	return s.selection.PointerDown(c, ok)
}

// PointerMove continues the current gesture.
func (s *Session) PointerMove(r picking.Ray) {
	if s.selection.Gesture().State == selection.Idle {
		return
	}
	c, ok := s.cursor(r)
	s.selection.PointerMove(c, ok)
}

// PointerUp ends the current gesture.
func (s *Session) PointerUp() {
	s.selection.PointerUp()
}

// SetBackground fades the surface background to hex (#rrggbb).
func (s *Session) SetBackground(hex string) error {
	c, err := transition.ParseBackground(hex)
	if err != nil {
		s.log.Warn("background rejected", zap.String("color", hex), zap.Error(err))
		return err
	}
	s.transitions.TransitionBackground(s.surface, c)
	return nil
}

// SetComponentColor fades every mesh called name to hex.
func (s *Session) SetComponentColor(hex, name string) error {
	c, err := transition.ParseBackground(hex)
	if err != nil {
		return err
	}
	if s.scene == nil {
		return ErrNoModel
	}
	targets := s.scene.ColorTargets(name)
	if len(targets) == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	s.transitions.TransitionMeshColor(targets, c)
	return nil
}

// SelectGarment replaces the surface content with the palette entry's base
// image and fades the edit target to the entry's mesh color.
func (s *Session) SelectGarment(name string) error {
	g, ok := s.cfg.Garment(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGarment, name)
	}
	c, err := transition.ParseBackground(g.MeshColor)
	if err != nil {
		return fmt.Errorf("garment %s: %w", name, err)
	}
	img, err := s.assets.LoadImage(g.BaseImage)
	if err != nil {
		s.lastErr = err
		s.log.Error("garment base image", zap.String("garment", name), zap.Error(err))
		return err
	}

	base := surface.NewImage(assets.ToRGBA(img))
	base.Selectable = false
	w, h := base.Size()
	n := float32(s.surface.Size())
	fit := min(n/w, n/h)
	base.SetScale(fit, fit)
	base.SetPosition(n/2, n/2)

	s.surface.Batch(func() {
		s.surface.Clear()
		s.surface.Add(base)
	})
	if s.scene != nil {
		s.transitions.TransitionMeshColor(s.scene.ColorTargets(s.editTarget), c)
	}
	s.log.Info("garment selected", zap.String("garment", name))
	return nil
}

// Frame advances animations by dt and pushes surface changes to the texture.
// It reports whether the texture was uploaded.
func (s *Session) Frame(dt time.Duration, up texture.Uploader) (bool, error) {
	s.transitions.Tick(dt)
	if s.scene != nil {
		s.scene.Tick(dt)
	}
	uploaded, err := s.texture.Sync(s.surface, up)
	if err != nil {
		return false, fmt.Errorf("texture upload: %w", err)
	}
	return uploaded, nil
}
