package studio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/uvstudio/internal/assets"
	"github.com/Faultbox/uvstudio/internal/config"
	"github.com/Faultbox/uvstudio/internal/engine/camera"
	"github.com/Faultbox/uvstudio/internal/engine/input"
	"github.com/Faultbox/uvstudio/internal/engine/picking"
	"github.com/Faultbox/uvstudio/internal/engine/renderer"
	"github.com/Faultbox/uvstudio/internal/engine/window"
	"github.com/Faultbox/uvstudio/internal/export"
	"github.com/Faultbox/uvstudio/internal/logger"
	"github.com/Faultbox/uvstudio/internal/scene"
	"github.com/Faultbox/uvstudio/internal/surface"
)

const (
	title         = "UV Studio"
	thumbnailSize = 512
)

// Backgrounds cycled by the B key.
var backgrounds = []string{"#ffffff", "#f4f4f4", "#1f2a44", "#36473a", "#000000"}

// shapeFill is the color of shapes added from the keyboard.
const shapeFill = "#d7263d"

// App is the interactive studio window.
type App struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	assets   *assets.Manager
	session  *Session
	exporter *export.Exporter

	// Left button edits the surface, right button orbits.
	editing  bool
	orbiting bool
	bgIndex  int

	log *zap.Logger
}

// New opens the studio window and prepares an empty session.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("studio")
	log.Info("initializing studio",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("surface", cfg.Surface.Size),
	)

	a := &App{
		config:   cfg,
		assets:   assets.NewManager(),
		exporter: export.New(cfg.Export.Dir, "uvstudio"),
		log:      log,
	}
	for _, root := range cfg.Assets.Roots {
		if err := a.assets.AddRoot(root); err != nil {
			log.Warn("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}

	var err error
	a.session, err = NewSession(cfg, a.assets)
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: dw, Height: dh})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()

	a.camera = camera.NewOrbitCamera()
	a.camera.FOV = cfg.Camera.FOV
	a.camera.MinDistance = cfg.Camera.MinDistance
	a.camera.MaxDistance = cfg.Camera.MaxDistance
	a.camera.Damping = cfg.Camera.Damping
	a.camera.SetAspect(float32(dw) / float32(max(dh, 1)))

	log.Info("studio initialized")
	return a, nil
}

// Session returns the editing session driven by the window.
func (a *App) Session() *Session { return a.session }

// LoadModel loads the garment and uploads it to the GPU. A failed load keeps
// the previous model on screen.
func (a *App) LoadModel(name string) error {
	sc, err := a.session.LoadModel(name)
	if err != nil {
		return err
	}
	a.renderer.UnloadScene()
	a.renderer.LoadScene(sc)
	a.camera.FitToBounds(sceneBounds(sc))
	a.updateTitle()
	return nil
}

func sceneBounds(sc *scene.Scene) picking.AABB {
	var box picking.AABB
	for i, m := range sc.Meshes() {
		b := picking.Bounds(m.Geometry())
		if i == 0 {
			box = b
			continue
		}
		for k := 0; k < 3; k++ {
			box.Min[k] = min(box.Min[k], b.Min[k])
			box.Max[k] = max(box.Max[k], b.Max[k])
		}
	}
	return box
}

// Run starts the main loop and returns when the window closes or ctx ends.
func (a *App) Run(ctx context.Context) error {
	a.running = true

	var inbox <-chan string
	if dir := a.config.Assets.Inbox; dir != "" {
		w, err := assets.WatchInbox(ctx, dir)
		if err != nil {
			a.log.Warn("artwork inbox disabled", zap.String("dir", dir), zap.Error(err))
		} else {
			defer w.Close()
			inbox = w.Paths()
		}
	}

	// Timing
	lastTime := time.Now()
	frameCount := 0
	uploads := 0
	fpsTimer := time.Now()

	a.log.Info("starting studio loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if ctx.Err() != nil {
			break
		}

		// 1. Process input
		if a.input.Update() {
			break
		}
		for _, ev := range a.input.Events() {
			a.handleEvent(ev)
		}
		a.drainInbox(inbox)

		// 2. Update
		a.camera.Update()
		uploaded, err := a.session.Frame(dt, a.renderer)
		if err != nil {
			// The texture stays dirty and is retried next frame.
			a.log.Warn("frame", zap.Error(err))
		}
		if uploaded {
			uploads++
		}

		// 3. Render
		a.render()

		// 4. Present (swap buffers)
		a.window.SwapBuffers()
		a.limitFrame(now)

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("uploads", uploads),
				zap.Duration("dt", dt),
			)
			frameCount = 0
			uploads = 0
			fpsTimer = time.Now()
		}
	}

	a.running = false
	return nil
}

func (a *App) limitFrame(start time.Time) {
	if a.config.Window.VSync || a.config.Window.FPSLimit <= 0 {
		return
	}
	budget := time.Second / time.Duration(a.config.Window.FPSLimit)
	if spent := time.Since(start); spent < budget {
		sdl.Delay(uint32((budget - spent).Milliseconds()))
	}
}

func (a *App) drainInbox(paths <-chan string) {
	if paths == nil {
		return
	}
	for {
		select {
		case p, ok := <-paths:
			if !ok {
				return
			}
			a.importFile(p)
		default:
			return
		}
	}
}

func (a *App) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		dw, dh := a.window.DrawableSize()
		a.renderer.Resize(dw, dh)
		a.camera.SetAspect(float32(dw) / float32(max(dh, 1)))

	case input.EventMouseDown:
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			a.editing = true
			a.session.PointerDown(a.ray(ev.MouseX, ev.MouseY))
		case sdl.BUTTON_RIGHT:
			a.orbiting = true
		}

	case input.EventMouseMove:
		if a.editing {
			a.session.PointerMove(a.ray(ev.MouseX, ev.MouseY))
		}
		if a.orbiting {
			a.camera.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
		}

	case input.EventMouseUp:
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			a.editing = false
			a.session.PointerUp()
		case sdl.BUTTON_RIGHT:
			a.orbiting = false
		}

	case input.EventMouseWheel:
		a.camera.HandleZoom(float32(ev.DeltaY))

	case input.EventDropFile:
		a.importFile(ev.Path)

	case input.EventKeyDown:
		a.handleKey(ev)
	}
}

func (a *App) handleKey(ev input.Event) {
	switch ev.Key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_O:
		a.openArtwork()
	case sdl.SCANCODE_DELETE, sdl.SCANCODE_BACKSPACE:
		a.session.RemoveActive()
	case sdl.SCANCODE_B:
		a.bgIndex = (a.bgIndex + 1) % len(backgrounds)
		if err := a.session.SetBackground(backgrounds[a.bgIndex]); err != nil {
			a.log.Warn("background", zap.Error(err))
		}
	case sdl.SCANCODE_R, sdl.SCANCODE_E:
		kind := surface.KindRect
		if ev.Key == sdl.SCANCODE_E {
			kind = surface.KindEllipse
		}
		if _, err := a.session.AddShape(kind, shapeFill); err != nil {
			a.log.Warn("shape", zap.Error(err))
		}
	case sdl.SCANCODE_TAB:
		a.cycleEditTarget()
	case sdl.SCANCODE_S:
		a.exportSurface(ev.Mod&sdl.KMOD_SHIFT != 0)
	case sdl.SCANCODE_P:
		a.exportThumbnail()
	case sdl.SCANCODE_F12:
		a.exportFrame()
	default:
		if ev.Key >= sdl.SCANCODE_1 && ev.Key <= sdl.SCANCODE_9 {
			i := int(ev.Key - sdl.SCANCODE_1)
			if i < len(a.config.Garments) {
				if err := a.session.SelectGarment(a.config.Garments[i].Name); err != nil {
					a.log.Warn("garment", zap.Error(err))
				}
			}
		}
	}
}

// ray casts through a window point. Mouse coordinates are in window units,
// which differ from drawable pixels on high-DPI displays.
func (a *App) ray(x, y int) picking.Ray {
	w, h := a.window.GetSize()
	return a.camera.Ray(float32(x), float32(y), float32(w), float32(h))
}

func (a *App) importFile(path string) {
	if !assets.IsImagePath(path) {
		a.log.Debug("ignoring non-image drop", zap.String("path", path))
		return
	}
	if _, err := a.session.ImportFile(path); err != nil {
		a.log.Warn("import failed", zap.String("path", path), zap.Error(err))
	}
}

func (a *App) openArtwork() {
	filename, err := dialog.File().
		Filter("Images", "png", "jpg", "jpeg", "gif", "bmp", "webp", "tif", "tiff").
		Filter("All Files", "*").
		Title("Add Artwork").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			a.log.Warn("file dialog", zap.Error(err))
		}
		return
	}
	a.importFile(filename)
}

func (a *App) cycleEditTarget() {
	names := a.session.ComponentNames()
	if len(names) == 0 {
		return
	}
	next := names[0]
	for i, n := range names {
		if n == a.session.EditTarget() {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := a.session.SetEditTarget(next); err == nil {
		a.log.Info("edit target", zap.String("component", next))
		a.updateTitle()
	}
}

func (a *App) exportSurface(preview bool) {
	var (
		path string
		err  error
	)
	if preview {
		path, err = a.exporter.Image(a.session.PreviewImage())
	} else {
		path, err = a.exporter.Surface(a.session.Surface())
	}
	if err != nil {
		a.log.Error("export failed", zap.Error(err))
		return
	}
	a.log.Info("surface exported", zap.String("path", path))
}

func (a *App) exportFrame() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.exporter.Pixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

func (a *App) exportThumbnail() {
	sc := a.session.Scene()
	if sc == nil {
		return
	}
	dw, dh := a.window.DrawableSize()
	a.camera.SetAspect(1)
	viewProj := a.camera.ViewProjection()
	a.camera.SetAspect(float32(dw) / float32(max(dh, 1)))

	pixels, err := a.renderer.Thumbnail(sc, viewProj, thumbnailSize)
	if err != nil {
		a.log.Error("thumbnail failed", zap.Error(err))
		return
	}
	path, err := a.exporter.Pixels(pixels, thumbnailSize, thumbnailSize)
	if err != nil {
		a.log.Error("thumbnail failed", zap.Error(err))
		return
	}
	a.log.Info("thumbnail saved", zap.String("path", path))
}

func (a *App) updateTitle() {
	a.window.SetTitle(fmt.Sprintf("%s - %s", title, a.session.EditTarget()))
}

func (a *App) render() {
	a.renderer.Begin()
	if sc := a.session.Scene(); sc != nil {
		a.renderer.DrawScene(sc, a.camera.ViewProjection())
	}
	a.renderer.End()
}

// Close releases GPU and window resources.
func (a *App) Close() {
	a.log.Info("closing studio")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	a.assets.Close()
}
