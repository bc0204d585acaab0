// Package renderer draws the garment scene with OpenGL and uploads the
// drawing surface texture when it changes.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/uvstudio/internal/engine/framebuffer"
	"github.com/Faultbox/uvstudio/internal/engine/lighting"
	"github.com/Faultbox/uvstudio/internal/engine/model"
	"github.com/Faultbox/uvstudio/internal/engine/renderer/shaders"
	"github.com/Faultbox/uvstudio/internal/engine/shader"
	"github.com/Faultbox/uvstudio/internal/engine/texture"
	"github.com/Faultbox/uvstudio/internal/logger"
	"github.com/Faultbox/uvstudio/internal/scene"
	"github.com/Faultbox/uvstudio/pkg/math"
)

// ClearColor is the viewport background behind the garment.
var ClearColor = colorful.Color{R: 0xf4 / 255.0, G: 0xf4 / 255.0, B: 0xf4 / 255.0}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	// Light shades every mesh.
	Light lighting.Light

	program  uint32
	uniforms *shader.Uniforms

	meshes map[*scene.Mesh]*gpuMesh

	// Surface texture
	texID   uint32
	texSize int32

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		Light:  lighting.Studio,
		meshes: make(map[*scene.Mesh]*gpuMesh),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(float32(ClearColor.R), float32(ClearColor.G), float32(ClearColor.B), 1)

	var err error
	r.program, err = shader.CompileProgram(shaders.GarmentVertexShader, shaders.GarmentFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("garment shader: %w", err)
	}
	r.uniforms = shader.NewUniforms(r.program)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.UnloadScene()
	if r.texID != 0 {
		gl.DeleteTextures(1, &r.texID)
		r.texID = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize handles window resize. Sizes are in framebuffer pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// LoadScene uploads vertex data for every mesh of sc.
func (r *Renderer) LoadScene(sc *scene.Scene) {
	r.UnloadScene()
	for _, m := range sc.Meshes() {
		built := model.BuildMesh(m.Geometry(), model.BuildOptions{SmoothSeams: true})
		if len(built.Indices) == 0 {
			continue
		}
		r.meshes[m] = uploadMesh(built)
	}
	r.log.Debug("scene uploaded", zap.Int("meshes", len(r.meshes)))
}

// UnloadScene frees all mesh buffers.
func (r *Renderer) UnloadScene() {
	for m, g := range r.meshes {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
		delete(r.meshes, m)
	}
}

func uploadMesh(m *model.Mesh) *gpuMesh {
	g := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return g
}

// Upload pushes the texture pixels to the GPU. It satisfies texture.Uploader.
func (r *Renderer) Upload(t *texture.Texture) error {
	px := t.Pixels()
	size := int32(t.Size())
	if size == 0 || len(px.Pix) == 0 {
		return fmt.Errorf("upload: empty texture")
	}

	if r.texID == 0 {
		gl.GenTextures(1, &r.texID)
	}
	gl.BindTexture(gl.TEXTURE_2D, r.texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	if size != r.texSize {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, size, size, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&px.Pix[0]))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		r.texSize = size
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, size, size, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&px.Pix[0]))
	}
	gl.GenerateMipmap(gl.TEXTURE_2D)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("upload: GL error 0x%x", code)
	}
	return nil
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// DrawScene draws every uploaded mesh of sc with the given view-projection.
func (r *Renderer) DrawScene(sc *scene.Scene, viewProj math.Mat4) {
	if len(r.meshes) == 0 {
		return
	}
	u := r.uniforms
	gl.UseProgram(r.program)

	l := r.Light
	gl.Uniform3f(u.Loc("uLightDir"), l.Direction[0], l.Direction[1], l.Direction[2])
	gl.Uniform1f(u.Loc("uAmbient"), l.Ambient)
	gl.Uniform2f(u.Loc("uTexRepeat"), 1, texture.RepeatY)
	gl.Uniform2f(u.Loc("uTexOffset"), 0, texture.OffsetY)
	gl.Uniform1i(u.Loc("uTexture"), 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texID)

	opacity := sc.Root.Opacity
	gl.DepthMask(opacity >= 1)
	defer gl.DepthMask(true)

	for _, m := range sc.Meshes() {
		g, ok := r.meshes[m]
		if !ok {
			continue
		}
		modelM := m.ModelMatrix()
		mvp := viewProj.Mul(modelM)
		gl.UniformMatrix4fv(u.Loc("uMVP"), 1, false, mvp.Ptr())
		gl.UniformMatrix4fv(u.Loc("uModel"), 1, false, modelM.Ptr())

		mat := m.Material
		c := mat.Color().Clamped()
		gl.Uniform3f(u.Loc("uColor"), float32(c.R), float32(c.G), float32(c.B))
		gl.Uniform1f(u.Loc("uOpacity"), mat.Opacity*opacity)
		hasMap := int32(0)
		if mat.Map != nil && r.texID != 0 {
			hasMap = 1
		}
		gl.Uniform1i(u.Loc("uHasMap"), hasMap)

		gl.BindVertexArray(g.vao)
		gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	}
}

// ReadPixels reads the current framebuffer, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	buf := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&buf[0]))
	return buf, w, h
}

// Thumbnail draws sc offscreen into a size x size image, bottom row first.
func (r *Renderer) Thumbnail(sc *scene.Scene, viewProj math.Mat4, size int) ([]byte, error) {
	fb, err := framebuffer.New(int32(size), int32(size))
	if err != nil {
		return nil, err
	}
	defer fb.Destroy()

	restore := fb.BindWithViewport()
	defer restore()

	fb.Clear(ClearColor)
	r.DrawScene(sc, viewProj)
	r.End()
	return fb.ReadPixels(), nil
}
