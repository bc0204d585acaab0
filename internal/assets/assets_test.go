package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/uvstudio/internal/logger"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	img, err := DecodeImage(pngBytes(t, 8, 4))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))))
	img, err = DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestDecodeImageRejects(t *testing.T) {
	tests := map[string][]byte{
		"empty":     nil,
		"text":      []byte("definitely not an image"),
		"truncated": pngBytes(t, 8, 8)[:40],
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			img, err := DecodeImage(data)
			assert.ErrorIs(t, err, ErrAssetLoad)
			assert.Nil(t, img)
		})
	}
}

func TestToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 2, 6, 4))
	src.Set(2, 2, color.NRGBA{G: 255, A: 255})
	out := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(0, 0))
}

const shirtOBJ = `# two components
mtllib shirt.mtl
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
o bodyFMIX
usemtl fabric
f 1/1/1 2/2/1 3/3/1 4/4/1
g sleeve
f -4 -3 -2
`

func TestDecodeOBJ(t *testing.T) {
	comps, err := DecodeOBJ(strings.NewReader(shirtOBJ))
	require.NoError(t, err)
	require.Len(t, comps, 2)

	body := comps[0]
	assert.Equal(t, "bodyFMIX", body.Name)
	assert.Len(t, body.Positions, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, body.Indices)
	require.True(t, body.HasUV())
	assert.Equal(t, [2]float32{1, 1}, body.UVs[2])

	sleeve := comps[1]
	assert.Equal(t, "sleeve", sleeve.Name)
	assert.Equal(t, 1, sleeve.TriangleCount())
	assert.False(t, sleeve.HasUV())
	assert.Equal(t, [3]float32{-1, -1, 0}, sleeve.Positions[0])
}

func TestDecodeOBJSharesVertices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 1 1\nvt 0 1\n" +
		"f 1/1 2/2 3/3\nf 1/1 3/3 4/4\n"
	comps, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "", comps[0].Name)
	assert.Len(t, comps[0].Positions, 4)
	assert.Len(t, comps[0].UVs, 4)
}

func TestDecodeOBJErrors(t *testing.T) {
	tests := map[string]string{
		"no faces":     "v 0 0 0\n",
		"bad index":    "v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1 2 9\n",
		"bad float":    "v 0 zero 0\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad texcoord": "v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1/4 2 3\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeOBJ(strings.NewReader(src))
			assert.ErrorIs(t, err, ErrAssetLoad)
		})
	}
}

func TestManagerRootsAndCache(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(low, "a.txt"), []byte("low"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(low, "b.txt"), []byte("only-low"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(high, "a.txt"), []byte("high"), 0o644))

	m := NewManager()
	require.NoError(t, m.AddRoot(low))
	require.NoError(t, m.AddRoot(high))
	assert.Error(t, m.AddRoot(filepath.Join(low, "a.txt")))

	data, err := m.Load("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "high", string(data))

	data, err = m.Load("b.txt")
	require.NoError(t, err)
	assert.Equal(t, "only-low", string(data))

	_, err = m.Load("a.txt")
	require.NoError(t, err)
	hits, misses := m.cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)

	_, err = m.Load("missing.png")
	assert.ErrorIs(t, err, ErrAssetLoad)
}

func TestManagerLoadModel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shirt.obj"), []byte(shirtOBJ), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.obj"), []byte("v 1 2 3\n"), 0o644))

	m := NewManager()
	require.NoError(t, m.AddRoot(dir))

	comps, err := m.LoadModel("shirt.obj")
	require.NoError(t, err)
	assert.Len(t, comps, 2)

	_, err = m.LoadModel("broken.obj")
	assert.ErrorIs(t, err, ErrAssetLoad)
}

func TestIsImagePath(t *testing.T) {
	assert.True(t, IsImagePath("/tmp/logo.PNG"))
	assert.True(t, IsImagePath("art.webp"))
	assert.False(t, IsImagePath("notes.txt"))
	assert.False(t, IsImagePath("noext"))
}

func TestInboxReportsImages(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in, err := WatchInbox(ctx, dir)
	require.NoError(t, err)
	defer in.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
	logo := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(logo, pngBytes(t, 2, 2), 0o644))

	select {
	case p := <-in.Paths():
		assert.Equal(t, logo, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no inbox event")
	}
}

func TestInboxStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in, err := WatchInbox(ctx, t.TempDir())
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-in.Paths():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("inbox did not stop")
	}
	assert.NoError(t, in.Close())
}

func TestWatchInboxMissingDir(t *testing.T) {
	_, err := WatchInbox(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWatchInboxLogsDirOnce(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	dir := t.TempDir()
	in, err := WatchInbox(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, in.Close())

	watching := logs.FilterMessage("watching artwork inbox").All()
	require.Len(t, watching, 1)
	assert.Equal(t, dir, watching[0].ContextMap()["dir"])
	assert.Equal(t, "inbox", watching[0].LoggerName)
}
