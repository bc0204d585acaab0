package uvmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadComponent() *Component {
	return &Component{
		Name: "bodyFMIX",
		Positions: [][3]float32{
			{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
		},
		UVs: [][2]float32{
			{0.2, 0.3}, {0.8, 0.3}, {0.8, 0.7}, {0.2, 0.7},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestAverageUV(t *testing.T) {
	avg := AverageUV(quadComponent())
	assert.InDelta(t, 0.5, avg.U, 1e-6)
	assert.InDelta(t, 0.5, avg.V, 1e-6)
}

func TestExtent(t *testing.T) {
	assert.InDelta(t, 0.24, Extent(quadComponent()), 1e-6)

	small := &Component{
		Positions: make([][3]float32, 3),
		UVs:       [][2]float32{{0.40, 0.20}, {0.45, 0.20}, {0.45, 0.30}},
	}
	assert.InDelta(t, 0.005, Extent(small), 1e-6, "small islands keep their own area")
}

func TestNoUVChannel(t *testing.T) {
	c := &Component{Name: "sleeve", Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}

	assert.Equal(t, Center, AverageUV(c))
	assert.Equal(t, MinExtent, Extent(c))

	st, err := Analyze(c)
	require.ErrorIs(t, err, ErrNoUVChannel)
	assert.Equal(t, DefaultStats(), st)
}

func TestNilComponent(t *testing.T) {
	assert.Equal(t, Center, AverageUV(nil))
	_, err := Analyze(nil)
	assert.ErrorIs(t, err, ErrNoUVChannel)
}

func TestDegenerateExtent(t *testing.T) {
	tests := []struct {
		name string
		uvs  [][2]float32
	}{
		{"single point", [][2]float32{{0.4, 0.4}, {0.4, 0.4}, {0.4, 0.4}}},
		{"flat line", [][2]float32{{0.1, 0.5}, {0.9, 0.5}, {0.5, 0.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Component{Positions: make([][3]float32, len(tt.uvs)), UVs: tt.uvs}
			assert.Equal(t, MinExtent, Extent(c))
		})
	}
}

func TestAnalyze(t *testing.T) {
	st, err := Analyze(quadComponent())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, st.AverageU, 1e-6)
	assert.InDelta(t, 0.5, st.AverageV, 1e-6)
	assert.InDelta(t, 0.24, st.Extent, 1e-6)
}

func TestTriangles(t *testing.T) {
	c := quadComponent()
	require.Equal(t, 2, c.TriangleCount())
	a, b, d := c.Triangle(1)
	assert.Equal(t, [3]uint32{0, 2, 3}, [3]uint32{a, b, d})

	flat := &Component{Positions: make([][3]float32, 6)}
	require.Equal(t, 2, flat.TriangleCount())
	a, b, d = flat.Triangle(1)
	assert.Equal(t, [3]uint32{3, 4, 5}, [3]uint32{a, b, d})
}

func TestPlace(t *testing.T) {
	st := Stats{AverageU: 0.5, AverageV: 0.5, Extent: 0.24}
	p := Place(1024, 512, 256, st)

	assert.InDelta(t, 512, p.Left, 1e-3)
	// v=0.5 maps to row 512, lifted by 10% of the surface.
	assert.InDelta(t, 512-102.4, p.Top, 1e-3)
	// fit = min(1024/512, 1024/256) = 2
	assert.InDelta(t, 2*0.24*0.5*0.65, p.Scale, 1e-5)
	assert.InDelta(t, 5.12, p.CornerSize, 1e-5)
}

func TestPlaceEmptyImage(t *testing.T) {
	p := Place(512, 0, 10, DefaultStats())
	assert.Equal(t, float32(256), p.Left)
	assert.Equal(t, float32(1), p.Scale)
}
