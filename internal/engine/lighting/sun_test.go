package lighting

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float32
		want               [3]float32
	}{
		{"zenith", 0, 90, [3]float32{0, -1, 0}},
		{"horizon front", 0, 0, [3]float32{0, 0, -1}},
		{"horizon right", 90, 0, [3]float32{-1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			for i := range got {
				if math32.Abs(got[i]-tt.want[i]) > 1e-5 {
					t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
					break
				}
			}
		})
	}
}

func TestSunDirectionNormalized(t *testing.T) {
	d := Studio.Direction
	l := math32.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	if math32.Abs(l-1) > 1e-5 {
		t.Errorf("expected unit direction, got length %f", l)
	}
	if d[1] >= 0 {
		t.Errorf("studio light should point downward, got %v", d)
	}
}
