// Package lighting provides the directional light the garment is shaded with.
package lighting

import "github.com/chewxy/math32"

// Light is a single directional light plus a flat ambient term.
type Light struct {
	// Direction points from the light towards the scene.
	Direction [3]float32
	Ambient   float32
}

// Studio is the soft key light used for garment previews: slightly left of and
// above the default camera.
var Studio = Light{Direction: SunDirection(200, 30), Ambient: 0.55}

// SunDirection converts an azimuth around Y (degrees, 0 along +Z) and an
// elevation above the horizon (degrees) into a normalized direction pointing
// down from the sun.
func SunDirection(azimuth, elevation float32) [3]float32 {
	az := azimuth * math32.Pi / 180
	el := elevation * math32.Pi / 180
	c := math32.Cos(el)
	return [3]float32{-c * math32.Sin(az), -math32.Sin(el), -c * math32.Cos(az)}
}
