package uvmap

// Placement tuning carried over from the upload flow: artwork covers half the
// UV extent, shrunk a further 35%, and sits 10% of the surface above the
// component's UV centroid.
const (
	extentShare   = 0.5
	artworkShrink = 0.65
	liftFraction  = 0.1
)

// Placement is where and how large a new piece of artwork lands on the surface.
type Placement struct {
	Left, Top  float32 // center, surface pixels
	Scale      float32 // uniform, applied to both axes
	CornerSize float32
}

// Place computes the initial transform of an imgW x imgH image on a square
// surface of the given size, targeting the component summarized by st.
func Place(size, imgW, imgH int, st Stats) Placement {
	if imgW <= 0 || imgH <= 0 || size <= 0 {
		return Placement{Left: float32(size) / 2, Top: float32(size) / 2, Scale: 1}
	}
	s := float32(size)
	fit := min(s/float32(imgW), s/float32(imgH))
	return Placement{
		Left:       s * st.AverageU,
		Top:        s*(1-st.AverageV) - s*liftFraction,
		Scale:      fit * st.Extent * extentShare * artworkShrink,
		CornerSize: float32(imgW) / 100,
	}
}
