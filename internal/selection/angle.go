package selection

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/uvstudio/internal/surface"
	pmath "github.com/Faultbox/uvstudio/pkg/math"
)

// CalculateAngle returns the rotation, in degrees within [0,360), that takes
// the vector center->*prev onto center->cur. *prev is advanced to cur so the
// next call measures a single step.
func CalculateAngle(center pmath.Vec2, prev *pmath.Vec2, cur pmath.Vec2) float32 {
	from := prev.Sub(center).Heading()
	to := cur.Sub(center).Heading()
	*prev = cur
	return surface.NormalizeAngle((to - from) * 180 / math32.Pi)
}
