package mirrors

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// V is a shorthand constructor for r2.Vec
func V(X, Y float64) r2.Vec {
	return r2.Vec{X: X, Y: Y}
}

// FromAngle returns the unit vector pointing along the given angle in radians
func FromAngle(radians float64) r2.Vec {
	return V(math.Cos(radians), math.Sin(radians))
}

func isFinite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
