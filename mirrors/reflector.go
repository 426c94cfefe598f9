package mirrors

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Reflector is anything that can stop and redirect a ray
type Reflector interface {
	// Intersect returns the nearest forward hit of ray, ignoring hits with t <= eps.
	Intersect(ray Ray, eps float64) (Intersection, bool)
}

// Circle is a circular mirror
type Circle struct {
	Center r2.Vec
	Radius float64
}

func (c Circle) Intersect(ray Ray, eps float64) (Intersection, bool) {
	return IntersectCircle(ray, c.Center, c.Radius, eps)
}

// Wall is a straight boundary segment
type Wall struct {
	P1, P2 r2.Vec
}

func (w Wall) Intersect(ray Ray, eps float64) (Intersection, bool) {
	return IntersectSegment(ray, w.P1, w.P2, eps)
}

// Length returns the distance between the wall's endpoints
func (w Wall) Length() float64 {
	return r2.Norm(r2.Sub(w.P2, w.P1))
}

// distanceTo returns the shortest distance from p to any point on the wall
func (w Wall) distanceTo(p r2.Vec) float64 {
	e := r2.Sub(w.P2, w.P1)
	l2 := r2.Norm2(e)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, w.P1))
	}
	s := r2.Dot(r2.Sub(p, w.P1), e) / l2
	s = max(0, min(1, s))
	return r2.Norm(r2.Sub(p, r2.Add(w.P1, r2.Scale(s, e))))
}

var (
	_ Reflector = Circle{}
	_ Reflector = Wall{}
)
