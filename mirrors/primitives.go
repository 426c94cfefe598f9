package mirrors

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultEpsilon is the shared tolerance for excluding self-intersection at a
// ray's origin and for rejecting near-parallel ray/segment configurations.
const DefaultEpsilon = 1e-6

// Ray is a half-line starting at Origin. Direction need not be unit length.
type Ray struct {
	Origin    r2.Vec
	Direction r2.Vec
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) r2.Vec {
	return r2.Add(r.Origin, r2.Scale(t, r.Direction))
}

// Intersection describes where a ray meets a reflector
type Intersection struct {
	// Hit location
	Point r2.Vec
	// Ray parameter of the hit, measured in multiples of the ray direction
	T float64
	// Unit normal of the surface at Point
	Normal r2.Vec
}

// IntersectCircle finds the nearest forward hit of ray on the circle of the given radius.
//
// Roots at or below eps are discarded so a ray leaving a mirror does not hit that
// mirror again at its own origin.
func IntersectCircle(ray Ray, center r2.Vec, radius, eps float64) (Intersection, bool) {
	oc := r2.Sub(ray.Origin, center)
	a := r2.Dot(ray.Direction, ray.Direction)
	b := 2 * r2.Dot(oc, ray.Direction)
	c := r2.Dot(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return Intersection{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	t := (-b - sqrtD) / (2 * a)
	if t <= eps {
		t = (-b + sqrtD) / (2 * a)
		if t <= eps {
			return Intersection{}, false
		}
	}

	hit := ray.At(t)
	return Intersection{
		Point:  hit,
		T:      t,
		Normal: r2.Scale(1/radius, r2.Sub(hit, center)),
	}, true
}

// segmentParams solves origin + t*dir = p1 + s*(p2-p1).
// ok is false when the determinant is within eps of zero.
func segmentParams(ray Ray, p1, p2 r2.Vec, eps float64) (t, s float64, ok bool) {
	e := r2.Sub(p2, p1)
	det := r2.Cross(ray.Direction, e)
	if math.Abs(det) < eps {
		return 0, 0, false
	}
	w := r2.Sub(p1, ray.Origin)
	t = r2.Cross(w, e) / det
	s = r2.Cross(w, ray.Direction) / det
	return t, s, true
}

// IntersectSegment finds the hit of ray on the segment p1-p2, endpoints included.
//
// The returned normal is the segment direction rotated by +90 degrees. It is not
// flipped to face the ray; Reflect does not depend on which side it points to.
func IntersectSegment(ray Ray, p1, p2 r2.Vec, eps float64) (Intersection, bool) {
	t, s, ok := segmentParams(ray, p1, p2, eps)
	if !ok || t <= eps || s < 0 || s > 1 {
		return Intersection{}, false
	}
	return Intersection{
		Point:  ray.At(t),
		T:      t,
		Normal: segmentNormal(p1, p2),
	}, true
}

func segmentNormal(p1, p2 r2.Vec) r2.Vec {
	e := r2.Sub(p2, p1)
	return r2.Unit(V(-e.Y, e.X))
}

// Reflect mirrors dir about a surface with the given unit normal.
//
// R = D - 2 * dot(D, N) * N
func Reflect(dir, normal r2.Vec) r2.Vec {
	return r2.Sub(dir, r2.Scale(2*r2.Dot(dir, normal), normal))
}
