package mirrors

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrDegenerateDirection is returned when a ray has no usable direction
	ErrDegenerateDirection = errors.New("degenerate ray direction")
	// ErrInvalidBounceLimit is returned for a negative bounce cap
	ErrInvalidBounceLimit = errors.New("invalid bounce limit")
)

// Segment is one straight leg of a traced path
type Segment struct {
	From r2.Vec
	To   r2.Vec
}

func (s Segment) Length() float64 {
	return r2.Norm(r2.Sub(s.To, s.From))
}

// Path is the ordered list of segments a ray travels. Each segment starts where the previous one ended.
type Path []Segment

// Length returns the total distance traveled along the path
func (p Path) Length() float64 {
	total := 0.0
	for _, s := range p {
		total += s.Length()
	}
	return total
}

// Points returns the launch point followed by every reflection point
func (p Path) Points() []r2.Vec {
	if len(p) == 0 {
		return nil
	}
	points := make([]r2.Vec, 0, len(p)+1)
	points = append(points, p[0].From)
	for _, s := range p {
		points = append(points, s.To)
	}
	return points
}

// End returns the last reflection point
func (p Path) End() (r2.Vec, bool) {
	if len(p) == 0 {
		return r2.Vec{}, false
	}
	return p[len(p)-1].To, true
}

// Digest hashes the exact bits of every coordinate. Two paths share a digest
// only if they are bit-identical (barring hash collisions).
func (p Path) Digest() uint64 {
	buf := make([]byte, 0, len(p)*32)
	for _, s := range p {
		for _, f := range []float64{s.From.X, s.From.Y, s.To.X, s.To.Y} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
	}
	return xxhash.Sum64(buf)
}

// TraceDegrees launches a ray from the scene origin at angleDegrees.
//
// A maxBounces of zero or less uses the scene's default cap.
func (s *Scene) TraceDegrees(angleDegrees float64, maxBounces int) (Path, error) {
	if maxBounces <= 0 {
		maxBounces = s.maxBounces
	}
	return s.Trace(s.origin, angleDegrees*math.Pi/180, maxBounces)
}

// Trace launches a ray from start at angleRadians and follows it for at most maxBounces reflections.
func (s *Scene) Trace(start r2.Vec, angleRadians float64, maxBounces int) (Path, error) {
	if math.IsNaN(angleRadians) || math.IsInf(angleRadians, 0) {
		return nil, fmt.Errorf("%w: angle %v", ErrDegenerateDirection, angleRadians)
	}
	return s.TraceRay(Ray{Origin: start, Direction: FromAngle(angleRadians)}, maxBounces)
}

// TraceRay follows ray through the scene for at most maxBounces reflections.
//
// The returned path is shorter than maxBounces only if the ray stops hitting
// anything, which an enclosed scene should never allow.
func (s *Scene) TraceRay(ray Ray, maxBounces int) (Path, error) {
	if maxBounces < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBounceLimit, maxBounces)
	}
	if !isFinite(ray.Origin) || !isFinite(ray.Direction) || r2.Norm2(ray.Direction) == 0 {
		return nil, fmt.Errorf("%w: origin %v direction %v", ErrDegenerateDirection, ray.Origin, ray.Direction)
	}

	path := make(Path, 0, maxBounces)
	current := ray
	for i := 0; i < maxBounces; i++ {
		hit, ok := s.nearestHit(current)
		if !ok {
			break
		}
		path = append(path, Segment{From: current.Origin, To: hit.Point})

		normal := hit.Normal
		reflected := Reflect(current.Direction, normal)
		if s.atCorner(hit.Point) {
			// Both walls reflect at once; the ray leaves the way it came
			reflected = r2.Scale(-1, current.Direction)
			normal = r2.Unit(reflected)
		}
		verifyReflectionLaw(current.Direction, normal, reflected)
		current = Ray{Origin: hit.Point, Direction: reflected}
	}
	return path, nil
}

func (s *Scene) nearestHit(ray Ray) (Intersection, bool) {
	var best Intersection
	found := false
	for _, r := range s.reflectors {
		hit, ok := r.Intersect(ray, s.epsilon)
		if !ok {
			continue
		}
		if !found || hit.T < best.T {
			best = hit
			found = true
		}
	}
	return best, found
}

// atCorner reports whether p is a vertex where two non-parallel walls meet.
// A vertex splitting a straight wall is not a corner.
func (s *Scene) atCorner(p r2.Vec) bool {
	var first r2.Vec
	found := false
	for _, w := range s.walls {
		if r2.Norm(r2.Sub(p, w.P1)) > s.epsilon && r2.Norm(r2.Sub(p, w.P2)) > s.epsilon {
			continue
		}
		n := segmentNormal(w.P1, w.P2)
		if !found {
			first, found = n, true
			continue
		}
		if math.Abs(r2.Cross(first, n)) > s.epsilon {
			return true
		}
	}
	return false
}
