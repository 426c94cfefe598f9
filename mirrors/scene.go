package mirrors

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidScene is returned when a scene cannot guarantee that every ray stays enclosed
var ErrInvalidScene = errors.New("invalid scene")

// DefaultMaxBounces is used when a caller does not specify a bounce cap
const DefaultMaxBounces = 20

// Layout describes the fixed mirror grid and square enclosure a Scene is built from
type Layout struct {
	// Canvas size. The grid and the ray origin are centered on the canvas.
	Width, Height float64
	// Mirror grid dimensions
	Rows, Cols int
	// Distance between neighbouring mirror centers
	Spacing float64
	// Mirror radius
	Radius float64
	// Distance of the square wall boundary from the canvas edges
	Inset float64
	// Leave the middle cell of an odd-sized grid empty so the ray can start there
	SkipCenter bool
	// Tolerance shared by all intersection tests
	Epsilon float64
	// Bounce cap used when a caller passes zero
	MaxBounces int
}

// DefaultLayout is a 600x600 canvas with a 3x3 grid of radius 50 mirrors spaced
// 150 apart, the center cell left empty, and walls inset 50 from the edges.
func DefaultLayout() Layout {
	return Layout{
		Width:      600,
		Height:     600,
		Rows:       3,
		Cols:       3,
		Spacing:    150,
		Radius:     50,
		Inset:      50,
		SkipCenter: true,
		Epsilon:    DefaultEpsilon,
		MaxBounces: DefaultMaxBounces,
	}
}

// Center returns the middle of the canvas
func (l Layout) Center() r2.Vec {
	return V(l.Width/2, l.Height/2)
}

// Mirrors returns the grid of mirrors in row-major order
func (l Layout) Mirrors() []Circle {
	c := l.Center()
	mirrors := make([]Circle, 0, l.Rows*l.Cols)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			if l.SkipCenter && l.Rows%2 == 1 && l.Cols%2 == 1 && row == l.Rows/2 && col == l.Cols/2 {
				continue
			}
			mirrors = append(mirrors, Circle{
				Center: V(
					c.X+(float64(col)-float64(l.Cols-1)/2)*l.Spacing,
					c.Y+(float64(row)-float64(l.Rows-1)/2)*l.Spacing,
				),
				Radius: l.Radius,
			})
		}
	}
	return mirrors
}

// Walls returns the four sides of the inset square boundary
func (l Layout) Walls() []Wall {
	x0, y0 := l.Inset, l.Inset
	x1, y1 := l.Width-l.Inset, l.Height-l.Inset
	return []Wall{
		{V(x0, y0), V(x1, y0)},
		{V(x1, y0), V(x1, y1)},
		{V(x1, y1), V(x0, y1)},
		{V(x0, y1), V(x0, y0)},
	}
}

// Scene is the immutable set of reflectors a ray can hit.
//
// A Scene is safe for concurrent use once constructed.
type Scene struct {
	origin     r2.Vec
	mirrors    []Circle
	walls      []Wall
	reflectors []Reflector
	epsilon    float64
	maxBounces int
}

// NewScene builds the scene described by layout
func NewScene(layout Layout) (*Scene, error) {
	if layout.Rows < 0 || layout.Cols < 0 {
		return nil, fmt.Errorf("%w: grid must have non-negative dimensions", ErrInvalidScene)
	}
	if layout.Inset*2 >= layout.Width || layout.Inset*2 >= layout.Height {
		return nil, fmt.Errorf("%w: inset %v leaves no room inside a %vx%v canvas", ErrInvalidScene, layout.Inset, layout.Width, layout.Height)
	}
	return NewSceneFromParts(layout.Center(), layout.Mirrors(), layout.Walls(), layout.Epsilon, WithMaxBounces(layout.MaxBounces))
}

// SceneOption adjusts optional scene settings
type SceneOption func(*Scene)

// WithMaxBounces sets the bounce cap used when a caller passes zero. Non-positive values are ignored.
func WithMaxBounces(n int) SceneOption {
	return func(s *Scene) {
		if n > 0 {
			s.maxBounces = n
		}
	}
}

// NewSceneFromParts builds a scene from explicit shapes.
//
// The walls must form closed loops (every endpoint shared, within eps, by an even
// number of wall ends) that enclose the origin and every mirror. No mirror may
// touch a wall, another mirror, or the origin.
func NewSceneFromParts(origin r2.Vec, mirrors []Circle, walls []Wall, eps float64, opts ...SceneOption) (*Scene, error) {
	if eps <= 0 {
		return nil, fmt.Errorf("%w: epsilon must be positive, got %v", ErrInvalidScene, eps)
	}
	if len(walls) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 walls to enclose anything, got %d", ErrInvalidScene, len(walls))
	}
	for i, w := range walls {
		if w.Length() <= eps {
			return nil, fmt.Errorf("%w: wall %d has zero length", ErrInvalidScene, i)
		}
	}
	if !closedLoops(walls, eps) {
		return nil, fmt.Errorf("%w: walls do not form closed loops", ErrInvalidScene)
	}
	if !insideWalls(origin, walls) {
		return nil, fmt.Errorf("%w: origin %v is outside the walls", ErrInvalidScene, origin)
	}
	for i, m := range mirrors {
		if m.Radius <= 0 {
			return nil, fmt.Errorf("%w: mirror %d has non-positive radius %v", ErrInvalidScene, i, m.Radius)
		}
		if !insideWalls(m.Center, walls) {
			return nil, fmt.Errorf("%w: mirror %d at %v is outside the walls", ErrInvalidScene, i, m.Center)
		}
		for j, w := range walls {
			if w.distanceTo(m.Center) <= m.Radius {
				return nil, fmt.Errorf("%w: mirror %d touches wall %d", ErrInvalidScene, i, j)
			}
		}
		for j := 0; j < i; j++ {
			if r2.Norm(r2.Sub(m.Center, mirrors[j].Center)) <= m.Radius+mirrors[j].Radius {
				return nil, fmt.Errorf("%w: mirrors %d and %d overlap", ErrInvalidScene, j, i)
			}
		}
		if r2.Norm(r2.Sub(origin, m.Center)) <= m.Radius {
			return nil, fmt.Errorf("%w: origin is inside mirror %d", ErrInvalidScene, i)
		}
	}

	s := &Scene{
		origin:     origin,
		mirrors:    append([]Circle(nil), mirrors...),
		walls:      append([]Wall(nil), walls...),
		epsilon:    eps,
		maxBounces: DefaultMaxBounces,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Mirrors precede walls; on an exact tie in t the earlier reflector wins.
	s.reflectors = make([]Reflector, 0, len(mirrors)+len(walls))
	for _, m := range s.mirrors {
		s.reflectors = append(s.reflectors, m)
	}
	for _, w := range s.walls {
		s.reflectors = append(s.reflectors, w)
	}
	return s, nil
}

// closedLoops reports whether every wall endpoint meets an even number of wall
// ends (itself included), so no wall set with a gap or dangling end passes.
func closedLoops(walls []Wall, eps float64) bool {
	ends := make([]r2.Vec, 0, 2*len(walls))
	for _, w := range walls {
		ends = append(ends, w.P1, w.P2)
	}
	for _, p := range ends {
		degree := 0
		for _, q := range ends {
			if r2.Norm(r2.Sub(p, q)) <= eps {
				degree++
			}
		}
		if degree%2 != 0 {
			return false
		}
	}
	return true
}

// insideWalls is an even-odd crossing test over an arbitrary set of wall segments
func insideWalls(p r2.Vec, walls []Wall) bool {
	inside := false
	for _, w := range walls {
		xi, yi := w.P1.X, w.P1.Y
		xj, yj := w.P2.X, w.P2.Y
		if ((yi > p.Y) != (yj > p.Y)) &&
			(p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
	}
	return inside
}

func (s *Scene) Origin() r2.Vec {
	return s.origin
}

func (s *Scene) Epsilon() float64 {
	return s.epsilon
}

// MaxBounces is the bounce cap used when a caller passes zero
func (s *Scene) MaxBounces() int {
	return s.maxBounces
}

func (s *Scene) Mirrors() []Circle {
	return append([]Circle(nil), s.mirrors...)
}

func (s *Scene) Walls() []Wall {
	return append([]Wall(nil), s.walls...)
}

// Reflectors returns every reflector in the order the tracer tests them
func (s *Scene) Reflectors() []Reflector {
	return append([]Reflector(nil), s.reflectors...)
}

// Bounds returns the bounding box of the walls
func (s *Scene) Bounds() r2.Box {
	b := r2.Box{Min: s.walls[0].P1, Max: s.walls[0].P1}
	for _, w := range s.walls {
		for _, p := range []r2.Vec{w.P1, w.P2} {
			b.Min.X = min(b.Min.X, p.X)
			b.Min.Y = min(b.Min.Y, p.Y)
			b.Max.X = max(b.Max.X, p.X)
			b.Max.Y = max(b.Max.Y, p.Y)
		}
	}
	return b
}
