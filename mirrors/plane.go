package mirrors

import (
	"math"

	"github.com/fogleman/pt/pt"
	"gonum.org/v1/gonum/spatial/r2"
)

// Slicing follows https://github.com/fogleman/choppy: cut each triangle, then chain the cut edges.

// Plane is an infinite cutting plane through a mesh
type Plane struct {
	Point  pt.Vector
	Normal pt.Vector
}

// HorizontalPlane returns the plane z = height
func HorizontalPlane(height float64) Plane {
	return Plane{Point: pt.Vector{Z: height}, Normal: pt.Vector{Z: 1}}
}

type polyline []pt.Vector

// cut is one edge produced by slicing a triangle
type cut struct {
	from, to pt.Vector
}

// SliceMesh cuts every triangle of m and chains the cut edges into polylines
func (p Plane) SliceMesh(m *pt.Mesh) []polyline {
	var cuts []cut
	for _, t := range m.Triangles {
		if a, b, ok := p.IntersectTriangle(t); ok {
			cuts = append(cuts, cut{a, b})
		}
	}
	return chain(cuts)
}

// chain links cuts head to tail. Every cut lands in exactly one polyline.
// Closed loops repeat their first point at the end.
func chain(cuts []cut) []polyline {
	byStart := make(map[pt.Vector]int, len(cuts))
	isEnd := make(map[pt.Vector]bool, len(cuts))
	for i, c := range cuts {
		byStart[c.from] = i
		isEnd[c.to] = true
	}

	used := make([]bool, len(cuts))
	follow := func(i int) polyline {
		line := polyline{cuts[i].from}
		for !used[i] {
			used[i] = true
			line = append(line, cuts[i].to)
			j, ok := byStart[cuts[i].to]
			if !ok {
				break
			}
			i = j
		}
		return line
	}

	var lines []polyline
	// Open chains start at a point no other cut ends on
	for i, c := range cuts {
		if !used[i] && !isEnd[c.from] {
			lines = append(lines, follow(i))
		}
	}
	for i := range cuts {
		if !used[i] {
			lines = append(lines, follow(i))
		}
	}
	return lines
}

// crossing returns where the segment a-b passes through the plane
func (p Plane) crossing(a, b pt.Vector) (pt.Vector, bool) {
	da := p.Normal.Dot(a.Sub(p.Point))
	db := p.Normal.Dot(b.Sub(p.Point))
	if math.Abs(da-db) < 1e-9 {
		return pt.Vector{}, false
	}
	t := da / (da - db)
	if t < 0 || t > 1 {
		return pt.Vector{}, false
	}
	return a.Add(b.Sub(a).MulScalar(t)), true
}

// IntersectTriangle returns the segment where the plane cuts t, oriented by the triangle's winding.
// A triangle that only touches the plane at a vertex is not cut.
func (p Plane) IntersectTriangle(t *pt.Triangle) (pt.Vector, pt.Vector, bool) {
	var hits []pt.Vector
	for _, edge := range [3][2]pt.Vector{{t.V1, t.V2}, {t.V2, t.V3}, {t.V3, t.V1}} {
		v, ok := p.crossing(edge[0], edge[1])
		if !ok {
			continue
		}
		seen := false
		for _, h := range hits {
			seen = seen || h == v
		}
		if !seen {
			hits = append(hits, v)
		}
	}
	if len(hits) != 2 {
		return pt.Vector{}, pt.Vector{}, false
	}
	a, b := hits[0], hits[1]
	if b.Sub(a).Cross(p.Normal).Dot(t.Normal()) < 0 {
		return a, b, true
	}
	return b, a, true
}

func toPlan(v pt.Vector) r2.Vec {
	return V(v.X, v.Y)
}
