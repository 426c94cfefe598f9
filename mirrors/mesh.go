package mirrors

import (
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
	"github.com/hpinc/go3mf"
)

func ptV(x, y, z float64) pt.Vector {
	return pt.Vector{X: x, Y: y, Z: z}
}

func quad(a, b, c, d pt.Vector, material pt.Material) []*pt.Triangle {
	return []*pt.Triangle{
		pt.NewTriangle(a, b, c, pt.Vector{}, pt.Vector{}, pt.Vector{}, material),
		pt.NewTriangle(a, c, d, pt.Vector{}, pt.Vector{}, pt.Vector{}, material),
	}
}

// Mesh extrudes the scene to the given height.
//
// Each wall becomes a vertical quad. Each mirror becomes a prism with the given
// number of sides; fewer than 3 sides leaves mirrors out.
func (s *Scene) Mesh(height float64, sides int) *pt.Mesh {
	material := pt.Material{}
	triangles := []*pt.Triangle{}
	for _, w := range s.walls {
		triangles = append(triangles, quad(
			ptV(w.P1.X, w.P1.Y, 0),
			ptV(w.P2.X, w.P2.Y, 0),
			ptV(w.P2.X, w.P2.Y, height),
			ptV(w.P1.X, w.P1.Y, height),
			material,
		)...)
	}
	if sides >= 3 {
		for _, m := range s.mirrors {
			for i := 0; i < sides; i++ {
				a0 := 2 * math.Pi * float64(i) / float64(sides)
				a1 := 2 * math.Pi * float64(i+1) / float64(sides)
				x0, y0 := m.Center.X+m.Radius*math.Cos(a0), m.Center.Y+m.Radius*math.Sin(a0)
				x1, y1 := m.Center.X+m.Radius*math.Cos(a1), m.Center.Y+m.Radius*math.Sin(a1)
				triangles = append(triangles, quad(
					ptV(x0, y0, 0),
					ptV(x1, y1, 0),
					ptV(x1, y1, height),
					ptV(x0, y0, height),
					material,
				)...)
			}
		}
	}
	return pt.NewMesh(triangles)
}

// SaveSTL writes the extruded scene to path
func (s *Scene) SaveSTL(path string, height float64, sides int) error {
	if err := s.Mesh(height, sides).SaveSTL(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WallsFromMesh slices m at the given height and returns every cut edge as a wall
func WallsFromMesh(m *pt.Mesh, height float64) []Wall {
	walls := []Wall{}
	for _, path := range HorizontalPlane(height).SliceMesh(m) {
		for i := 0; i < len(path)-1; i++ {
			w := Wall{P1: toPlan(path[i]), P2: toPlan(path[i+1])}
			if w.P1 == w.P2 {
				continue
			}
			walls = append(walls, w)
		}
	}
	return walls
}

// Save3MF writes the extruded scene as a single mesh object in a 3MF package.
// Shared corners are written once.
func (s *Scene) Save3MF(path string, height float64, sides int) error {
	mesh := &go3mf.Mesh{}
	index := make(map[go3mf.Point3D]uint32)
	vertex := func(v pt.Vector) uint32 {
		p := go3mf.Point3D{float32(v.X), float32(v.Y), float32(v.Z)}
		if i, ok := index[p]; ok {
			return i
		}
		i := uint32(len(mesh.Vertices.Vertex))
		index[p] = i
		mesh.Vertices.Vertex = append(mesh.Vertices.Vertex, p)
		return i
	}
	for _, t := range s.Mesh(height, sides).Triangles {
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
			V1: vertex(t.V1), V2: vertex(t.V2), V3: vertex(t.V3),
		})
	}

	model := go3mf.Model{Units: go3mf.UnitMillimeter}
	model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{ID: 1, Name: "enclosure", Mesh: mesh})
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 1})

	w, err := go3mf.CreateWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := w.Encode(&model); err != nil {
		w.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return w.Close()
}

// LoadMesh3MF reads every mesh object placed in the build of a 3MF file.
// Vertex coordinates are multiplied by scale.
func LoadMesh3MF(path string, scale float64) (*pt.Mesh, error) {
	var model go3mf.Model
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	material := pt.Material{}
	ptTriangles := []*pt.Triangle{}
	for _, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}
		vertex := func(i uint32) pt.Vector {
			v := obj.Mesh.Vertices.Vertex[i]
			return ptV(float64(v.X())*scale, float64(v.Y())*scale, float64(v.Z())*scale)
		}
		for _, t := range obj.Mesh.Triangles.Triangle {
			ptTriangles = append(ptTriangles, pt.NewTriangle(
				vertex(t.V1), vertex(t.V2), vertex(t.V3),
				pt.Vector{}, pt.Vector{}, pt.Vector{},
				material,
			))
		}
	}
	if len(ptTriangles) == 0 {
		return nil, fmt.Errorf("%s contains no mesh triangles", path)
	}
	return pt.NewMesh(ptTriangles), nil
}

// LoadWallsFrom3MF slices the enclosure stored in a 3MF file at sliceHeight
func LoadWallsFrom3MF(path string, sliceHeight, scale float64) ([]Wall, error) {
	mesh, err := LoadMesh3MF(path, scale)
	if err != nil {
		return nil, err
	}
	walls := WallsFromMesh(mesh, sliceHeight)
	if len(walls) == 0 {
		return nil, fmt.Errorf("slicing %s at height %v produced no walls", path, sliceHeight)
	}
	return walls, nil
}
