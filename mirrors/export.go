package mirrors

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

// JSON schema types
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type CircleJSON struct {
	Center PointJSON `json:"center"`
	Radius float64   `json:"radius"`
}

type WallJSON struct {
	P1 PointJSON `json:"p1"`
	P2 PointJSON `json:"p2"`
}

type PathJSON struct {
	AngleDeg float64     `json:"angleDeg"`
	Points   []PointJSON `json:"points"`
	Length   float64     `json:"length"`
	Digest   string      `json:"digest"`
	Color    string      `json:"color,omitempty"`
	Opacity  float64     `json:"opacity,omitempty"`
}

type SceneJSON struct {
	Origin  PointJSON    `json:"origin"`
	Epsilon float64      `json:"epsilon"`
	Mirrors []CircleJSON `json:"mirrors"`
	Walls   []WallJSON   `json:"walls"`
}

// TracedPath is a path together with the angle that produced it
type TracedPath struct {
	AngleDeg float64
	Path     Path
	Opacity  float64
}

// Conversion functions
func VectorToJSON(v r2.Vec) PointJSON {
	return PointJSON{X: v.X, Y: v.Y}
}

func SceneToJSON(s *Scene) SceneJSON {
	out := SceneJSON{
		Origin:  VectorToJSON(s.origin),
		Epsilon: s.epsilon,
		Mirrors: make([]CircleJSON, len(s.mirrors)),
		Walls:   make([]WallJSON, len(s.walls)),
	}
	for i, m := range s.mirrors {
		out.Mirrors[i] = CircleJSON{Center: VectorToJSON(m.Center), Radius: m.Radius}
	}
	for i, w := range s.walls {
		out.Walls[i] = WallJSON{P1: VectorToJSON(w.P1), P2: VectorToJSON(w.P2)}
	}
	return out
}

func TracedPathToJSON(t TracedPath) PathJSON {
	points := t.Path.Points()
	out := PathJSON{
		AngleDeg: t.AngleDeg,
		Points:   make([]PointJSON, len(points)),
		Length:   t.Path.Length(),
		Digest:   strconv.FormatUint(t.Path.Digest(), 16),
		Color:    "#FF6B6B",
		Opacity:  t.Opacity,
	}
	for i, p := range points {
		out.Points[i] = VectorToJSON(p)
	}
	return out
}

// SaveScenePathsToJSON writes the scene and the traced paths to a JSON file
func SaveScenePathsToJSON(filename string, scene *Scene, traces []TracedPath) error {
	container := struct {
		Scene SceneJSON  `json:"scene"`
		Paths []PathJSON `json:"paths"`
	}{
		Scene: SceneToJSON(scene),
		Paths: make([]PathJSON, 0, len(traces)),
	}

	for _, t := range traces {
		container.Paths = append(container.Paths, TracedPathToJSON(t))
	}

	data, err := json.MarshalIndent(container, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling scene and paths: %w", err)
	}

	return os.WriteFile(filename, data, 0644)
}
