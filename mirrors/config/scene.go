package config

import (
	"fmt"

	"github.com/jdginn/go-mirror-box/mirrors"
)

// Layout converts the scene section to a mirrors.Layout
func (c *ExperimentConfig) Layout() mirrors.Layout {
	return mirrors.Layout{
		Width:      c.Scene.Width,
		Height:     c.Scene.Height,
		Rows:       c.Scene.Rows,
		Cols:       c.Scene.Cols,
		Spacing:    c.Scene.Spacing,
		Radius:     c.Scene.Radius,
		Inset:      c.Scene.Inset,
		SkipCenter: c.Scene.SkipCenter,
		Epsilon:    c.Scene.Epsilon,
		MaxBounces: c.Simulation.MaxBounces,
	}
}

// BuildScene creates the scene described by the config.
//
// Extra mirrors are appended after the grid. When an enclosure mesh is set, its
// slice replaces the square boundary.
func (c *ExperimentConfig) BuildScene() (*mirrors.Scene, error) {
	layout := c.Layout()

	origin := layout.Center()
	if c.Scene.Origin != nil {
		origin = mirrors.V(c.Scene.Origin[0], c.Scene.Origin[1])
	}

	circles := layout.Mirrors()
	for _, m := range c.Scene.ExtraMirrors.Inline {
		circles = append(circles, mirrors.Circle{Center: mirrors.V(m.X, m.Y), Radius: m.Radius})
	}

	walls := layout.Walls()
	if c.Enclosure.MeshPath != "" {
		scale := c.Enclosure.Scale
		if scale == 0 {
			scale = 1
		}
		var err error
		walls, err = mirrors.LoadWallsFrom3MF(c.Enclosure.MeshPath, c.Enclosure.SliceHeight, scale)
		if err != nil {
			return nil, fmt.Errorf("loading enclosure: %w", err)
		}
	}

	return mirrors.NewSceneFromParts(origin, circles, walls, layout.Epsilon, mirrors.WithMaxBounces(layout.MaxBounces))
}
