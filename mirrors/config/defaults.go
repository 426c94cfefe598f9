package config

import (
	"github.com/jdginn/go-mirror-box/mirrors"
)

// Default returns the configuration of the reference mirror box
func Default() *ExperimentConfig {
	l := mirrors.DefaultLayout()
	return &ExperimentConfig{
		Scene: Scene{
			Width:      l.Width,
			Height:     l.Height,
			Rows:       l.Rows,
			Cols:       l.Cols,
			Spacing:    l.Spacing,
			Radius:     l.Radius,
			Inset:      l.Inset,
			SkipCenter: l.SkipCenter,
			Epsilon:    l.Epsilon,
		},
		Simulation: Simulation{
			AngleDeg:   0,
			MaxBounces: l.MaxBounces,
		},
		Sweep: Sweep{
			StartDeg: 0,
			StopDeg:  359,
			StepDeg:  1,
		},
		Render: Render{
			Width:         800,
			Height:        800,
			Margin:        20,
			TrailLength:   8,
			TrailMaxAgeMS: 2000,
			PlotWidth:     600,
			PlotHeight:    300,
			STLHeight:     50,
			STLSides:      32,
		},
	}
}
