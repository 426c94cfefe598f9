package mirrors

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepParams selects the launch angles traced by Sweep
type SweepParams struct {
	// First angle, in degrees
	StartDeg float64
	// Last angle, in degrees. Included if it lies on the step grid.
	StopDeg float64
	// Distance between consecutive angles, in degrees
	StepDeg float64
	// Bounce cap per trace. Zero uses the scene default.
	MaxBounces int
	// Number of concurrent traces. Zero uses GOMAXPROCS.
	Workers int
}

// MaxSweepAngles bounds the number of angles a single sweep may trace
const MaxSweepAngles = 1 << 20

// Angles returns the launch angles described by p
func (p SweepParams) Angles() ([]float64, error) {
	for _, v := range []float64{p.StartDeg, p.StopDeg, p.StepDeg} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("sweep bounds must be finite, got start %v stop %v step %v", p.StartDeg, p.StopDeg, p.StepDeg)
		}
	}
	if p.StepDeg <= 0 {
		return nil, fmt.Errorf("sweep step must be positive, got %v", p.StepDeg)
	}
	if p.StopDeg < p.StartDeg {
		return nil, fmt.Errorf("sweep stop %v is before start %v", p.StopDeg, p.StartDeg)
	}
	span := math.Floor((p.StopDeg-p.StartDeg)/p.StepDeg + 1e-9)
	if span+1 > MaxSweepAngles {
		return nil, fmt.Errorf("sweep of %v angles exceeds the limit of %d", span+1, MaxSweepAngles)
	}
	n := int(span) + 1
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = p.StartDeg + float64(i)*p.StepDeg
	}
	return angles, nil
}

// SweepResult summarizes the path traced for one launch angle
type SweepResult struct {
	AngleDeg float64
	// Number of reflections in the path
	Bounces int
	// Total distance traveled
	Length float64
	// The ray stopped hitting reflectors before reaching the bounce cap
	Escaped bool
	Digest  uint64
}

// Sweep traces every angle in params concurrently and returns results in angle order.
func Sweep(ctx context.Context, scene *Scene, params SweepParams, logger *zap.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	angles, err := params.Angles()
	if err != nil {
		return nil, err
	}
	maxBounces := params.MaxBounces
	if maxBounces <= 0 {
		maxBounces = scene.MaxBounces()
	}
	workers := params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]SweepResult, len(angles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, angle := range angles {
		i, angle := i, angle
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := scene.TraceDegrees(angle, maxBounces)
			if err != nil {
				return fmt.Errorf("tracing %v degrees: %w", angle, err)
			}
			results[i] = SweepResult{
				AngleDeg: angle,
				Bounces:  len(path),
				Length:   path.Length(),
				Escaped:  len(path) < maxBounces,
				Digest:   path.Digest(),
			}
			if results[i].Escaped {
				logger.Warn("ray escaped the enclosure",
					zap.Float64("angle_deg", angle),
					zap.Int("bounces", len(path)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Debug("sweep finished",
		zap.Int("angles", len(angles)),
		zap.Int("workers", workers),
		zap.Int("max_bounces", maxBounces))
	return results, nil
}
