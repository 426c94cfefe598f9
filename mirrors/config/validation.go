package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/jdginn/go-mirror-box/mirrors"
)

// ValidationError is one problem found in a config field
type ValidationError struct {
	Field   string // dotted yaml path, e.g. "scene.radius"
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// checks accumulates the validation errors of one section
type checks []ValidationError

func (c *checks) fail(field, format string, args ...any) {
	*c = append(*c, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// finite reports whether value is a real number, recording a failure otherwise
func (c *checks) finite(field string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		c.fail(field, "must be finite")
		return false
	}
	return true
}

func (c *checks) positive(field string, value float64) {
	if c.finite(field, value) && value <= 0 {
		c.fail(field, "must be positive")
	}
}

func (c *checks) nonNegative(field string, value float64) {
	if c.finite(field, value) && value < 0 {
		c.fail(field, "must be non-negative")
	}
}

func (c *checks) within(field string, value, lo, hi float64) {
	if c.finite(field, value) && (value < lo || value > hi) {
		c.fail(field, "must be between %v and %v", lo, hi)
	}
}

// FormatValidationErrors renders errs as a report grouped by top-level section,
// sections in the order they first appear.
func FormatValidationErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var sections []string
	bySection := map[string][]string{}
	for _, err := range errs {
		section, field, found := strings.Cut(err.Field, ".")
		if !found {
			field = "general"
		}
		if _, ok := bySection[section]; !ok {
			sections = append(sections, section)
		}
		bySection[section] = append(bySection[section], fmt.Sprintf("  - %s: %s\n", field, err.Message))
	}

	var b strings.Builder
	b.WriteString("Validation Errors:\n")
	for _, section := range sections {
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(section))
		for _, line := range bySection[section] {
			b.WriteString(line)
		}
	}
	return b.String()
}

// Validate checks every section and returns all problems found
func (c *ExperimentConfig) Validate() []ValidationError {
	var all []ValidationError
	all = append(all, c.Scene.Validate()...)
	all = append(all, c.Enclosure.Validate()...)
	all = append(all, c.Simulation.Validate()...)
	all = append(all, c.Sweep.Validate()...)
	all = append(all, c.Render.Validate()...)
	return all
}

func (s *Scene) Validate() []ValidationError {
	var c checks
	c.positive("scene.width", s.Width)
	c.positive("scene.height", s.Height)
	c.nonNegative("scene.rows", float64(s.Rows))
	c.nonNegative("scene.cols", float64(s.Cols))
	c.positive("scene.spacing", s.Spacing)
	c.positive("scene.radius", s.Radius)
	c.nonNegative("scene.inset", s.Inset)
	c.positive("scene.epsilon", s.Epsilon)

	if s.Radius > 0 && s.Spacing > 0 && s.Spacing <= 2*s.Radius {
		c.fail("scene.spacing", "must exceed twice the radius so mirrors do not overlap")
	}
	if s.Inset*2 >= s.Width || s.Inset*2 >= s.Height {
		c.fail("scene.inset", "leaves no room inside the canvas")
	}
	for i, m := range s.ExtraMirrors.Inline {
		c.positive(fmt.Sprintf("scene.extra_mirrors.inline.%d.radius", i), m.Radius)
	}
	return c
}

func (e *Enclosure) Validate() []ValidationError {
	if e.MeshPath == "" {
		return nil
	}
	var c checks
	c.nonNegative("enclosure.scale", e.Scale)
	return c
}

func (s *Simulation) Validate() []ValidationError {
	var c checks
	c.positive("simulation.max_bounces", float64(s.MaxBounces))
	c.within("simulation.angle_deg", s.AngleDeg, -360, 360)
	return c
}

func (s *Sweep) Validate() []ValidationError {
	var c checks
	bounded := c.finite("sweep.start_deg", s.StartDeg)
	bounded = c.finite("sweep.stop_deg", s.StopDeg) && bounded
	c.positive("sweep.step_deg", s.StepDeg)
	c.nonNegative("sweep.workers", float64(s.Workers))
	if !bounded {
		return c
	}
	if s.StopDeg < s.StartDeg {
		c.fail("sweep.stop_deg", "must not be before start_deg")
	} else if s.StepDeg > 0 && (s.StopDeg-s.StartDeg)/s.StepDeg >= mirrors.MaxSweepAngles {
		c.fail("sweep.step_deg", "yields more than %d angles", mirrors.MaxSweepAngles)
	}
	return c
}

func (r *Render) Validate() []ValidationError {
	var c checks
	c.positive("render.width", float64(r.Width))
	c.positive("render.height", float64(r.Height))
	c.nonNegative("render.margin", r.Margin)
	c.positive("render.trail_length", float64(r.TrailLength))
	c.nonNegative("render.trail_max_age_ms", r.TrailMaxAgeMS)
	c.positive("render.plot_width", r.PlotWidth)
	c.positive("render.plot_height", r.PlotHeight)
	c.positive("render.stl_height", r.STLHeight)
	c.nonNegative("render.stl_sides", float64(r.STLSides))
	return c
}
