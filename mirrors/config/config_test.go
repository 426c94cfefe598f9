package config

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-mirror-box/mirrors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, mirrors.DefaultLayout(), cfg.Layout())
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
scene:
  radius: 40
simulation:
  angle_deg: 12.5
  max_bounces: 50
sweep:
  step_deg: 0.5
`)

	cfg, err := LoadFromFile(path, LoadOptions{ValidateImmediately: true})
	require.NoError(t, err)
	assert.Equal(40.0, cfg.Scene.Radius)
	assert.Equal(150.0, cfg.Scene.Spacing)
	assert.Equal(3, cfg.Scene.Rows)
	assert.True(cfg.Scene.SkipCenter)
	assert.Equal(12.5, cfg.Simulation.AngleDeg)
	assert.Equal(50, cfg.Simulation.MaxBounces)
	assert.Equal(0.5, cfg.Sweep.StepDeg)
	assert.Equal(359.0, cfg.Sweep.StopDeg)
	assert.Equal(800, cfg.Render.Width)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"), LoadOptions{})
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "scene: [not, a, map")
	_, err = LoadFromFile(bad, LoadOptions{})
	assert.Error(t, err)

	invalid := writeFile(t, dir, "invalid.yaml", "scene:\n  radius: 100\nsweep:\n  step_deg: 0\n")
	_, err = LoadFromFile(invalid, LoadOptions{ValidateImmediately: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spacing")
	assert.Contains(t, err.Error(), "step_deg")

	unbounded := writeFile(t, dir, "unbounded.yaml", "sweep:\n  stop_deg: .inf\n")
	_, err = LoadFromFile(unbounded, LoadOptions{ValidateImmediately: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop_deg: must be finite")

	// Without immediate validation the file loads as written
	cfg, err := LoadFromFile(invalid, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, cfg.Scene.Radius)
}

func TestLoadFromFileMergesMirrors(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	mirrorsJSON, err := json.Marshal([]Mirror{{X: 375, Y: 375, Radius: 10}})
	require.NoError(t, err)
	writeFile(t, dir, "extra.json", string(mirrorsJSON))
	path := writeFile(t, dir, "config.yaml", `
scene:
  extra_mirrors:
    inline:
      - {x: 225, y: 225, radius: 20}
    from_file: extra.json
`)

	cfg, err := LoadFromFile(path, LoadOptions{ValidateImmediately: true, ResolvePaths: true, MergeFiles: true})
	require.NoError(t, err)
	assert.Empty(cfg.Scene.ExtraMirrors.FromFile)
	assert.Equal([]Mirror{{X: 225, Y: 225, Radius: 20}, {X: 375, Y: 375, Radius: 10}}, cfg.Scene.ExtraMirrors.Inline)

	scene, err := cfg.BuildScene()
	require.NoError(t, err)
	circles := scene.Mirrors()
	require.Len(t, circles, 10)
	assert.Equal(mirrors.V(225, 225), circles[8].Center)
	assert.Equal(mirrors.V(375, 375), circles[9].Center)
}

func TestMergeMirrorsMissingFile(t *testing.T) {
	em := ExtraMirrors{FromFile: filepath.Join(t.TempDir(), "nope.json")}
	assert.Error(t, em.MergeMirrors())

	empty := ExtraMirrors{}
	assert.NoError(t, empty.MergeMirrors())
}

func TestResolvePaths(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	abs := filepath.Join(dir, "abs.json")

	cfg := Default()
	cfg.Enclosure.MeshPath = "box.3mf"
	cfg.Scene.ExtraMirrors.FromFile = abs
	cfg.ResolvePaths(dir)
	assert.Equal(filepath.Join(dir, "box.3mf"), cfg.Enclosure.MeshPath)
	assert.Equal(abs, cfg.Scene.ExtraMirrors.FromFile)

	empty := Default()
	empty.ResolvePaths(dir)
	assert.Equal("", empty.Enclosure.MeshPath)
	assert.Equal("", empty.Scene.ExtraMirrors.FromFile)
}

func TestSaveToFileRoundTrip(t *testing.T) {
	assert := assert.New(t)
	cfg := Default()
	cfg.Simulation.AngleDeg = 33
	cfg.Scene.Origin = &[2]float64{280, 310}

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, SaveToFile(cfg, path))
	assert.NotEmpty(cfg.Metadata.Timestamp)

	loaded, err := LoadFromFile(path, LoadOptions{ValidateImmediately: true})
	require.NoError(t, err)
	assert.Equal(33.0, loaded.Simulation.AngleDeg)
	require.NotNil(t, loaded.Scene.Origin)
	assert.Equal([2]float64{280, 310}, *loaded.Scene.Origin)
	assert.Equal(cfg.Render, loaded.Render)
}

func TestBuildScene(t *testing.T) {
	assert := assert.New(t)

	scene, err := Default().BuildScene()
	require.NoError(t, err)
	assert.Len(scene.Mirrors(), 8)
	assert.Len(scene.Walls(), 4)
	assert.Equal(mirrors.V(300, 300), scene.Origin())

	cfg := Default()
	cfg.Scene.Origin = &[2]float64{300, 220}
	cfg.Simulation.MaxBounces = 7
	scene, err = cfg.BuildScene()
	require.NoError(t, err)
	assert.Equal(mirrors.V(300, 220), scene.Origin())
	assert.Equal(7, scene.MaxBounces())

	cfg = Default()
	cfg.Scene.ExtraMirrors.Inline = []Mirror{{X: 310, Y: 300, Radius: 20}}
	_, err = cfg.BuildScene()
	assert.ErrorIs(err, mirrors.ErrInvalidScene)

	cfg = Default()
	cfg.Enclosure.MeshPath = filepath.Join(t.TempDir(), "missing.3mf")
	_, err = cfg.BuildScene()
	assert.Error(err)
}

func TestBuildSceneFromEnclosure(t *testing.T) {
	assert := assert.New(t)
	box, err := mirrors.NewSceneFromParts(mirrors.V(120, 120), nil, mirrors.Layout{Width: 240, Height: 240}.Walls(), mirrors.DefaultEpsilon)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "box.3mf")
	require.NoError(t, box.Save3MF(path, 10, 0))

	cfg := Default()
	cfg.Enclosure = Enclosure{MeshPath: path, SliceHeight: 12.5, Scale: 2.5}
	require.Empty(t, cfg.Validate())
	scene, err := cfg.BuildScene()
	require.NoError(t, err)
	assert.Len(scene.Mirrors(), 8)
	total := 0.0
	for _, w := range scene.Walls() {
		total += w.Length()
	}
	assert.InDelta(2400, total, 1e-6)
	b := scene.Bounds()
	assert.InDelta(0, b.Min.X, 1e-9)
	assert.InDelta(600, b.Max.Y, 1e-9)

	// Unscaled, the box is too small for the default grid
	cfg.Enclosure = Enclosure{MeshPath: path, SliceHeight: 5}
	_, err = cfg.BuildScene()
	assert.ErrorIs(err, mirrors.ErrInvalidScene)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ExperimentConfig)
		fields []string
	}{
		{"valid", func(*ExperimentConfig) {}, nil},
		{"overlapping_grid", func(c *ExperimentConfig) { c.Scene.Radius = 80 }, []string{"scene.spacing"}},
		{"inset_too_large", func(c *ExperimentConfig) { c.Scene.Inset = 300 }, []string{"scene.inset"}},
		{"zero_epsilon", func(c *ExperimentConfig) { c.Scene.Epsilon = 0 }, []string{"scene.epsilon"}},
		{"bad_extra_mirror", func(c *ExperimentConfig) {
			c.Scene.ExtraMirrors.Inline = []Mirror{{X: 1, Y: 1, Radius: 0}}
		}, []string{"scene.extra_mirrors.inline.0.radius"}},
		{"negative_enclosure_scale", func(c *ExperimentConfig) {
			c.Enclosure = Enclosure{MeshPath: "box.3mf", Scale: -1}
		}, []string{"enclosure.scale"}},
		{"zero_bounces", func(c *ExperimentConfig) { c.Simulation.MaxBounces = 0 }, []string{"simulation.max_bounces"}},
		{"angle_out_of_range", func(c *ExperimentConfig) { c.Simulation.AngleDeg = 720 }, []string{"simulation.angle_deg"}},
		{"reversed_sweep", func(c *ExperimentConfig) { c.Sweep.StartDeg, c.Sweep.StopDeg = 90, 10 }, []string{"sweep.stop_deg"}},
		{"infinite_sweep_stop", func(c *ExperimentConfig) { c.Sweep.StopDeg = math.Inf(1) }, []string{"sweep.stop_deg"}},
		{"nan_sweep_start", func(c *ExperimentConfig) { c.Sweep.StartDeg = math.NaN() }, []string{"sweep.start_deg"}},
		{"nan_sweep_step", func(c *ExperimentConfig) { c.Sweep.StepDeg = math.NaN() }, []string{"sweep.step_deg"}},
		{"sweep_too_fine", func(c *ExperimentConfig) { c.Sweep.StepDeg = 1e-9 }, []string{"sweep.step_deg"}},
		{"nan_angle", func(c *ExperimentConfig) { c.Simulation.AngleDeg = math.NaN() }, []string{"simulation.angle_deg"}},
		{"infinite_radius", func(c *ExperimentConfig) { c.Scene.Radius = math.Inf(1) }, []string{"scene.radius"}},
		{"render", func(c *ExperimentConfig) {
			c.Render.Width = 0
			c.Render.TrailLength = 0
		}, []string{"render.width", "render.trail_length"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			var fields []string
			for _, err := range cfg.Validate() {
				fields = append(fields, err.Field)
			}
			assert.Equal(t, test.fields, fields)
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("", FormatValidationErrors(nil))

	out := FormatValidationErrors([]ValidationError{
		{Field: "sweep.step_deg", Message: "must be positive"},
		{Field: "scene.radius", Message: "must be positive"},
		{Field: "sweep.workers", Message: "must be non-negative"},
	})
	assert.True(strings.HasPrefix(out, "Validation Errors:\n"))
	assert.Less(strings.Index(out, "SWEEP:"), strings.Index(out, "SCENE:"))
	assert.Contains(out, "  - step_deg: must be positive\n  - workers: must be non-negative\n")
	assert.Contains(out, "  - radius: must be positive\n")

	assert.Equal("scene.radius: must be positive", ValidationError{Field: "scene.radius", Message: "must be positive"}.Error())
}
