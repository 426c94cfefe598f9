package config

// ExperimentConfig represents the complete configuration for a mirror box simulation
type ExperimentConfig struct {
	Metadata   Metadata   `yaml:"metadata"`
	Scene      Scene      `yaml:"scene"`
	Enclosure  Enclosure  `yaml:"enclosure,omitempty"`
	Simulation Simulation `yaml:"simulation"`
	Sweep      Sweep      `yaml:"sweep"`
	Render     Render     `yaml:"render"`
	Flags      Flags      `yaml:"flags"`
}

type Metadata struct {
	Timestamp string `yaml:"timestamp"` // YYYY-MM-DD HH:MM:SS in UTC
	GitCommit string `yaml:"git_commit"`
}

type Scene struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
	Spacing    float64 `yaml:"spacing"`
	Radius     float64 `yaml:"radius"`
	Inset      float64 `yaml:"inset"`
	SkipCenter bool    `yaml:"skip_center"`
	Epsilon    float64 `yaml:"epsilon"`
	// Launch point. Defaults to the canvas center.
	Origin       *[2]float64  `yaml:"origin,omitempty"`
	ExtraMirrors ExtraMirrors `yaml:"extra_mirrors,omitempty"`
}

type ExtraMirrors struct {
	Inline   []Mirror `yaml:"inline,omitempty"`
	FromFile string   `yaml:"from_file,omitempty"`
}

type Mirror struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Radius float64 `yaml:"radius" json:"radius"`
}

// Enclosure replaces the square boundary with walls sliced from a 3MF mesh
type Enclosure struct {
	MeshPath    string  `yaml:"mesh_path,omitempty"`
	SliceHeight float64 `yaml:"slice_height,omitempty"`
	Scale       float64 `yaml:"scale,omitempty"`
}

type Simulation struct {
	AngleDeg   float64 `yaml:"angle_deg"`
	MaxBounces int     `yaml:"max_bounces"`
}

type Sweep struct {
	StartDeg float64 `yaml:"start_deg"`
	StopDeg  float64 `yaml:"stop_deg"`
	StepDeg  float64 `yaml:"step_deg"`
	Workers  int     `yaml:"workers"`
}

type Render struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Margin        float64 `yaml:"margin"`
	TrailLength   int     `yaml:"trail_length"`
	TrailMaxAgeMS float64 `yaml:"trail_max_age_ms"`
	PlotWidth     float64 `yaml:"plot_width"`
	PlotHeight    float64 `yaml:"plot_height"`
	STLHeight     float64 `yaml:"stl_height"`
	STLSides      int     `yaml:"stl_sides"`
}

type Flags struct {
	SkipPlot bool `yaml:"skip_plot"`
	SkipJSON bool `yaml:"skip_json"`
}
