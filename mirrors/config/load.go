package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadOptions configures the behavior of config loading
type LoadOptions struct {
	ValidateImmediately bool
	// Interpret relative file references against the config file's directory
	ResolvePaths bool
	// Pull in mirrors listed in external files
	MergeFiles bool
}

// LoadFromFile loads an ExperimentConfig from a YAML file.
//
// Fields missing from the file keep the values from Default.
func LoadFromFile(path string, opts LoadOptions) (*ExperimentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if opts.ResolvePaths {
		config.ResolvePaths(filepath.Dir(path))
	}

	if opts.MergeFiles {
		if err := config.LoadAndMerge(); err != nil {
			return nil, fmt.Errorf("merging external files: %w", err)
		}
	}

	if opts.ValidateImmediately {
		if errs := config.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("validation errors: %s", FormatValidationErrors(errs))
		}
	}

	return config, nil
}

// SaveToFile stamps the metadata section and writes the config as YAML
func SaveToFile(config *ExperimentConfig, path string) error {
	config.Metadata = Metadata{
		Timestamp: time.Now().UTC().Format("2006-01-02 15:04:05"),
		GitCommit: gitCommit(),
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// gitCommit returns HEAD of the working directory's repository, or "" outside one
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ResolvePaths rewrites relative file references as paths under baseDir
func (c *ExperimentConfig) ResolvePaths(baseDir string) {
	c.Enclosure.MeshPath = resolvePath(baseDir, c.Enclosure.MeshPath)
	c.Scene.ExtraMirrors.FromFile = resolvePath(baseDir, c.Scene.ExtraMirrors.FromFile)
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
