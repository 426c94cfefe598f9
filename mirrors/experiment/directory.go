package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultRoot holds one directory per run
	DefaultRoot = "experiments"
	// Latest is the symlink in the root that points at the newest run
	Latest = "latest"
)

// Run is the output directory of a single invocation
type Run struct {
	Dir     string // absolute
	ID      string
	Started time.Time
}

// NewRun creates a uniquely named directory under root and repoints the Latest
// symlink at it. An empty root uses DefaultRoot.
func NewRun(root string) (*Run, error) {
	if root == "" {
		root = DefaultRoot
	}
	run := &Run{ID: GenerateExperimentID(), Started: time.Now().UTC()}

	dir, err := filepath.Abs(filepath.Join(root, run.ID))
	if err != nil {
		return nil, fmt.Errorf("resolving run directory: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", root, err)
	}
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	run.Dir = dir

	// Symlinks are best effort; some filesystems refuse them.
	link := filepath.Join(root, Latest)
	_ = os.Remove(link)
	_ = os.Symlink(run.ID, link)

	return run, nil
}

// File returns the path of name inside the run directory
func (r *Run) File(name string) string {
	return filepath.Join(r.Dir, name)
}

// Keep copies src into the run directory under its own base name
func (r *Run) Keep(src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(r.File(filepath.Base(src)), data, 0644); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}
