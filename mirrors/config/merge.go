package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// MergeMirrors appends mirrors listed in FromFile after the inline mirrors
func (em *ExtraMirrors) MergeMirrors() error {
	if em.FromFile == "" {
		return nil
	}

	data, err := os.ReadFile(em.FromFile)
	if err != nil {
		return fmt.Errorf("reading mirrors file: %w", err)
	}

	var fileMirrors []Mirror
	if err := json.Unmarshal(data, &fileMirrors); err != nil {
		return fmt.Errorf("parsing mirrors file: %w", err)
	}

	em.Inline = append(em.Inline, fileMirrors...)
	em.FromFile = ""
	return nil
}

// LoadAndMerge loads all external files and merges their contents
func (c *ExperimentConfig) LoadAndMerge() error {
	if err := c.Scene.ExtraMirrors.MergeMirrors(); err != nil {
		return fmt.Errorf("merging extra mirrors: %w", err)
	}
	return nil
}
