package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML record of one simplify run.
type Manifest struct {
	RunID        string    `yaml:"run_id"`
	CreatedAt    time.Time `yaml:"created_at"`
	DropPrefixes []string  `yaml:"drop_prefixes"`
	Simplified   int       `yaml:"simplified"`
	Unchanged    int       `yaml:"unchanged"`
	Failed       int       `yaml:"failed"`
	Files        []Outcome `yaml:"files"`
}

// NewManifest summarizes outcomes under a fresh run id.
func NewManifest(dropPrefixes []string, outcomes []Outcome) *Manifest {
	m := &Manifest{
		RunID:        uuid.NewString(),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		DropPrefixes: dropPrefixes,
		Files:        outcomes,
	}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSimplified:
			m.Simplified++
		case StatusUnchanged:
			m.Unchanged++
		default:
			m.Failed++
		}
	}
	return m
}

// WriteFile stores the manifest as YAML.
func (m *Manifest) WriteFile(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a manifest written by WriteFile.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return nil, fmt.Errorf("manifest %s: run_id: %w", path, err)
	}
	return &m, nil
}
