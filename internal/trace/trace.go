// Package trace records what a run decided: which jobs were up to date and
// which commands were generated. The manifest is a YAML artifact written
// next to the generated script, mainly for auditing reruns.
package trace

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vk/seqpipego/internal/job"
	"gopkg.in/yaml.v3"
)

// JobRecord is the manifest entry for a single job.
type JobRecord struct {
	Name     string `yaml:"name"`
	UpToDate bool   `yaml:"up_to_date"`
	Command  string `yaml:"command,omitempty"`
}

// Manifest describes one builder run.
type Manifest struct {
	RunID       string      `yaml:"run_id"`
	GeneratedAt time.Time   `yaml:"generated_at"`
	Jobs        []JobRecord `yaml:"jobs"`
}

// NewManifest builds a manifest for the given jobs, in order. A job is
// recorded as up to date exactly when it carries no command.
func NewManifest(jobs []*job.Job) *Manifest {
	m := &Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Jobs:        make([]JobRecord, 0, len(jobs)),
	}
	for _, j := range jobs {
		m.Jobs = append(m.Jobs, JobRecord{
			Name:     j.Name,
			UpToDate: j.Command == "",
			Command:  j.Command,
		})
	}
	return m
}

// Write marshals the manifest to YAML and writes it to path.
func (m *Manifest) Write(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal run manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run manifest: %w", err)
	}
	return nil
}
