// Package registry maps step types to the Go builders that turn a
// configured step into a job descriptor. Step packages register themselves
// through the Module interface, mirroring how the application wires its
// core step set at startup.
package registry

import (
	"context"
	"fmt"

	"github.com/vk/seqpipego/internal/config"
	"github.com/vk/seqpipego/internal/job"
	"github.com/vk/seqpipego/internal/pipeline"
)

// BuildContext carries everything a step builder needs besides its own
// arguments.
type BuildContext struct {
	// Config is the loaded settings model.
	Config *config.Model

	// Force treats every job as stale, so commands are always attached.
	Force bool
}

// BuildFunc decodes a step's arguments and returns the job descriptor for it.
type BuildFunc func(ctx context.Context, bc BuildContext, step *pipeline.Step) (*job.Job, error)

// Module is the interface step packages implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the builders for a single application instance.
type Registry struct {
	builders map[string]BuildFunc
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		builders: make(map[string]BuildFunc),
	}
}

// RegisterBuilder associates a step type with its builder. Registering the
// same type twice is a programmer error and panics.
func (r *Registry) RegisterBuilder(stepType string, fn BuildFunc) {
	if _, exists := r.builders[stepType]; exists {
		panic(fmt.Sprintf("registry: step type %q registered twice", stepType))
	}
	r.builders[stepType] = fn
}

// Builder returns the builder for a step type, if one is registered.
func (r *Registry) Builder(stepType string) (BuildFunc, bool) {
	fn, ok := r.builders[stepType]
	return fn, ok
}

// Validate checks that every step in the pipeline has a registered builder.
func (r *Registry) Validate(p *pipeline.Pipeline) error {
	for _, step := range p.Steps {
		if _, ok := r.builders[step.Type]; !ok {
			return fmt.Errorf("no builder registered for step type %q (step %q in %s)",
				step.Type, step.ID(), step.FSInformation.FilePath)
		}
	}
	return nil
}
