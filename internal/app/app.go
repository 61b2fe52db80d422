package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/seqpipego/internal/config"
	"github.com/vk/seqpipego/internal/ctxlog"
	"github.com/vk/seqpipego/internal/dag"
	"github.com/vk/seqpipego/internal/hclconf"
	"github.com/vk/seqpipego/internal/job"
	"github.com/vk/seqpipego/internal/pipeline"
	"github.com/vk/seqpipego/internal/registry"
	"github.com/vk/seqpipego/internal/render"
	"github.com/vk/seqpipego/internal/steps/exploratory"
	"github.com/vk/seqpipego/internal/steps/report"
	"github.com/vk/seqpipego/internal/trace"
)

// coreModules is the default step set wired into every App instance.
var coreModules = []registry.Module{
	&report.Module{},
	&exploratory.Module{},
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	settings *config.Model
	pipe     *pipeline.Pipeline
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Logs go to errW so the generated script can be written to outW untouched.
func NewApp(outW, errW io.Writer, appConfig *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	settings, err := hclconf.LoadSettings(ctx, appConfig.SettingsPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	logger.Debug("Settings loaded and translated into unified model.")

	pipe, err := pipeline.Load(ctx, appConfig.PipelinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	logger.Info("Pipeline loaded successfully.", "steps_found", len(pipe.Steps))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All step modules registered.", "count", len(modules))

	if err := reg.Validate(pipe); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   appConfig,
		settings: settings,
		pipe:     pipe,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run builds every step's job in dependency order and renders the results.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	jobs, err := a.buildJobs(ctx)
	if err != nil {
		return err
	}

	if a.config.OutputPath == "" {
		return render.Script(a.outW, a.settings, jobs)
	}

	scriptFile, err := os.Create(a.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output script: %w", err)
	}
	defer scriptFile.Close()

	if err := render.Script(scriptFile, a.settings, jobs); err != nil {
		return err
	}

	manifestPath := a.config.OutputPath + ".manifest.yaml"
	if err := trace.NewManifest(jobs).Write(manifestPath); err != nil {
		return err
	}
	a.logger.Info("Run artifacts written.", "script", a.config.OutputPath, "manifest", manifestPath)

	return nil
}

// buildJobs orders the pipeline's steps and invokes each step's builder.
func (a *App) buildJobs(ctx context.Context) ([]*job.Job, error) {
	logger := ctxlog.FromContext(ctx)

	graph := dag.New()
	stepsByID := make(map[string]*pipeline.Step, len(a.pipe.Steps))
	for _, step := range a.pipe.Steps {
		graph.AddNode(step.ID())
		stepsByID[step.ID()] = step
	}
	for _, step := range a.pipe.Steps {
		for _, dep := range step.DependsOn {
			if err := graph.AddEdge(dep, step.ID()); err != nil {
				return nil, fmt.Errorf("step %q in %s: %w", step.ID(), step.FSInformation.FilePath, err)
			}
		}
	}

	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}

	order, err := graph.TopoSort()
	if err != nil {
		return nil, err
	}
	logger.Debug("Pipeline ordered.", "step_count", len(order))

	bc := registry.BuildContext{Config: a.settings, Force: a.config.Force}

	jobs := make([]*job.Job, 0, len(order))
	for _, id := range order {
		step := stepsByID[id]
		builder, ok := a.registry.Builder(step.Type)
		if !ok {
			// Validate already covered this; a miss here is a programmer error.
			return nil, fmt.Errorf("no builder registered for step type %q", step.Type)
		}

		j, err := builder(ctx, bc, step)
		if err != nil {
			return nil, fmt.Errorf("failed to build job for step %q: %w", id, err)
		}

		if j.Command == "" {
			logger.Info("Job up to date, no command attached.", "job", j.Name)
		} else {
			logger.Info("Job command attached.", "job", j.Name, "modules", len(j.Modules))
		}
		jobs = append(jobs, j)
	}

	return jobs, nil
}
