// Package exploratory builds the job for the gqSeqUtils exploratory
// analysis. The generated script first initializes the project structure
// from a sample sheet without overwriting any sheets that already exist,
// then runs the analysis and prints a completion marker.
package exploratory

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/seqpipego/internal/config"
	"github.com/vk/seqpipego/internal/ctxlog"
	"github.com/vk/seqpipego/internal/job"
	"github.com/vk/seqpipego/internal/pipeline"
	"github.com/vk/seqpipego/internal/readset"
	"github.com/vk/seqpipego/internal/registry"
	"github.com/vk/seqpipego/internal/rscript"
)

// StepType is the pipeline step type this package registers.
const StepType = "gq_seq_utils_exploratory_analysis"

// ExpectedOutput is the analysis artifact freshness is keyed on, relative to
// the working directory.
const ExpectedOutput = "exploratory/top_sd_heatmap_log2CPM.pdf"

// Arguments defines the arguments block for an exploratory analysis step.
type Arguments struct {
	SampleSheet      string `hcl:"sample_sheet"`
	WorkingDirectory string `hcl:"working_directory"`
	SettingsFile     string `hcl:"settings_file"`
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the builder with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBuilder(StepType, buildFromStep)
}

// buildFromStep decodes the step's arguments block, fails fast on an
// unusable sample sheet, and delegates to Build.
func buildFromStep(ctx context.Context, bc registry.BuildContext, step *pipeline.Step) (*job.Job, error) {
	var args Arguments
	if diags := gohcl.DecodeBody(step.Arguments, nil, &args); diags.HasErrors() {
		return nil, fmt.Errorf("invalid arguments for step %q in %s: %w",
			step.ID(), step.FSInformation.FilePath, diags)
	}

	samples, err := readset.Parse(args.SampleSheet)
	if err != nil {
		return nil, fmt.Errorf("step %q: unusable sample sheet: %w", step.ID(), err)
	}
	ctxlog.FromContext(ctx).Info("Sample sheet parsed", "step", step.ID(), "samples", len(samples))

	return Build(bc, args.SampleSheet, args.WorkingDirectory, args.SettingsFile)
}

// Build assembles the exploratory analysis job. Freshness is keyed on
// exactly one literal output path under the working directory: if that file
// exists and is newer than the settings file, no command is produced.
func Build(bc registry.BuildContext, sampleSheet, workingDirectory, settingsFile string) (*job.Job, error) {
	j := job.New(StepType)
	j.DeclareFiles(
		[]string{settingsFile},
		[]string{filepath.Join(workingDirectory, ExpectedOutput)},
	)

	upToDate, err := j.UpToDate()
	if err != nil {
		return nil, err
	}
	if upToDate && !bc.Force {
		return j, nil
	}

	j.DeclareModules(config.ModuleRef{Section: StepType, Key: "module_r"})

	initCall := rscript.NewCall("initIllmSeqProject")
	initCall.Add("nanuq.file", sampleSheet)
	initCall.Add("project.path", workingDirectory)
	initCall.AddRaw("overwrite.sheets", "FALSE")

	analysisCall := rscript.NewCall("exploratoryAnalysis")
	analysisCall.Add("project.path", workingDirectory)
	analysisCall.Add("ini.file.path", settingsFile)

	j.AppendCommand(rscript.Invocation(false,
		rscript.Library("gqSeqUtils"),
		initCall.String(),
		analysisCall.String(),
		rscript.Print("done."),
	))
	return j, nil
}
