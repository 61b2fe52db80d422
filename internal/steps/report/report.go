// Package report builds the job for the gqSeqUtils pipeline report. The
// report call takes four optional presentation settings from the `report`
// section; absent settings are simply left out of the generated call, which
// lets the R side fall back to its own defaults.
package report

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/seqpipego/internal/config"
	"github.com/vk/seqpipego/internal/job"
	"github.com/vk/seqpipego/internal/pipeline"
	"github.com/vk/seqpipego/internal/registry"
	"github.com/vk/seqpipego/internal/rscript"
)

// StepType is the pipeline step type this package registers.
const StepType = "gq_seq_utils_report"

// settingsSection is where the optional report presentation fields live.
const settingsSection = "report"

// Arguments defines the arguments block for a report step.
type Arguments struct {
	SettingsFile string `hcl:"settings_file"`
	ProjectPath  string `hcl:"project_path"`
	PipelineType string `hcl:"pipeline_type"`
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the builder with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBuilder(StepType, buildFromStep)
}

// buildFromStep decodes the step's arguments block and delegates to Build.
func buildFromStep(_ context.Context, bc registry.BuildContext, step *pipeline.Step) (*job.Job, error) {
	var args Arguments
	if diags := gohcl.DecodeBody(step.Arguments, nil, &args); diags.HasErrors() {
		return nil, fmt.Errorf("invalid arguments for step %q in %s: %w",
			step.ID(), step.FSInformation.FilePath, diags)
	}
	return Build(bc, args.SettingsFile, args.ProjectPath, args.PipelineType)
}

// Build assembles the report job. The job declares no outputs, so it is
// never judged up to date and the command is attached on every run unless a
// future caller declares outputs on it first.
func Build(bc registry.BuildContext, settingsFile, projectPath, pipelineType string) (*job.Job, error) {
	j := job.New(StepType)

	upToDate, err := j.UpToDate()
	if err != nil {
		return nil, err
	}
	if upToDate && !bc.Force {
		return j, nil
	}

	j.DeclareModules(config.ModuleRef{Section: StepType, Key: "module_r"})

	call := rscript.NewCall("mugqicPipelineReport")
	call.Add("pipeline", pipelineType)

	// Optional presentation fields, in fixed order. Absent values contribute
	// nothing to the call.
	title, _ := bc.Config.Param(settingsSection, "project_name")
	call.AddOptional("report.title", title)
	path, _ := bc.Config.Param(settingsSection, "report_path")
	call.AddOptional("report.path", path)
	author, _ := bc.Config.Param(settingsSection, "report_author")
	call.AddOptional("report.author", author)
	contact, _ := bc.Config.Param(settingsSection, "report_contact")
	call.AddOptional("report.contact", contact)

	call.Add("ini.file.path", settingsFile)
	call.Add("project.path", projectPath)

	j.AppendCommand(rscript.Invocation(true, rscript.Library("gqSeqUtils"), call.String()))
	return j, nil
}
