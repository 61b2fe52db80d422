package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHCL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("parses steps with arguments and dependencies", func(t *testing.T) {
		dir := t.TempDir()
		writeHCL(t, dir, "main.hcl", `
			step "gq_seq_utils_exploratory_analysis" "exploratory" {
				arguments {
					sample_sheet      = "samples.tsv"
					working_directory = "."
					settings_file     = "settings.hcl"
				}
			}

			step "gq_seq_utils_report" "report" {
				depends_on = ["gq_seq_utils_exploratory_analysis.exploratory"]

				arguments {
					settings_file = "settings.hcl"
					project_path  = "."
					pipeline_type = "RNAseq"
				}
			}
		`)

		p, err := Load(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, p.Steps, 2)

		var reportStep *Step
		for _, s := range p.Steps {
			if s.Type == "gq_seq_utils_report" {
				reportStep = s
			}
		}
		require.NotNil(t, reportStep)
		assert.Equal(t, "gq_seq_utils_report.report", reportStep.ID())
		assert.Equal(t, []string{"gq_seq_utils_exploratory_analysis.exploratory"}, reportStep.DependsOn)

		require.NotNil(t, reportStep.FSInformation)
		assert.NotEmpty(t, reportStep.FSInformation.FilePath)

		// The arguments body decodes against the builder's schema.
		var args struct {
			SettingsFile string `hcl:"settings_file"`
			ProjectPath  string `hcl:"project_path"`
			PipelineType string `hcl:"pipeline_type"`
		}
		diags := gohcl.DecodeBody(reportStep.Arguments, nil, &args)
		require.False(t, diags.HasErrors(), diags.Error())
		assert.Equal(t, "RNAseq", args.PipelineType)
	})

	t.Run("step without arguments gets an empty body", func(t *testing.T) {
		dir := t.TempDir()
		writeHCL(t, dir, "main.hcl", `
			step "gq_seq_utils_report" "bare" {}
		`)

		p, err := Load(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, p.Steps, 1)
		assert.NotNil(t, p.Steps[0].Arguments)
	})

	t.Run("duplicate step IDs across files are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeHCL(t, dir, "a.hcl", `step "gq_seq_utils_report" "report" {}`)
		writeHCL(t, dir, "b.hcl", `step "gq_seq_utils_report" "report" {}`)

		_, err := Load(context.Background(), dir)
		require.Error(t, err)
		assert.ErrorContains(t, err, "duplicate step")
	})

	t.Run("depends_on must be a list of strings", func(t *testing.T) {
		dir := t.TempDir()
		writeHCL(t, dir, "main.hcl", `
			step "gq_seq_utils_report" "report" {
				depends_on = ["ok", 42]
			}
		`)

		_, err := Load(context.Background(), dir)
		require.Error(t, err)
		assert.ErrorContains(t, err, "depends_on")
	})

	t.Run("duplicate arguments block is rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeHCL(t, dir, "main.hcl", `
			step "gq_seq_utils_report" "report" {
				arguments {}
				arguments {}
			}
		`)

		_, err := Load(context.Background(), dir)
		require.Error(t, err)
		assert.ErrorContains(t, err, "duplicate arguments block")
	})

	t.Run("tolerates settings blocks in the same file", func(t *testing.T) {
		dir := t.TempDir()
		writeHCL(t, dir, "mixed.hcl", `
			settings "report" {
				project_name = "RunA"
			}

			step "gq_seq_utils_report" "report" {}
		`)

		p, err := Load(context.Background(), dir)
		require.NoError(t, err)
		assert.Len(t, p.Steps, 1)
	})
}
