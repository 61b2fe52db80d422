package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile writes content under dir and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// setupWorkspace lays out a minimal two-step workspace and returns the
// settings path, pipeline path, and working directory.
func setupWorkspace(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()

	sheet := writeFile(t, dir, "samples.tsv", "Sample\tCondition\nsampleA\tcontrol\nsampleB\ttreated\n")

	settings := writeFile(t, dir, "settings.hcl", `
		settings "report" {
			project_name = "RunA"
		}

		settings "gq_seq_utils_report" {
			module_r = "mugqic/R/3.1.2"
		}

		settings "gq_seq_utils_exploratory_analysis" {
			module_r = "mugqic/R/3.1.0"
		}
	`)

	pipeline := writeFile(t, dir, "pipeline.hcl", fmt.Sprintf(`
		step "gq_seq_utils_exploratory_analysis" "exploratory" {
			arguments {
				sample_sheet      = %q
				working_directory = %q
				settings_file     = %q
			}
		}

		step "gq_seq_utils_report" "report" {
			depends_on = ["gq_seq_utils_exploratory_analysis.exploratory"]

			arguments {
				settings_file = %q
				project_path  = %q
				pipeline_type = "RNAseq"
			}
		}
	`, sheet, dir, settings, settings, dir))

	return settings, pipeline, dir
}

func TestAppRun(t *testing.T) {
	t.Run("renders both steps in dependency order", func(t *testing.T) {
		settings, pipeline, _ := setupWorkspace(t)

		appConfig, err := NewConfig(Config{
			PipelinePath:  pipeline,
			SettingsPaths: []string{settings},
			LogFormat:     "text",
			LogLevel:      "error",
		})
		require.NoError(t, err)

		var out, errOut bytes.Buffer
		a, err := NewApp(&out, &errOut, appConfig)
		require.NoError(t, err)
		require.NoError(t, a.Run(context.Background()))

		script := out.String()
		assert.True(t, strings.HasPrefix(script, "#!/bin/bash\nset -eu\n"))

		assert.Contains(t, script, "module load mugqic/R/3.1.0")
		assert.Contains(t, script, "initIllmSeqProject")
		assert.Contains(t, script, "module load mugqic/R/3.1.2")
		assert.Contains(t, script, `mugqicPipelineReport(pipeline="RNAseq", report.title="RunA",`)

		exploratoryIdx := strings.Index(script, "initIllmSeqProject")
		reportIdx := strings.Index(script, "mugqicPipelineReport")
		assert.True(t, exploratoryIdx < reportIdx, "exploratory must render before the report that depends on it")
	})

	t.Run("fresh exploratory output is skipped", func(t *testing.T) {
		settings, pipeline, dir := setupWorkspace(t)

		// The expected output postdates the settings file, so the job is fresh.
		writeFile(t, dir, filepath.Join("exploratory", "top_sd_heatmap_log2CPM.pdf"), "pdf")

		appConfig, err := NewConfig(Config{
			PipelinePath:  pipeline,
			SettingsPaths: []string{settings},
			LogFormat:     "text",
			LogLevel:      "error",
		})
		require.NoError(t, err)

		var out, errOut bytes.Buffer
		a, err := NewApp(&out, &errOut, appConfig)
		require.NoError(t, err)
		require.NoError(t, a.Run(context.Background()))

		script := out.String()
		assert.Contains(t, script, "# gq_seq_utils_exploratory_analysis: up to date, skipping")
		assert.NotContains(t, script, "initIllmSeqProject")
		assert.Contains(t, script, "mugqicPipelineReport", "the report job declares no outputs and always runs")
	})

	t.Run("force overrides freshness", func(t *testing.T) {
		settings, pipeline, dir := setupWorkspace(t)
		writeFile(t, dir, filepath.Join("exploratory", "top_sd_heatmap_log2CPM.pdf"), "pdf")

		appConfig, err := NewConfig(Config{
			PipelinePath:  pipeline,
			SettingsPaths: []string{settings},
			Force:         true,
			LogFormat:     "text",
			LogLevel:      "error",
		})
		require.NoError(t, err)

		var out, errOut bytes.Buffer
		a, err := NewApp(&out, &errOut, appConfig)
		require.NoError(t, err)
		require.NoError(t, a.Run(context.Background()))

		assert.Contains(t, out.String(), "initIllmSeqProject")
	})

	t.Run("writes script file and manifest when an output path is set", func(t *testing.T) {
		settings, pipeline, dir := setupWorkspace(t)
		scriptPath := filepath.Join(dir, "run.sh")

		appConfig, err := NewConfig(Config{
			PipelinePath:  pipeline,
			SettingsPaths: []string{settings},
			OutputPath:    scriptPath,
			LogFormat:     "text",
			LogLevel:      "error",
		})
		require.NoError(t, err)

		var out, errOut bytes.Buffer
		a, err := NewApp(&out, &errOut, appConfig)
		require.NoError(t, err)
		require.NoError(t, a.Run(context.Background()))

		script, err := os.ReadFile(scriptPath)
		require.NoError(t, err)
		assert.Contains(t, string(script), "mugqicPipelineReport")

		manifest, err := os.ReadFile(scriptPath + ".manifest.yaml")
		require.NoError(t, err)
		assert.Contains(t, string(manifest), "run_id:")
		assert.Contains(t, string(manifest), "gq_seq_utils_report")
	})

	t.Run("unknown step type fails at startup", func(t *testing.T) {
		dir := t.TempDir()
		settings := writeFile(t, dir, "settings.hcl", `settings "report" {}`)
		pipeline := writeFile(t, dir, "pipeline.hcl", `step "does_not_exist" "x" {}`)

		appConfig, err := NewConfig(Config{
			PipelinePath:  pipeline,
			SettingsPaths: []string{settings},
			LogFormat:     "text",
			LogLevel:      "error",
		})
		require.NoError(t, err)

		var out, errOut bytes.Buffer
		_, err = NewApp(&out, &errOut, appConfig)
		require.Error(t, err)
		assert.ErrorContains(t, err, "no builder registered")
	})

	t.Run("dependency cycle fails the run", func(t *testing.T) {
		settings, _, dir := setupWorkspace(t)
		pipeline := writeFile(t, dir, "cycle.hcl", `
			step "gq_seq_utils_report" "a" {
				depends_on = ["gq_seq_utils_report.b"]
				arguments {
					settings_file = "s"
					project_path  = "p"
					pipeline_type = "RNAseq"
				}
			}
			step "gq_seq_utils_report" "b" {
				depends_on = ["gq_seq_utils_report.a"]
				arguments {
					settings_file = "s"
					project_path  = "p"
					pipeline_type = "RNAseq"
				}
			}
		`)

		appConfig, err := NewConfig(Config{
			PipelinePath:  pipeline,
			SettingsPaths: []string{settings},
			LogFormat:     "text",
			LogLevel:      "error",
		})
		require.NoError(t, err)

		var out, errOut bytes.Buffer
		a, err := NewApp(&out, &errOut, appConfig)
		require.NoError(t, err)

		err = a.Run(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, "cycle")
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("pipeline path is required", func(t *testing.T) {
		_, err := NewConfig(Config{SettingsPaths: []string{"s.hcl"}})
		assert.ErrorContains(t, err, "PipelinePath")
	})

	t.Run("settings paths are required", func(t *testing.T) {
		_, err := NewConfig(Config{PipelinePath: "p.hcl"})
		assert.ErrorContains(t, err, "settings path")
	})
}
