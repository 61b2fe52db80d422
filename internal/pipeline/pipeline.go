// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Pipeline structure, the root container for all step
// blocks loaded from a user's .hcl files. Definitions may be split across
// many files and directories; loading consolidates them into a single view
// so depends_on references can span files.
package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/seqpipego/internal/ctxlog"
	"github.com/vk/seqpipego/internal/fsutil"
)

// Pipeline represents the user's full pipeline definition.
type Pipeline struct {
	Steps []*Step
}

// NewPipeline creates and returns an initialized Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// hclPipelineFile represents the top-level structure of a pipeline file for
// decoding. Settings blocks may share a file with steps; they are loaded
// separately and only declared here so the decoder tolerates them.
type hclPipelineFile struct {
	Steps    []*hclStep         `hcl:"step,block"`
	Settings []*hclSettingsStub `hcl:"settings,block"`
}

// hclSettingsStub exists so settings blocks in mixed files do not fail
// pipeline decoding. The settings loader owns their contents.
type hclSettingsStub struct {
	Section string   `hcl:"section,label"`
	Body    hcl.Body `hcl:",remain"`
}

// newStepsFromHCL parses a single HCL file and returns the Steps found within it.
func newStepsFromHCL(filePath string, parser *hclparse.Parser) ([]*Step, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsedFile hclPipelineFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsedFile)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	steps := make([]*Step, 0, len(parsedFile.Steps))
	for _, parsedStep := range parsedFile.Steps {
		step, err := NewStepFromHCL(parsedStep, filePath)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return steps, nil
}

// Load finds and parses all HCL files under the given path into a Pipeline.
// Duplicate step IDs across files are a load-time error.
func Load(ctx context.Context, pipelinePath string) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading pipeline from path", "path", pipelinePath)

	files, err := fsutil.FindFilesByExtension(pipelinePath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find pipeline files in %s: %w", pipelinePath, err)
	}

	p := NewPipeline()
	if len(files) == 0 {
		logger.Warn("No .hcl pipeline files found in path, returning empty pipeline", "path", pipelinePath)
		return p, nil
	}

	seen := make(map[string]string)
	parser := hclparse.NewParser()
	for _, file := range files {
		steps, err := newStepsFromHCL(file, parser)
		if err != nil {
			return nil, err
		}
		for _, step := range steps {
			if prev, dup := seen[step.ID()]; dup {
				return nil, fmt.Errorf("duplicate step %q: defined in both %s and %s", step.ID(), prev, file)
			}
			seen[step.ID()] = file
		}
		p.Steps = append(p.Steps, steps...)
	}

	return p, nil
}
