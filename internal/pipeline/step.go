// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package pipeline

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Step is one configured invocation of a step type. It is a node in the
// pipeline's dependency graph.
type Step struct {
	Type          string
	Name          string
	DependsOn     []string
	Arguments     hcl.Body
	FSInformation *FSInfo
}

// ID returns the step's graph identifier, "type.name". It is the value
// other steps use in their depends_on lists.
func (s *Step) ID() string {
	return s.Type + "." + s.Name
}

// hclStep represents a single 'step' block for initial decoding from HCL.
type hclStep struct {
	Type string   `hcl:"type,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// stepBodySchema describes the parts of a step body this package itself
// understands. The arguments block stays opaque here.
var stepBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "depends_on"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "arguments"},
	},
}

// NewStepFromHCL creates a new Step from a parsed HCL step block.
func NewStepFromHCL(parsedStep *hclStep, filePath string) (*Step, error) {
	step := &Step{
		Type:          parsedStep.Type,
		Name:          parsedStep.Name,
		FSInformation: NewFSInfo(filePath),
	}

	bodyContent, diags := parsedStep.Body.Content(stepBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid step %q in %s: %w", step.ID(), filePath, diags)
	}

	if attr, exists := bodyContent.Attributes["depends_on"]; exists {
		deps, err := decodeDependsOn(attr)
		if err != nil {
			return nil, fmt.Errorf("invalid depends_on for step %q in %s: %w", step.ID(), filePath, err)
		}
		step.DependsOn = deps
	}

	for _, block := range bodyContent.Blocks {
		if step.Arguments != nil {
			return nil, fmt.Errorf("step %q in %s: duplicate arguments block", step.ID(), filePath)
		}
		step.Arguments = block.Body
	}
	if step.Arguments == nil {
		step.Arguments = hcl.EmptyBody()
	}

	return step, nil
}

// decodeDependsOn evaluates the depends_on attribute, which must be a list
// of step ID strings.
func decodeDependsOn(attr *hcl.Attribute) ([]string, error) {
	exprs, diags := hcl.ExprList(attr.Expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("must be a list of step references: %w", diags)
	}

	deps := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		val, valDiags := expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate entry: %w", valDiags)
		}
		if val.Type() != cty.String {
			return nil, fmt.Errorf("entries must be strings, got %s", val.Type().FriendlyName())
		}
		deps = append(deps, val.AsString())
	}

	return deps, nil
}
