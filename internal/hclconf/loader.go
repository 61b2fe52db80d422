package hclconf

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/seqpipego/internal/config"
	"github.com/vk/seqpipego/internal/ctxlog"
	"github.com/vk/seqpipego/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// hclSettingsFile represents the top-level structure of a settings file for
// decoding. Step blocks may share a file with settings; they are declared
// here only so the decoder tolerates them.
type hclSettingsFile struct {
	Settings []*hclSettingsBlock `hcl:"settings,block"`
	Steps    []*hclStepStub      `hcl:"step,block"`
}

// hclSettingsBlock is a single `settings "<section>"` block. Its body is a
// free-form set of attributes, so it is captured raw and read with
// JustAttributes.
type hclSettingsBlock struct {
	Section string   `hcl:"section,label"`
	Body    hcl.Body `hcl:",remain"`
}

// hclStepStub exists so step blocks in mixed files do not fail settings
// decoding. The pipeline loader owns their contents.
type hclStepStub struct {
	Type string   `hcl:"type,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// mergeSettingsFromHCL parses a single HCL file and merges its settings
// blocks into the model. Within one load, later files win per key.
func mergeSettingsFromHCL(filePath string, parser *hclparse.Parser, model *config.Model) error {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsedFile hclSettingsFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsedFile)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	for _, block := range parsedFile.Settings {
		attrs, attrDiags := block.Body.JustAttributes()
		if attrDiags.HasErrors() {
			return fmt.Errorf("invalid settings section %q in %s: %w", block.Section, filePath, attrDiags)
		}
		for name, attr := range attrs {
			value, err := attributeString(attr)
			if err != nil {
				return fmt.Errorf("settings %s.%s in %s: %w", block.Section, name, filePath, err)
			}
			model.Set(block.Section, name, value)
		}
	}

	return nil
}

// attributeString evaluates an attribute expression and converts the result
// to a string. Numbers and booleans convert; complex values are rejected.
func attributeString(attr *hcl.Attribute) (string, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to evaluate value: %w", diags)
	}

	strVal, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("value is not convertible to string: %w", err)
	}
	if strVal.IsNull() {
		return "", fmt.Errorf("value must not be null")
	}

	return strVal.AsString(), nil
}

// LoadSettings finds and parses all HCL files under the given paths and
// merges their settings blocks into a single model, in path order.
func LoadSettings(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := config.NewModel()

	parser := hclparse.NewParser()
	for _, path := range paths {
		logger.Debug("Loading settings from path", "path", path)
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find settings files in %s: %w", path, err)
		}
		for _, file := range files {
			if err := mergeSettingsFromHCL(file, parser, model); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Settings loaded", "sections", model.SectionCount())
	return model, nil
}
