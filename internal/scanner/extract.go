package scanner

import (
	"encoding/json"

	"github.com/promptdec/decforge/internal/ir"
)

// Raw wire shapes mirror the definition file format (§ external
// interface): camelCase keys, constraints nested under "validation".
// decodeDefinition flattens them into the IR.

type rawDefinition struct {
	DecoratorName          string             `json:"decoratorName"`
	Version                string             `json:"version"`
	Description            string             `json:"description"`
	Category               string             `json:"category"`
	Tags                   []string           `json:"tags"`
	Parameters             []rawParameter     `json:"parameters"`
	TransformationTemplate *rawTransformation `json:"transformationTemplate"`
	Examples               []rawExample       `json:"examples"`
}

type rawParameter struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Required    bool           `json:"required"`
	Default     any            `json:"default"`
	Enum        []string       `json:"enum"`
	Items       *rawItems      `json:"items"`
	Validation  *rawValidation `json:"validation"`
}

type rawItems struct {
	Type string `json:"type"`
}

type rawValidation struct {
	Minimum   *float64 `json:"minimum"`
	Maximum   *float64 `json:"maximum"`
	MinLength *int     `json:"minLength"`
	MaxLength *int     `json:"maxLength"`
	Pattern   string   `json:"pattern"`
	MinItems  *int     `json:"minItems"`
	MaxItems  *int     `json:"maxItems"`
	Required  []string `json:"required"`
}

type rawTransformation struct {
	Instruction         string                `json:"instruction"`
	ParameterMapping    map[string]rawMapping `json:"parameterMapping"`
	Placement           string                `json:"placement"`
	CompositionBehavior string                `json:"compositionBehavior"`
}

type rawMapping struct {
	ValueMap map[string]string `json:"valueMap"`
	Format   string            `json:"format"`
}

type rawExample struct {
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Prompt      string         `json:"prompt"`
	Expected    string         `json:"expected"`
}

// decodeDefinition converts one definition file's bytes into IR. The data
// has already passed schema validation, so decoding errors here are
// limited to shape mismatches the schema cannot express.
func decodeDefinition(data []byte) (*ir.DecoratorDefinition, error) {
	var raw rawDefinition
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	def := &ir.DecoratorDefinition{
		Name:        raw.DecoratorName,
		Version:     raw.Version,
		Description: raw.Description,
		Category:    raw.Category,
	}
	if def.Category == "" && len(raw.Tags) > 0 {
		def.Category = raw.Tags[0]
	}

	for i := range raw.Parameters {
		def.Parameters = append(def.Parameters, convertParameter(&raw.Parameters[i]))
	}

	if raw.TransformationTemplate != nil {
		def.Transform = convertTransformation(raw.TransformationTemplate)
	}

	for _, e := range raw.Examples {
		def.Examples = append(def.Examples, ir.Example{
			Description: e.Description,
			Parameters:  e.Parameters,
			Prompt:      e.Prompt,
			Expected:    e.Expected,
		})
	}

	return def, nil
}

func convertParameter(raw *rawParameter) ir.ParameterDefinition {
	p := ir.ParameterDefinition{
		Name:        raw.Name,
		Type:        ir.ParamType(raw.Type),
		Description: raw.Description,
		Required:    raw.Required,
		Default:     raw.Default,
		EnumValues:  raw.Enum,
	}
	if raw.Items != nil {
		p.ItemType = ir.ParamType(raw.Items.Type)
	}
	if v := raw.Validation; v != nil {
		p.Minimum = v.Minimum
		p.Maximum = v.Maximum
		p.MinLength = v.MinLength
		p.MaxLength = v.MaxLength
		p.Pattern = v.Pattern
		p.MinItems = v.MinItems
		p.MaxItems = v.MaxItems
		p.RequiredKeys = v.Required
	}
	return p
}

func convertTransformation(raw *rawTransformation) *ir.TransformationTemplate {
	t := &ir.TransformationTemplate{
		Instruction:         raw.Instruction,
		Placement:           raw.Placement,
		CompositionBehavior: raw.CompositionBehavior,
	}
	if len(raw.ParameterMapping) > 0 {
		t.ParameterMapping = make(map[string]ir.ParameterMapping, len(raw.ParameterMapping))
		for name, m := range raw.ParameterMapping {
			t.ParameterMapping[name] = ir.ParameterMapping{
				ValueMap: m.ValueMap,
				Format:   m.Format,
			}
		}
	}
	return t
}
