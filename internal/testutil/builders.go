// Package testutil provides fluent IR builders so tests can assemble
// decorator definitions without repeating struct literals.
package testutil

import "github.com/promptdec/decforge/internal/ir"

// DefinitionBuilder accumulates a DecoratorDefinition.
type DefinitionBuilder struct {
	def ir.DecoratorDefinition
}

// Definition starts a builder with sensible defaults: version 1.0.0 and
// a placeholder description.
func Definition(name string) *DefinitionBuilder {
	return &DefinitionBuilder{def: ir.DecoratorDefinition{
		Name:        name,
		Version:     "1.0.0",
		Description: name + " decorator.",
		Category:    "misc",
	}}
}

func (b *DefinitionBuilder) Version(v string) *DefinitionBuilder {
	b.def.Version = v
	return b
}

func (b *DefinitionBuilder) Description(d string) *DefinitionBuilder {
	b.def.Description = d
	return b
}

func (b *DefinitionBuilder) Category(c string) *DefinitionBuilder {
	b.def.Category = c
	return b
}

func (b *DefinitionBuilder) Param(p ir.ParameterDefinition) *DefinitionBuilder {
	b.def.Parameters = append(b.def.Parameters, p)
	return b
}

func (b *DefinitionBuilder) Transform(t *ir.TransformationTemplate) *DefinitionBuilder {
	b.def.Transform = t
	return b
}

func (b *DefinitionBuilder) Example(e ir.Example) *DefinitionBuilder {
	b.def.Examples = append(b.def.Examples, e)
	return b
}

// Build returns the accumulated definition by value.
func (b *DefinitionBuilder) Build() ir.DecoratorDefinition {
	return b.def
}

// StringParam returns an optional string parameter.
func StringParam(name string) ir.ParameterDefinition {
	return ir.ParameterDefinition{Name: name, Type: ir.TypeString}
}

// RequiredStringParam returns a required string parameter.
func RequiredStringParam(name string) ir.ParameterDefinition {
	return ir.ParameterDefinition{Name: name, Type: ir.TypeString, Required: true}
}

// EnumParam returns an enum parameter with the given allowed values.
func EnumParam(name string, values ...string) ir.ParameterDefinition {
	return ir.ParameterDefinition{Name: name, Type: ir.TypeEnum, EnumValues: values}
}

// IntParam returns an integer parameter bounded by min and max.
func IntParam(name string, min, max float64) ir.ParameterDefinition {
	return ir.ParameterDefinition{Name: name, Type: ir.TypeInteger, Minimum: &min, Maximum: &max}
}

// BoolParam returns a boolean parameter with a default.
func BoolParam(name string, def bool) ir.ParameterDefinition {
	return ir.ParameterDefinition{Name: name, Type: ir.TypeBoolean, Default: def}
}
