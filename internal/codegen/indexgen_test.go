package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/ir"
)

func indexFixture() []ir.DecoratorDefinition {
	return []ir.DecoratorDefinition{
		{
			Name:     "StepByStep",
			Version:  "1.0.0",
			Category: "reasoning",
		},
		{
			Name:     "Debate",
			Version:  "1.0.0",
			Category: "argumentation",
			Parameters: []ir.ParameterDefinition{
				{
					Name:       "style",
					Type:       ir.TypeEnum,
					EnumValues: []string{"formal", "casual"},
				},
			},
		},
		{
			Name:     "OutputFormat",
			Version:  "1.0.0",
			Category: "formatting",
			Parameters: []ir.ParameterDefinition{
				{
					Name:       "format",
					Type:       ir.TypeEnum,
					EnumValues: []string{"markdown", "json"},
				},
			},
		},
	}
}

func TestGenerateIndex_Golden(t *testing.T) {
	defs := indexFixture()
	g := newTestGenerator(t)
	enums := compiler.CollectEnums(defs)

	f, err := g.GenerateIndex(defs, enums)
	require.NoError(t, err)
	assert.Equal(t, "__init__.py", f.Path)

	newGoldie(t).Assert(t, "index", f.Content)
}

func TestGenerateIndex_NoEnums(t *testing.T) {
	defs := []ir.DecoratorDefinition{
		{Name: "Concise", Version: "1.0.0", Category: "style"},
	}
	g := newTestGenerator(t)

	f, err := g.GenerateIndex(defs, compiler.NewEnumRegistry())
	require.NoError(t, err)

	out := string(f.Content)
	assert.NotContains(t, out, "from .enums import")
	assert.Contains(t, out, "from .concise import Concise")
	assert.Contains(t, out, `    "Concise": Concise,`)
}

func TestGenerateIndex_ManyEnumsParenthesized(t *testing.T) {
	defs := []ir.DecoratorDefinition{
		{
			Name:     "Tone",
			Version:  "1.0.0",
			Category: "style",
			Parameters: []ir.ParameterDefinition{
				{Name: "voice", Type: ir.TypeEnum, EnumValues: []string{"warm"}},
				{Name: "register", Type: ir.TypeEnum, EnumValues: []string{"high"}},
				{Name: "tempo", Type: ir.TypeEnum, EnumValues: []string{"slow"}},
			},
		},
	}
	g := newTestGenerator(t)
	enums := compiler.CollectEnums(defs)

	f, err := g.GenerateIndex(defs, enums)
	require.NoError(t, err)

	out := string(f.Content)
	assert.Contains(t, out, "from .enums import (\n")
	assert.Contains(t, out, "    ToneRegisterEnum,\n    ToneTempoEnum,\n    ToneVoiceEnum,\n)")
}

func TestGenerateIndex_OrderIndependentOfInput(t *testing.T) {
	defs := indexFixture()
	reversed := []ir.DecoratorDefinition{defs[2], defs[1], defs[0]}
	g := newTestGenerator(t)

	first, err := g.GenerateIndex(defs, compiler.CollectEnums(defs))
	require.NoError(t, err)
	second, err := g.GenerateIndex(reversed, compiler.CollectEnums(reversed))
	require.NoError(t, err)

	assert.Equal(t, string(first.Content), string(second.Content),
		"index must not depend on scan order")
}
