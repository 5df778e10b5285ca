package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/ir"
)

func TestGenerateAll_OneFilePerDecoratorPlusShared(t *testing.T) {
	defs := indexFixture()
	g := newTestGenerator(t)
	enums := compiler.CollectEnums(defs)

	files, err := g.GenerateAll(defs, enums)
	require.NoError(t, err)
	require.Len(t, files, len(defs)+2)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{
		"step_by_step.py",
		"debate.py",
		"output_format.py",
		"enums.py",
		"__init__.py",
	}, paths)
}

func TestGenerateAll_Deterministic(t *testing.T) {
	defs := indexFixture()
	g := newTestGenerator(t)

	first, err := g.GenerateAll(defs, compiler.CollectEnums(defs))
	require.NoError(t, err)
	second, err := g.GenerateAll(defs, compiler.CollectEnums(defs))
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Path, second[i].Path)
		assert.Equal(t, string(first[i].Content), string(second[i].Content))
	}
}

func TestGenerateAll_CustomRuntimeImport(t *testing.T) {
	g, err := New(Config{RuntimeImport: "mypkg.base"})
	require.NoError(t, err)

	def := ir.DecoratorDefinition{
		Name:        "Concise",
		Version:     "1.0.0",
		Description: "Keeps the response short.",
		Category:    "style",
	}
	f, err := g.GenerateClass(&def, compiler.NewEnumRegistry())
	require.NoError(t, err)

	assert.Contains(t, string(f.Content), "from mypkg.base import BaseDecorator, ValidationError")
}
