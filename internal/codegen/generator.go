package codegen

import (
	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/emit"
	"github.com/promptdec/decforge/internal/ir"
)

// Generator renders the full generated source tree for one run.
type Generator struct {
	cfg    Config
	engine *Engine
}

// New creates a Generator with the embedded templates parsed.
func New(cfg Config) (*Generator, error) {
	cfg.applyDefaults()
	engine, err := NewEngine()
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, engine: engine}, nil
}

// GenerateAll renders one class file per decorator, the shared enum
// module and the package index. Definitions must already have passed
// compiler.Validate; the enum registry must have been collected from the
// same definitions.
func (g *Generator) GenerateAll(defs []ir.DecoratorDefinition, enums *compiler.EnumRegistry) ([]emit.File, error) {
	files := make([]emit.File, 0, len(defs)+2)
	for i := range defs {
		f, err := g.GenerateClass(&defs[i], enums)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	enumFile, err := g.GenerateEnums(enums)
	if err != nil {
		return nil, err
	}
	files = append(files, enumFile)

	indexFile, err := g.GenerateIndex(defs, enums)
	if err != nil {
		return nil, err
	}
	files = append(files, indexFile)

	return files, nil
}
