package codegen

import (
	"sort"

	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/emit"
	"github.com/promptdec/decforge/internal/ir"
)

// IndexFileName is the package index re-exporting every generated
// decorator and enum type.
const IndexFileName = "__init__.py"

type categorySection struct {
	Name        string
	ImportLines []string
}

type indexContext struct {
	Categories      []categorySection
	EnumImportLines []string
	RegistryLines   []string
	AllLines        []string
}

// GenerateIndex renders __init__.py: imports grouped by category, the
// name-to-class registry used for runtime lookup, and __all__. All
// ordering is sorted, never scan order, so parallel scanning cannot
// change the index.
func (g *Generator) GenerateIndex(defs []ir.DecoratorDefinition, enums *compiler.EnumRegistry) (emit.File, error) {
	byCategory := make(map[string][]*ir.DecoratorDefinition)
	for i := range defs {
		def := &defs[i]
		byCategory[def.Category] = append(byCategory[def.Category], def)
	}

	categories := make([]string, 0, len(byCategory))
	for name := range byCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	ctx := indexContext{}
	for _, category := range categories {
		group := byCategory[category]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		section := categorySection{Name: category}
		for _, def := range group {
			section.ImportLines = append(section.ImportLines,
				"from ."+ir.SnakeCase(def.Name)+" import "+className(def))
		}
		ctx.Categories = append(ctx.Categories, section)
	}

	enumNames := make([]string, 0, len(enums.Definitions()))
	for _, e := range enums.Definitions() {
		enumNames = append(enumNames, e.GeneratedName)
	}
	sort.Strings(enumNames)
	ctx.EnumImportLines = enumImportLines(enumNames)

	sortedDefs := make([]*ir.DecoratorDefinition, 0, len(defs))
	for i := range defs {
		sortedDefs = append(sortedDefs, &defs[i])
	}
	sort.Slice(sortedDefs, func(i, j int) bool { return sortedDefs[i].Name < sortedDefs[j].Name })
	for _, def := range sortedDefs {
		ctx.RegistryLines = append(ctx.RegistryLines,
			indent1+compiler.PyString(def.Name)+": "+className(def)+",")
	}

	exported := make([]string, 0, len(defs)+len(enumNames))
	for _, def := range sortedDefs {
		exported = append(exported, className(def))
	}
	exported = append(exported, enumNames...)
	sort.Strings(exported)
	ctx.AllLines = append(ctx.AllLines, indent1+`"DECORATOR_REGISTRY",`)
	for _, name := range exported {
		ctx.AllLines = append(ctx.AllLines, indent1+compiler.PyString(name)+",")
	}

	content, err := g.engine.Render("index.py.tmpl", ctx)
	if err != nil {
		return emit.File{}, err
	}
	return emit.File{Path: IndexFileName, Content: content}, nil
}

// enumImportLines renders the enums import, parenthesized when long.
// The leading empty line separates it from the category imports.
func enumImportLines(names []string) []string {
	switch {
	case len(names) == 0:
		return nil
	case len(names) <= 2:
		line := "from .enums import " + names[0]
		if len(names) == 2 {
			line += ", " + names[1]
		}
		return []string{"", line}
	default:
		lines := []string{"", "from .enums import ("}
		for _, name := range names {
			lines = append(lines, indent1+name+",")
		}
		return append(lines, ")")
	}
}

func className(def *ir.DecoratorDefinition) string {
	return ir.PythonIdent(ir.PascalCase(def.Name))
}
