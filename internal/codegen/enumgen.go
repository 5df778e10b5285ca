package codegen

import (
	"strconv"

	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/emit"
	"github.com/promptdec/decforge/internal/ir"
)

// EnumsFileName is the shared enum module emitted once per run.
const EnumsFileName = "enums.py"

type enumMember struct {
	Name  string
	Value string
}

type enumSection struct {
	GeneratedName string
	DocLine       string
	Members       []enumMember
}

type enumsContext struct {
	Enums []enumSection
}

// GenerateEnums renders the shared enum module. With no enum-typed
// parameters anywhere it still emits the module header so the generated
// package shape is stable.
func (g *Generator) GenerateEnums(enums *compiler.EnumRegistry) (emit.File, error) {
	defs := enums.Definitions()
	ctx := enumsContext{Enums: make([]enumSection, len(defs))}
	for i := range defs {
		ctx.Enums[i] = buildEnumSection(&defs[i])
	}
	content, err := g.engine.Render("enums.py.tmpl", ctx)
	if err != nil {
		return emit.File{}, err
	}
	return emit.File{Path: EnumsFileName, Content: content}, nil
}

func buildEnumSection(def *ir.EnumDefinition) enumSection {
	section := enumSection{
		GeneratedName: def.GeneratedName,
		DocLine:       docOneLine(def.Description),
	}
	if section.DocLine == "" {
		section.DocLine = "Allowed values for the " + def.ParameterName + " parameter of " + def.DecoratorName + "."
	}

	// Two distinct values can normalize to the same member name
	// ("a-b" and "a_b"); suffix to keep members unique.
	used := make(map[string]bool, len(def.Values))
	for _, value := range def.Values {
		name := ir.EnumMemberName(value)
		unique := name
		for n := 2; used[unique]; n++ {
			unique = name + "_" + strconv.Itoa(n)
		}
		used[unique] = true
		section.Members = append(section.Members, enumMember{Name: unique, Value: value})
	}
	return section
}
