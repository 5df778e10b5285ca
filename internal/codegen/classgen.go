package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/emit"
	"github.com/promptdec/decforge/internal/ir"
)

// classContext is the fully precomputed input to class.py.tmpl. Every
// multi-line section is a slice of pre-indented lines so the template
// stays pure layout and the output stays byte-deterministic.
type classContext struct {
	ImportBlock        string
	ClassName          string
	NamePlain          string
	NameLiteral        string
	VersionLiteral     string
	CategoryLiteral    string
	DescriptionLiteral string
	DocstringLines     []string
	CtorArgs           []string
	InitAssigns        []string
	ValidateLines      []string
	Properties         []propertySection
	ToDictLines        []string
	FromDictLines      []string
	ToStringLines      []string
	ApplyLines         []string
	FloorTuple         string
	CeilingTuple       string
}

type propertySection struct {
	Name       string
	Annotation string
	DocLine    string
	Store      string
}

// paramInfo carries the per-parameter derivations shared by several
// sections of the class.
type paramInfo struct {
	def        *ir.ParameterDefinition
	arg        string // constructor argument identifier
	store      string // instance attribute expression, e.g. self._style
	accessor   string // property name, renamed for reserved attributes
	annotation string
	defaultLit string
	checks     []compiler.CheckStatement
	required   compiler.CheckStatement
	isRequired bool
	enumName   string
}

const (
	indent1 = "    "
	indent2 = "        "
	indent3 = "            "
	indent4 = "                "
)

// GenerateClass renders the source unit for one decorator. The
// definition must have passed compiler.Validate.
func (g *Generator) GenerateClass(def *ir.DecoratorDefinition, enums *compiler.EnumRegistry) (emit.File, error) {
	ctx, err := g.buildClassContext(def, enums)
	if err != nil {
		return emit.File{}, err
	}
	content, err := g.engine.Render("class.py.tmpl", ctx)
	if err != nil {
		return emit.File{}, err
	}
	return emit.File{Path: ir.SnakeCase(def.Name) + ".py", Content: content}, nil
}

func (g *Generator) buildClassContext(def *ir.DecoratorDefinition, enums *compiler.EnumRegistry) (*classContext, error) {
	version, err := semver.NewVersion(def.Version)
	if err != nil {
		return nil, fmt.Errorf("decorator %s: invalid version %q: %w", def.Name, def.Version, err)
	}
	ceiling := version.IncMajor()

	typing := map[string]bool{"Any": true, "Dict": true}
	needsRe := false

	params := make([]paramInfo, 0, len(def.Parameters))
	for i := range def.Parameters {
		p := &def.Parameters[i]
		info := paramInfo{
			def:      p,
			arg:      ir.PythonIdent(p.Name),
			accessor: ir.AccessorName(p.Name),
		}
		info.store = "self._" + info.accessor

		sig := compiler.PythonType(p)
		for _, imp := range sig.TypingImports {
			typing[imp] = true
		}
		if p.HasDefault() {
			info.annotation = sig.Annotation
			info.defaultLit = compiler.PyValue(p.Default)
		} else {
			typing["Optional"] = true
			info.annotation = "Optional[" + sig.Annotation + "]"
			info.defaultLit = "None"
		}

		info.checks = compiler.CompileChecks(p, info.store)
		if compiler.NeedsRegex(info.checks) {
			needsRe = true
		}
		info.required, info.isRequired = compiler.RequiredCheck(p, info.store)

		if p.Type == ir.TypeEnum {
			if enumDef, ok := enums.Lookup(def.Name, p.Name); ok {
				info.enumName = enumDef.GeneratedName
			} else {
				info.enumName = ir.PascalCase(def.Name) + ir.PascalCase(p.Name) + "Enum"
			}
		}
		params = append(params, info)
	}

	ctx := &classContext{
		ClassName:          ir.PythonIdent(ir.PascalCase(def.Name)),
		NamePlain:          def.Name,
		NameLiteral:        compiler.PyString(def.Name),
		VersionLiteral:     compiler.PyString(def.Version),
		CategoryLiteral:    compiler.PyString(def.Category),
		DescriptionLiteral: compiler.PyString(def.Description),
		ImportBlock:        buildImportBlock(needsRe, typing, g.cfg.RuntimeImport),
		DocstringLines:     buildDocstring(def, params),
		CtorArgs:           buildCtorArgs(params),
		InitAssigns:        buildInitAssigns(params),
		ValidateLines:      buildValidateLines(params),
		Properties:         buildProperties(params),
		ToDictLines:        buildToDictLines(params),
		FromDictLines:      buildFromDictLines(params),
		ToStringLines:      buildToStringLines(def.Name, params),
		ApplyLines:         buildApplyLines(def, params),
		FloorTuple:         versionTuple(ir.MinDecoratorVersion),
		CeilingTuple:       fmt.Sprintf("(%d, 0, 0)", ceiling.Major()),
	}
	return ctx, nil
}

// versionTuple renders a semver string as a Python int tuple.
func versionTuple(v string) string {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return "(1, 0, 0)"
	}
	return fmt.Sprintf("(%d, %d, %d)", parsed.Major(), parsed.Minor(), parsed.Patch())
}

func buildImportBlock(needsRe bool, typing map[string]bool, runtimeImport string) string {
	var lines []string
	if needsRe {
		lines = append(lines, "import re", "")
	}
	names := make([]string, 0, len(typing))
	for name := range typing {
		names = append(names, name)
	}
	sort.Strings(names)
	lines = append(lines,
		"from typing import "+strings.Join(names, ", "),
		"",
		"from "+runtimeImport+" import BaseDecorator, ValidationError",
	)
	return strings.Join(lines, "\n")
}

// buildCtorArgs orders required parameters before optional ones,
// preserving declaration order within each group. Required parameters
// default to None so that omission surfaces as a ValidationError from
// _validate rather than a bare TypeError.
func buildCtorArgs(params []paramInfo) []string {
	var args []string
	add := func(info *paramInfo) {
		args = append(args, indent2+info.arg+": "+info.annotation+" = "+info.defaultLit+",")
	}
	for i := range params {
		if params[i].isRequired && !params[i].def.HasDefault() {
			add(&params[i])
		}
	}
	for i := range params {
		if !(params[i].isRequired && !params[i].def.HasDefault()) {
			add(&params[i])
		}
	}
	return args
}

func buildInitAssigns(params []paramInfo) []string {
	lines := make([]string, len(params))
	for i := range params {
		lines[i] = indent2 + params[i].store + " = " + params[i].arg
	}
	return lines
}

// buildValidateLines synthesizes the _validate body. Checks only run
// when the value is present; absent optional parameters skip validation.
func buildValidateLines(params []paramInfo) []string {
	var lines []string
	for i := range params {
		info := &params[i]
		if info.isRequired {
			lines = append(lines,
				indent2+"if "+info.store+" is None:",
				indent3+"raise ValidationError("+compiler.PyString(info.required.Message)+")",
			)
		}
		if len(info.checks) == 0 {
			continue
		}
		lines = append(lines, indent2+"if "+info.store+" is not None:")
		for _, check := range info.checks {
			lines = append(lines,
				indent3+"if "+check.Condition+":",
				indent4+"raise ValidationError("+compiler.PyString(check.Message)+")",
			)
		}
	}
	if len(lines) == 0 {
		return []string{indent2 + "pass"}
	}
	return lines
}

func buildProperties(params []paramInfo) []propertySection {
	props := make([]propertySection, len(params))
	for i := range params {
		info := &params[i]
		section := propertySection{
			Name:       info.accessor,
			Annotation: info.annotation,
			Store:      info.store,
		}
		if desc := docOneLine(info.def.Description); desc != "" {
			section.DocLine = indent2 + `"""` + desc + `"""`
		}
		props[i] = section
	}
	return props
}

func buildToDictLines(params []paramInfo) []string {
	lines := make([]string, len(params))
	for i := range params {
		lines[i] = indent4 + compiler.PyString(params[i].def.Name) + ": " + params[i].store + ","
	}
	return lines
}

func buildFromDictLines(params []paramInfo) []string {
	if len(params) == 0 {
		return []string{indent2 + "return cls()"}
	}
	lines := []string{
		indent2 + `params = data.get("parameters", {})`,
		indent2 + "kwargs: Dict[str, Any] = {}",
	}
	for i := range params {
		nameLit := compiler.PyString(params[i].def.Name)
		argLit := compiler.PyString(params[i].arg)
		lines = append(lines,
			indent2+"if params.get("+nameLit+") is not None:",
			indent3+"kwargs["+argLit+"] = params["+nameLit+"]",
		)
	}
	return append(lines, indent2+"return cls(**kwargs)")
}

func buildToStringLines(name string, params []paramInfo) []string {
	if len(params) == 0 {
		return []string{indent2 + "return " + compiler.PyString("+++"+name+"()")}
	}
	lines := []string{indent2 + "parts = []"}
	for i := range params {
		info := &params[i]
		lines = append(lines,
			indent2+"if "+info.store+" is not None:",
			indent3+"parts.append("+compiler.PyString(info.def.Name+"=")+" + repr("+info.store+"))",
		)
	}
	return append(lines,
		indent2+"return "+compiler.PyString("+++"+name+"(")+` + ", ".join(parts) + ")"`,
	)
}

// buildApplyLines renders the placeholder transform: the instruction
// text (from the transformation template, falling back to the
// description) refined by per-parameter substitution rules, then placed
// relative to the prompt.
func buildApplyLines(def *ir.DecoratorDefinition, params []paramInfo) []string {
	instruction := def.Description
	placement := "prepend"
	if def.Transform != nil {
		if def.Transform.Instruction != "" {
			instruction = def.Transform.Instruction
		}
		if def.Transform.Placement != "" {
			placement = def.Transform.Placement
		}
	}

	lines := []string{indent2 + "instruction = " + compiler.PyString(instruction)}

	if def.Transform != nil && len(def.Transform.ParameterMapping) > 0 {
		// Declaration order, never map order.
		for i := range params {
			info := &params[i]
			mapping, ok := def.Transform.ParameterMapping[info.def.Name]
			if !ok {
				continue
			}
			expr := mappingExpr(mapping, info.store)
			if expr == "" {
				continue
			}
			lines = append(lines,
				indent2+"if "+info.store+" is not None:",
				indent3+`instruction = instruction + " " + `+expr,
			)
		}
	}

	newline := compiler.PyString("\n\n")
	switch placement {
	case "append":
		lines = append(lines, indent2+"return prompt + "+newline+" + instruction")
	case "replace":
		lines = append(lines, indent2+"return instruction")
	default:
		lines = append(lines, indent2+"return instruction + "+newline+" + prompt")
	}
	return lines
}

// mappingExpr renders one substitution rule as a Python expression over
// the stored value. ValueMap keys are sorted because JSON object order
// is not preserved by decoding.
func mappingExpr(m ir.ParameterMapping, store string) string {
	if m.Format != "" {
		return compiler.PyString(m.Format) + `.replace("{value}", str(` + store + `))`
	}
	if len(m.ValueMap) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m.ValueMap))
	for k := range m.ValueMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = compiler.PyString(k) + ": " + compiler.PyString(m.ValueMap[k])
	}
	return "{" + strings.Join(pairs, ", ") + "}.get(str(" + store + `), "")`
}

func buildDocstring(def *ir.DecoratorDefinition, params []paramInfo) []string {
	descLines := strings.Split(docEscape(def.Description), "\n")

	if len(descLines) == 1 && len(params) == 0 && len(def.Examples) == 0 {
		return []string{indent1 + `"""` + descLines[0] + `"""`}
	}

	lines := []string{indent1 + `"""` + descLines[0]}
	for _, l := range descLines[1:] {
		if l == "" {
			lines = append(lines, "")
		} else {
			lines = append(lines, indent1+l)
		}
	}

	if len(params) > 0 {
		lines = append(lines, "", indent1+"Parameters:")
		for i := range params {
			info := &params[i]
			display := string(info.def.Type)
			if info.enumName != "" {
				display = info.enumName
			}
			entry := info.def.Name + " (" + display + ")"
			if desc := docOneLine(info.def.Description); desc != "" {
				entry += ": " + desc
			}
			lines = append(lines, indent2+entry)
		}
	}

	if len(def.Examples) > 0 {
		lines = append(lines, "", indent1+"Examples:")
		for _, ex := range def.Examples {
			label := docOneLine(ex.Description)
			if label == "" {
				label = "Example"
			}
			lines = append(lines, indent2+label+":")
			lines = append(lines, indent3+exampleAnnotation(def.Name, ex.Parameters))
			if prompt := docOneLine(ex.Prompt); prompt != "" {
				lines = append(lines, indent3+prompt)
			}
		}
	}

	return append(lines, indent1+`"""`)
}

// exampleAnnotation renders an example parameter set as the runtime
// annotation form, +++Name(k=v). Keys sorted for determinism.
func exampleAnnotation(name string, params map[string]any) string {
	if len(params) == 0 {
		return "+++" + name
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + compiler.PyValue(params[k])
	}
	return "+++" + name + "(" + strings.Join(pairs, ", ") + ")"
}

// docEscape makes free text safe inside a triple-quoted docstring.
func docEscape(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"""`, `\"\"\"`)
	return s
}

// docOneLine escapes free text and collapses it to a single line.
func docOneLine(s string) string {
	s = docEscape(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
