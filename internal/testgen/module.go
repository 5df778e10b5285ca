package testgen

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/emit"
	"github.com/promptdec/decforge/internal/ir"
)

const (
	indent1 = "    "
	indent2 = "        "
)

// HelpersFileName is the shared fixture module the generated tests import.
const HelpersFileName = "helpers.py"

// ConftestFileName is the pytest wiring module.
const ConftestFileName = "conftest.py"

type testFunc struct {
	Name  string
	Args  string
	Lines []string
}

type moduleContext struct {
	ClassName   string
	ImportBlock string
	KwargsLines []string
	Tests       []testFunc
}

// paramCase carries the per-parameter derivations the test builder needs.
type paramCase struct {
	def   *ir.ParameterDefinition
	arg   string
	value fixtureValue
}

// Generator renders the generated test tree for one run.
type Generator struct {
	cfg    Config
	engine *engine
}

// New creates a Generator with the embedded templates parsed.
func New(cfg Config) (*Generator, error) {
	cfg.applyDefaults()
	eng, err := newEngine()
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, engine: eng}, nil
}

// GenerateAll renders one test module per decorator plus the shared
// fixture and conftest modules.
func (g *Generator) GenerateAll(defs []ir.DecoratorDefinition) ([]emit.File, error) {
	files := make([]emit.File, 0, len(defs)+2)
	for i := range defs {
		f, err := g.GenerateModule(&defs[i])
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	helpers, err := g.GenerateHelpers()
	if err != nil {
		return nil, err
	}
	files = append(files, helpers)

	conftest, err := g.GenerateConftest()
	if err != nil {
		return nil, err
	}
	return append(files, conftest), nil
}

// GenerateModule renders the pytest module for one decorator. The
// definition must have passed compiler.Validate.
func (g *Generator) GenerateModule(def *ir.DecoratorDefinition) (emit.File, error) {
	ctx, err := g.buildModuleContext(def)
	if err != nil {
		return emit.File{}, err
	}
	content, err := g.engine.render("test_module.py.tmpl", ctx)
	if err != nil {
		return emit.File{}, err
	}
	return emit.File{Path: "test_" + ir.SnakeCase(def.Name) + ".py", Content: content}, nil
}

// GenerateHelpers renders the shared fixture module: the registry-backed
// loader and the sample prompt.
func (g *Generator) GenerateHelpers() (emit.File, error) {
	content, err := g.engine.render("helpers.py.tmpl", struct{ PackageImport string }{g.cfg.PackageImport})
	if err != nil {
		return emit.File{}, err
	}
	return emit.File{Path: HelpersFileName, Content: content}, nil
}

// GenerateConftest renders the pytest conftest exposing the sample prompt
// as a fixture.
func (g *Generator) GenerateConftest() (emit.File, error) {
	content, err := g.engine.render("conftest.py.tmpl", struct{}{})
	if err != nil {
		return emit.File{}, err
	}
	return emit.File{Path: ConftestFileName, Content: content}, nil
}

func (g *Generator) buildModuleContext(def *ir.DecoratorDefinition) (*moduleContext, error) {
	version, err := semver.NewVersion(def.Version)
	if err != nil {
		return nil, fmt.Errorf("decorator %s: invalid version %q: %w", def.Name, def.Version, err)
	}
	ceiling := version.IncMajor()

	class := ir.PythonIdent(ir.PascalCase(def.Name))
	module := ir.SnakeCase(def.Name)

	params := make([]paramCase, 0, len(def.Parameters))
	canConstruct := true
	for i := range def.Parameters {
		p := &def.Parameters[i]
		pc := paramCase{def: p, arg: ir.PythonIdent(p.Name), value: synthesize(def, p)}
		if p.Required && (!pc.value.guaranteed || pc.value.literal == "") {
			canConstruct = false
		}
		params = append(params, pc)
	}

	ctx := &moduleContext{ClassName: class}
	usesRaises := false

	raise := func(b *[]string, pc *paramCase, literal string) {
		*b = append(*b,
			indent1+"kwargs = _valid_kwargs()",
			indent1+"kwargs["+compiler.PyString(pc.arg)+"] = "+literal,
			fmt.Sprintf(indent1+`with pytest.raises(ValidationError, match="'%s'"):`, pc.def.Name),
			indent2+class+"(**kwargs)",
		)
		usesRaises = true
	}
	accept := func(b *[]string, pc *paramCase, literal string) {
		*b = append(*b,
			indent1+"kwargs = _valid_kwargs()",
			indent1+"kwargs["+compiler.PyString(pc.arg)+"] = "+literal,
			indent1+class+"(**kwargs)",
		)
	}

	if canConstruct {
		ctx.KwargsLines = buildKwargsLines(params)

		ctx.Tests = append(ctx.Tests, testFunc{
			Name: "test_instantiates_with_valid_parameters",
			Lines: []string{
				indent1 + "d = " + class + "(**_valid_kwargs())",
				indent1 + "assert d.name == " + compiler.PyString(def.Name),
				indent1 + "assert d.version == " + compiler.PyString(def.Version),
				indent1 + "assert d.category == " + compiler.PyString(def.Category),
			},
		})
		ctx.Tests = append(ctx.Tests, testFunc{
			Name: "test_loads_by_declared_name",
			Lines: []string{
				indent1 + "d = load_decorator(" + compiler.PyString(def.Name) + ", _valid_kwargs())",
				indent1 + "assert isinstance(d, " + class + ")",
			},
		})

		for i := range params {
			pc := &params[i]
			if !pc.def.Required {
				continue
			}
			lines := []string{
				indent1 + "kwargs = _valid_kwargs()",
				indent1 + "kwargs.pop(" + compiler.PyString(pc.arg) + ", None)",
				fmt.Sprintf(indent1+`with pytest.raises(ValidationError, match="'%s'"):`, pc.def.Name),
				indent2 + class + "(**kwargs)",
			}
			usesRaises = true
			ctx.Tests = append(ctx.Tests, testFunc{
				Name:  "test_missing_" + pc.arg + "_raises",
				Lines: lines,
			})
		}

		for i := range params {
			pc := &params[i]
			var lines []string
			raise(&lines, pc, wrongTypeLiteral(pc.def.Type))
			ctx.Tests = append(ctx.Tests, testFunc{
				Name:  "test_" + pc.arg + "_rejects_wrong_type",
				Lines: lines,
			})
		}

		for i := range params {
			pc := &params[i]
			if t := rangeBoundaryTest(pc, raise, accept); t != nil {
				ctx.Tests = append(ctx.Tests, *t)
			}
			if t := lengthBoundaryTest(pc, raise, accept); t != nil {
				ctx.Tests = append(ctx.Tests, *t)
			}
			ctx.Tests = append(ctx.Tests, enumTests(pc, class, &usesRaises)...)
			if t := itemsBoundaryTest(pc, raise, accept); t != nil {
				ctx.Tests = append(ctx.Tests, *t)
			}
			if t := requiredKeysTest(pc, raise); t != nil {
				ctx.Tests = append(ctx.Tests, *t)
			}
		}

		ctx.Tests = append(ctx.Tests,
			testFunc{
				Name: "test_apply_returns_string",
				Args: "sample_prompt",
				Lines: []string{
					indent1 + "result = " + class + "(**_valid_kwargs()).apply(sample_prompt)",
					indent1 + "assert isinstance(result, str)",
					indent1 + "assert result",
				},
			},
			testFunc{
				Name:  "test_to_dict_structure",
				Lines: toDictLines(def, class),
			},
			testFunc{
				Name: "test_from_dict_round_trip",
				Lines: []string{
					indent1 + "original = " + class + "(**_valid_kwargs())",
					indent1 + "clone = " + class + ".from_dict(original.to_dict())",
					indent1 + "assert clone.to_dict() == original.to_dict()",
				},
			},
			testFunc{
				Name: "test_to_string_annotation",
				Lines: []string{
					indent1 + "text = " + class + "(**_valid_kwargs()).to_string()",
					indent1 + "assert text.startswith(" + compiler.PyString("+++"+def.Name) + ")",
				},
			},
		)
	}

	ctx.Tests = append(ctx.Tests, testFunc{
		Name: "test_version_compatibility_window",
		Lines: []string{
			indent1 + "assert " + class + ".is_compatible_with_version(" + compiler.PyString(def.Version) + ")",
			indent1 + "assert not " + class + `.is_compatible_with_version("0.9.9")`,
			indent1 + "assert not " + class + ".is_compatible_with_version(" + compiler.PyString(ceiling.String()) + ")",
			indent1 + "assert not " + class + `.is_compatible_with_version("not.a.version")`,
		},
	})

	ctx.ImportBlock = buildImportBlock(g.cfg, module, class, usesRaises, canConstruct)
	return ctx, nil
}

func buildKwargsLines(params []paramCase) []string {
	lines := []string{indent1 + "return {"}
	wrote := false
	for i := range params {
		pc := &params[i]
		if !pc.value.guaranteed || pc.value.literal == "" {
			continue
		}
		lines = append(lines, indent2+compiler.PyString(pc.arg)+": "+pc.value.literal+",")
		wrote = true
	}
	if !wrote {
		return []string{indent1 + "return {}"}
	}
	return append(lines, indent1+"}")
}

func buildImportBlock(cfg Config, module, class string, usesRaises, usesLoader bool) string {
	var sections []string
	if usesRaises {
		sections = append(sections,
			"import pytest",
			"",
			"from "+cfg.RuntimeImport+" import ValidationError",
			"",
		)
	}
	sections = append(sections, "from "+cfg.PackageImport+"."+module+" import "+class)
	if usesLoader {
		sections = append(sections, "from helpers import load_decorator")
	}
	return strings.Join(sections, "\n")
}

func toDictLines(def *ir.DecoratorDefinition, class string) []string {
	lines := []string{
		indent1 + "data = " + class + "(**_valid_kwargs()).to_dict()",
		indent1 + "assert data[\"name\"] == " + compiler.PyString(def.Name),
	}
	if len(def.Parameters) == 0 {
		return append(lines, indent1+`assert data["parameters"] == {}`)
	}
	names := make([]string, len(def.Parameters))
	for i := range def.Parameters {
		names[i] = compiler.PyString(def.Parameters[i].Name)
	}
	sort.Strings(names)
	return append(lines,
		indent1+`assert set(data["parameters"]) == {`+strings.Join(names, ", ")+"}",
	)
}

type addCase func(b *[]string, pc *paramCase, literal string)

// rangeBoundaryTest asserts that values just outside a declared numeric
// range raise and the boundary values themselves are accepted.
func rangeBoundaryTest(pc *paramCase, raise, accept addCase) *testFunc {
	p := pc.def
	if p.Type != ir.TypeInteger && p.Type != ir.TypeNumber {
		return nil
	}
	if p.Minimum == nil && p.Maximum == nil {
		return nil
	}
	var lines []string
	if p.Minimum != nil {
		below, at := boundaryLiterals(p.Type, *p.Minimum, -1)
		raise(&lines, pc, below)
		accept(&lines, pc, at)
	}
	if p.Maximum != nil {
		above, at := boundaryLiterals(p.Type, *p.Maximum, +1)
		raise(&lines, pc, above)
		accept(&lines, pc, at)
	}
	return &testFunc{Name: "test_" + pc.arg + "_range_boundaries", Lines: lines}
}

// boundaryLiterals returns the just-outside and at-boundary literals for
// a numeric bound. direction is -1 for a minimum, +1 for a maximum.
func boundaryLiterals(t ir.ParamType, bound float64, direction int) (outside, at string) {
	if t == ir.TypeInteger {
		var edge int64
		if direction < 0 {
			edge = int64(math.Ceil(bound))
		} else {
			edge = int64(math.Floor(bound))
		}
		return strconv.FormatInt(edge+int64(direction), 10), strconv.FormatInt(edge, 10)
	}
	return compiler.PyValue(bound + float64(direction)), compiler.PyValue(bound)
}

func lengthBoundaryTest(pc *paramCase, raise, accept addCase) *testFunc {
	p := pc.def
	if p.Type != ir.TypeString || (p.MinLength == nil && p.MaxLength == nil) {
		return nil
	}
	var lines []string
	if p.MinLength != nil && *p.MinLength > 0 {
		raise(&lines, pc, repeatLiteral(*p.MinLength-1))
		if p.Pattern == "" {
			accept(&lines, pc, repeatLiteral(*p.MinLength))
		}
	}
	if p.MaxLength != nil {
		raise(&lines, pc, repeatLiteral(*p.MaxLength+1))
		if p.Pattern == "" && (p.MinLength == nil || *p.MinLength <= *p.MaxLength) {
			accept(&lines, pc, repeatLiteral(*p.MaxLength))
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return &testFunc{Name: "test_" + pc.arg + "_length_boundaries", Lines: lines}
}

func repeatLiteral(n int) string {
	return `"a" * ` + strconv.Itoa(n)
}

func enumTests(pc *paramCase, class string, usesRaises *bool) []testFunc {
	p := pc.def
	if p.Type != ir.TypeEnum || len(p.EnumValues) == 0 {
		return nil
	}
	quoted := make([]string, len(p.EnumValues))
	for i, v := range p.EnumValues {
		quoted[i] = compiler.PyString(v)
	}
	acceptAll := testFunc{
		Name: "test_" + pc.arg + "_accepts_each_declared_value",
		Lines: []string{
			indent1 + "for value in [" + strings.Join(quoted, ", ") + "]:",
			indent2 + "kwargs = _valid_kwargs()",
			indent2 + "kwargs[" + compiler.PyString(pc.arg) + "] = value",
			indent2 + class + "(**kwargs)",
		},
	}
	reject := testFunc{
		Name: "test_" + pc.arg + "_rejects_unknown_value",
		Lines: []string{
			indent1 + "kwargs = _valid_kwargs()",
			indent1 + "kwargs[" + compiler.PyString(pc.arg) + `] = "definitely-not-allowed"`,
			fmt.Sprintf(indent1+`with pytest.raises(ValidationError, match="'%s'"):`, p.Name),
			indent2 + class + "(**kwargs)",
		},
	}
	*usesRaises = true
	return []testFunc{acceptAll, reject}
}

func itemsBoundaryTest(pc *paramCase, raise, accept addCase) *testFunc {
	p := pc.def
	if p.Type != ir.TypeArray || (p.MinItems == nil && p.MaxItems == nil) {
		return nil
	}
	item := itemSample(p.ItemType)
	var lines []string
	if p.MinItems != nil && *p.MinItems > 0 {
		raise(&lines, pc, listLiteral(item, *p.MinItems-1))
		accept(&lines, pc, listLiteral(item, *p.MinItems))
	}
	if p.MaxItems != nil {
		raise(&lines, pc, listLiteral(item, *p.MaxItems+1))
		if p.MinItems == nil || *p.MinItems <= *p.MaxItems {
			accept(&lines, pc, listLiteral(item, *p.MaxItems))
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return &testFunc{Name: "test_" + pc.arg + "_items_boundaries", Lines: lines}
}

func listLiteral(item string, n int) string {
	return "[" + item + "] * " + strconv.Itoa(n)
}

func requiredKeysTest(pc *paramCase, raise addCase) *testFunc {
	p := pc.def
	if p.Type != ir.TypeObject || len(p.RequiredKeys) == 0 {
		return nil
	}
	var lines []string
	raise(&lines, pc, "{}")
	return &testFunc{Name: "test_" + pc.arg + "_requires_declared_keys", Lines: lines}
}
