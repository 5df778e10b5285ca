package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdec/decforge/internal/ir"
)

func intPtr(v int) *int         { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCompileChecksNumberRange(t *testing.T) {
	p := &ir.ParameterDefinition{
		Name:    "perspectives",
		Type:    ir.TypeNumber,
		Minimum: floatPtr(2),
		Maximum: floatPtr(5),
	}
	checks := CompileChecks(p, "self._perspectives")
	require.Len(t, checks, 3)

	assert.Equal(t, CheckType, checks[0].Kind)
	assert.Contains(t, checks[0].Condition, "isinstance(self._perspectives, (int, float))")
	assert.Contains(t, checks[0].Message, "perspectives")
	assert.Contains(t, checks[0].Message, "number")

	assert.Equal(t, CheckRange, checks[1].Kind)
	assert.Equal(t, "self._perspectives < 2", checks[1].Condition)
	assert.Contains(t, checks[1].Message, "at least 2")

	assert.Equal(t, CheckRange, checks[2].Kind)
	assert.Equal(t, "self._perspectives > 5", checks[2].Condition)
	assert.Contains(t, checks[2].Message, "at most 5")
}

func TestCompileChecksEnum(t *testing.T) {
	p := &ir.ParameterDefinition{
		Name:       "style",
		Type:       ir.TypeEnum,
		EnumValues: []string{"humanities", "scientific", "legal"},
	}
	checks := CompileChecks(p, "self._style")
	require.Len(t, checks, 2)

	assert.Equal(t, CheckType, checks[0].Kind)
	assert.Equal(t, CheckEnum, checks[1].Kind)
	assert.Equal(t, `self._style not in ["humanities", "scientific", "legal"]`, checks[1].Condition)
	assert.Contains(t, checks[1].Message, "style")
	assert.Contains(t, checks[1].Message, "one of")
}

func TestCompileChecksStringConstraints(t *testing.T) {
	p := &ir.ParameterDefinition{
		Name:      "title",
		Type:      ir.TypeString,
		MinLength: intPtr(3),
		MaxLength: intPtr(10),
		Pattern:   `^[a-z]+$`,
	}
	checks := CompileChecks(p, "self._title")
	require.Len(t, checks, 4)
	assert.Equal(t, CheckType, checks[0].Kind)
	assert.Equal(t, "len(self._title) < 3", checks[1].Condition)
	assert.Equal(t, "len(self._title) > 10", checks[2].Condition)
	assert.Equal(t, CheckPattern, checks[3].Kind)
	assert.Equal(t, `not re.search(r"^[a-z]+$", self._title)`, checks[3].Condition)
	assert.True(t, NeedsRegex(checks))
}

func TestCompileChecksIntegerExcludesBool(t *testing.T) {
	p := &ir.ParameterDefinition{Name: "count", Type: ir.TypeInteger}
	checks := CompileChecks(p, "self._count")
	require.Len(t, checks, 1)
	assert.Contains(t, checks[0].Condition, "isinstance(self._count, bool)")
	assert.Contains(t, checks[0].Message, "integer")
}

func TestCompileChecksArrayShape(t *testing.T) {
	p := &ir.ParameterDefinition{
		Name:     "tags",
		Type:     ir.TypeArray,
		ItemType: ir.TypeString,
		MinItems: intPtr(1),
		MaxItems: intPtr(5),
	}
	checks := CompileChecks(p, "self._tags")
	require.Len(t, checks, 4)
	assert.Equal(t, CheckType, checks[0].Kind)
	assert.Equal(t, "not all(isinstance(item, str) for item in self._tags)", checks[1].Condition)
	assert.Equal(t, "len(self._tags) < 1", checks[2].Condition)
	assert.Equal(t, "len(self._tags) > 5", checks[3].Condition)
}

func TestCompileChecksObjectRequiredKeys(t *testing.T) {
	p := &ir.ParameterDefinition{
		Name:         "config",
		Type:         ir.TypeObject,
		RequiredKeys: []string{"mode", "level"},
	}
	checks := CompileChecks(p, "self._config")
	require.Len(t, checks, 3)
	assert.Equal(t, `"mode" not in self._config`, checks[1].Condition)
	assert.Contains(t, checks[1].Message, "config")
	assert.Contains(t, checks[1].Message, "mode")
	assert.Equal(t, `"level" not in self._config`, checks[2].Condition)
}

func TestRequiredCheck(t *testing.T) {
	p := &ir.ParameterDefinition{Name: "focus", Type: ir.TypeString, Required: true}
	check, ok := RequiredCheck(p, "self._focus")
	require.True(t, ok)
	assert.Equal(t, "self._focus is None", check.Condition)
	assert.Contains(t, check.Message, "focus")
	assert.Contains(t, check.Message, "required")

	p.Required = false
	_, ok = RequiredCheck(p, "self._focus")
	assert.False(t, ok)
}

func TestCompileChecksMessagesNameParameter(t *testing.T) {
	// Every synthesized check must name the offending parameter so the
	// generated test suite can assert on the failure per parameter.
	params := []ir.ParameterDefinition{
		{Name: "alpha", Type: ir.TypeString, MinLength: intPtr(1), Pattern: "x"},
		{Name: "beta", Type: ir.TypeNumber, Minimum: floatPtr(0), Maximum: floatPtr(1)},
		{Name: "gamma", Type: ir.TypeEnum, EnumValues: []string{"a"}},
		{Name: "delta", Type: ir.TypeArray, ItemType: ir.TypeInteger, MinItems: intPtr(1)},
		{Name: "epsilon", Type: ir.TypeObject, RequiredKeys: []string{"k"}},
	}
	for i := range params {
		p := &params[i]
		for _, check := range CompileChecks(p, "value") {
			assert.Contains(t, check.Message, p.Name, "check %s for %s", check.Kind, p.Name)
		}
	}
}
