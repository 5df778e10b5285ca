package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptdec/decforge/internal/ir"
)

func TestPythonTypeScalars(t *testing.T) {
	tests := []struct {
		paramType ir.ParamType
		want      string
	}{
		{ir.TypeString, "str"},
		{ir.TypeInteger, "int"},
		{ir.TypeNumber, "float"},
		{ir.TypeBoolean, "bool"},
	}
	for _, tt := range tests {
		t.Run(string(tt.paramType), func(t *testing.T) {
			sig := PythonType(&ir.ParameterDefinition{Name: "p", Type: tt.paramType})
			assert.Equal(t, tt.want, sig.Annotation)
			assert.Empty(t, sig.TypingImports)
		})
	}
}

func TestPythonTypeEnum(t *testing.T) {
	sig := PythonType(&ir.ParameterDefinition{
		Name:       "style",
		Type:       ir.TypeEnum,
		EnumValues: []string{"humanities", "scientific", "legal"},
	})
	assert.Equal(t, `Literal["humanities", "scientific", "legal"]`, sig.Annotation)
	assert.Equal(t, []string{"Literal"}, sig.TypingImports)
}

func TestPythonTypeArray(t *testing.T) {
	sig := PythonType(&ir.ParameterDefinition{Name: "tags", Type: ir.TypeArray, ItemType: ir.TypeString})
	assert.Equal(t, "List[str]", sig.Annotation)
	assert.Equal(t, []string{"List"}, sig.TypingImports)

	sig = PythonType(&ir.ParameterDefinition{Name: "tags", Type: ir.TypeArray})
	assert.Equal(t, "List[Any]", sig.Annotation)
	assert.Equal(t, []string{"Any", "List"}, sig.TypingImports)
}

func TestPythonTypeObject(t *testing.T) {
	sig := PythonType(&ir.ParameterDefinition{Name: "config", Type: ir.TypeObject})
	assert.Equal(t, "Dict[str, Any]", sig.Annotation)
	assert.Equal(t, []string{"Any", "Dict"}, sig.TypingImports)
}

func TestPyString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`with "quotes"`, `"with \"quotes\""`},
		{`back\slash`, `"back\\slash"`},
		{"line\nbreak", `"line\nbreak"`},
		{"tab\there", `"tab\there"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PyString(tt.in))
	}
}

func TestPyValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "None"},
		{"true", true, "True"},
		{"false", false, "False"},
		{"string", "hi", `"hi"`},
		{"integral number", float64(2), "2"},
		{"fractional number", 2.5, "2.5"},
		{"array", []any{"a", float64(1), true}, `["a", 1, True]`},
		{"object sorts keys", map[string]any{"b": float64(2), "a": float64(1)}, `{"a": 1, "b": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PyValue(tt.in))
		})
	}
}
