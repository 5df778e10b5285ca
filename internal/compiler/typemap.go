package compiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/promptdec/decforge/internal/ir"
)

// Signature is the mapped Python type for one parameter.
type Signature struct {
	// Annotation is the Python type annotation, e.g. `List[str]` or
	// `Literal["humanities", "scientific", "legal"]`.
	Annotation string

	// TypingImports lists names needed from the typing module, sorted.
	TypingImports []string
}

// PythonType maps a parameter's declared type to its Python signature.
// Pure function of the parameter; enum parameters map to a literal union
// of their declared values.
func PythonType(p *ir.ParameterDefinition) Signature {
	imports := map[string]bool{}
	ann := annotate(p, imports)

	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)
	return Signature{Annotation: ann, TypingImports: names}
}

func annotate(p *ir.ParameterDefinition, imports map[string]bool) string {
	switch p.Type {
	case ir.TypeString:
		return "str"
	case ir.TypeInteger:
		return "int"
	case ir.TypeNumber:
		return "float"
	case ir.TypeBoolean:
		return "bool"
	case ir.TypeEnum:
		imports["Literal"] = true
		quoted := make([]string, len(p.EnumValues))
		for i, v := range p.EnumValues {
			quoted[i] = PyString(v)
		}
		return "Literal[" + strings.Join(quoted, ", ") + "]"
	case ir.TypeArray:
		imports["List"] = true
		return "List[" + itemAnnotation(p.ItemType, imports) + "]"
	case ir.TypeObject:
		imports["Dict"] = true
		imports["Any"] = true
		return "Dict[str, Any]"
	default:
		imports["Any"] = true
		return "Any"
	}
}

// itemAnnotation maps an array item type, defaulting to Any when the
// items declaration is absent.
func itemAnnotation(t ir.ParamType, imports map[string]bool) string {
	switch t {
	case ir.TypeString:
		return "str"
	case ir.TypeInteger:
		return "int"
	case ir.TypeNumber:
		return "float"
	case ir.TypeBoolean:
		return "bool"
	case ir.TypeObject:
		imports["Dict"] = true
		imports["Any"] = true
		return "Dict[str, Any]"
	default:
		imports["Any"] = true
		return "Any"
	}
}

// PyString renders s as a double-quoted Python string literal.
func PyString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// PyValue renders a JSON-decoded value as a Python literal. Object keys
// are sorted because JSON decoding loses source order; sorting keeps the
// rendering deterministic.
func PyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case string:
		return PyString(val)
	case float64:
		return pyNumber(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = PyValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = PyString(k) + ": " + PyValue(val[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return PyString(fmt.Sprintf("%v", val))
	}
}

// pyNumber renders a JSON number, preferring the integer form when the
// value is integral so that a source `2` does not become `2.0`.
func pyNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
