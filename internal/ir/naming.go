package ir

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser capitalizes the first letter of a word without folding the
// rest, so acronyms like "JSON" survive PascalCase conversion.
var titleCaser = cases.Title(language.English, cases.NoLower)

// splitWords breaks an identifier into its component words. Boundaries are
// non-alphanumeric runes, lower-to-upper transitions and the last upper
// rune of an acronym run ("HTTPServer" -> "HTTP", "Server").
func splitWords(s string) []string {
	var words []string
	var cur []rune
	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			if prevLower || (prevUpper && nextLower) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

// PascalCase converts an identifier to PascalCase ("outputFormat" ->
// "OutputFormat", "step-by-step" -> "StepByStep").
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		b.WriteString(titleCaser.String(w))
	}
	return b.String()
}

// SnakeCase converts an identifier to snake_case ("StepByStep" ->
// "step_by_step"). Used for generated file and module names.
func SnakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// PythonIdent sanitizes a name into a valid Python identifier. Parameter
// names are validated upstream, so this is a guard against odd but legal
// JSON names rather than a general-purpose transliterator.
func PythonIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// EnumMemberName converts an enum value to an UPPER_SNAKE Python enum
// member name ("step-by-step" -> "STEP_BY_STEP").
func EnumMemberName(value string) string {
	name := strings.ToUpper(SnakeCase(value))
	if name == "" {
		return "EMPTY"
	}
	if unicode.IsDigit(rune(name[0])) {
		return "VALUE_" + name
	}
	return name
}

// reservedAttributes are attribute names already claimed by the generated
// base class. A parameter with one of these names keeps its original name
// as the serialized key but exposes a renamed accessor.
var reservedAttributes = map[string]bool{
	"name":        true,
	"version":     true,
	"description": true,
	"category":    true,
	"parameters":  true,
	"metadata":    true,
	"apply":       true,
	"to_dict":     true,
	"from_dict":   true,
	"to_string":   true,
}

// IsReservedAttribute reports whether name collides with a base-class
// attribute of the generated decorator classes.
func IsReservedAttribute(name string) bool {
	return reservedAttributes[name]
}

// AccessorName returns the Python accessor name for a parameter, renaming
// it when the declared name collides with a reserved base attribute.
func AccessorName(name string) string {
	ident := PythonIdent(name)
	if IsReservedAttribute(ident) {
		return ident + "_param"
	}
	return ident
}
