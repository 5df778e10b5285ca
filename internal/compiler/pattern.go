package compiler

import "strings"

// PyRegexLiteral renders a regex pattern authored in JSON as a Python
// string literal suitable for re.search.
//
// JSON decoding has already resolved JSON-level escapes, so the input is
// the literal pattern text. Python raw strings are preferred because they
// preserve regex backslashes verbatim; a raw literal is impossible when
// the pattern contains a double quote, a control character, or ends with
// a backslash, in which case a conventional literal with doubled
// backslashes is emitted instead. Both forms denote the same pattern.
//
// This is a pure function so the escaping rules stay unit-testable in
// isolation.
func PyRegexLiteral(pattern string) string {
	if rawable(pattern) {
		return `r"` + pattern + `"`
	}
	return PyString(pattern)
}

func rawable(pattern string) bool {
	if strings.HasSuffix(pattern, `\`) {
		return false
	}
	for _, r := range pattern {
		if r == '"' || r < 0x20 {
			return false
		}
	}
	return true
}
