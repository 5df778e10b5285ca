package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPyRegexLiteralRawPreferred(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`^[a-z]+$`, `r"^[a-z]+$"`},
		{`\d{3}-\d{4}`, `r"\d{3}-\d{4}"`},
		{`a\.b`, `r"a\.b"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PyRegexLiteral(tt.in))
		})
	}
}

func TestPyRegexLiteralFallsBackToEscaped(t *testing.T) {
	// A raw string cannot contain a double quote.
	assert.Equal(t, `"say \"hi\""`, PyRegexLiteral(`say "hi"`))

	// A raw string cannot end with a backslash; the conventional literal
	// doubles it so the regex still sees a single backslash.
	assert.Equal(t, `"end\\"`, PyRegexLiteral(`end\`))

	// Control characters force the escaped form.
	assert.Equal(t, `"a\nb"`, PyRegexLiteral("a\nb"))
}
