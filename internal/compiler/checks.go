package compiler

import (
	"fmt"
	"strings"

	"github.com/promptdec/decforge/internal/ir"
)

// CheckKind categorizes a generated validation check.
type CheckKind string

const (
	CheckRequired     CheckKind = "required"
	CheckType         CheckKind = "type"
	CheckEnum         CheckKind = "enum"
	CheckRange        CheckKind = "range"
	CheckLength       CheckKind = "length"
	CheckPattern      CheckKind = "pattern"
	CheckItems        CheckKind = "items"
	CheckRequiredKeys CheckKind = "required_keys"
)

// CheckStatement is one synthesized runtime check. Condition is a Python
// expression that evaluates true when the value is INVALID; Message is the
// ValidationError text raised in that case. Every message names the
// offending parameter so failures are distinguishable per parameter.
type CheckStatement struct {
	Kind      CheckKind `json:"kind"`
	Condition string    `json:"condition"`
	Message   string    `json:"message"`
}

// RequiredCheck returns the presence check for a required parameter, or
// false when the parameter is optional.
func RequiredCheck(p *ir.ParameterDefinition, valueExpr string) (CheckStatement, bool) {
	if !p.Required {
		return CheckStatement{}, false
	}
	return CheckStatement{
		Kind:      CheckRequired,
		Condition: fmt.Sprintf("%s is None", valueExpr),
		Message:   fmt.Sprintf("Parameter '%s' is required.", p.Name),
	}, true
}

// CompileChecks synthesizes the ordered check sequence for one parameter.
// valueExpr is the Python expression holding the value (for generated
// classes, the instance attribute). The generated code must only run
// these when the value is present; absent optional parameters skip
// validation entirely.
//
// Order is fixed: type, enum membership, numeric range, string length,
// pattern, array shape, object shape.
func CompileChecks(p *ir.ParameterDefinition, valueExpr string) []CheckStatement {
	var checks []CheckStatement

	if c, ok := typeCheck(p, valueExpr); ok {
		checks = append(checks, c)
	}

	if p.Type == ir.TypeEnum && len(p.EnumValues) > 0 {
		quoted := make([]string, len(p.EnumValues))
		for i, v := range p.EnumValues {
			quoted[i] = PyString(v)
		}
		checks = append(checks, CheckStatement{
			Kind:      CheckEnum,
			Condition: fmt.Sprintf("%s not in [%s]", valueExpr, strings.Join(quoted, ", ")),
			Message: fmt.Sprintf("Parameter '%s' must be one of: %s.",
				p.Name, strings.Join(p.EnumValues, ", ")),
		})
	}

	if p.Type == ir.TypeInteger || p.Type == ir.TypeNumber {
		if p.Minimum != nil {
			bound := pyNumber(*p.Minimum)
			checks = append(checks, CheckStatement{
				Kind:      CheckRange,
				Condition: fmt.Sprintf("%s < %s", valueExpr, bound),
				Message:   fmt.Sprintf("Parameter '%s' must be at least %s.", p.Name, bound),
			})
		}
		if p.Maximum != nil {
			bound := pyNumber(*p.Maximum)
			checks = append(checks, CheckStatement{
				Kind:      CheckRange,
				Condition: fmt.Sprintf("%s > %s", valueExpr, bound),
				Message:   fmt.Sprintf("Parameter '%s' must be at most %s.", p.Name, bound),
			})
		}
	}

	if p.Type == ir.TypeString {
		if p.MinLength != nil {
			checks = append(checks, CheckStatement{
				Kind:      CheckLength,
				Condition: fmt.Sprintf("len(%s) < %d", valueExpr, *p.MinLength),
				Message:   fmt.Sprintf("Parameter '%s' must be at least %d characters long.", p.Name, *p.MinLength),
			})
		}
		if p.MaxLength != nil {
			checks = append(checks, CheckStatement{
				Kind:      CheckLength,
				Condition: fmt.Sprintf("len(%s) > %d", valueExpr, *p.MaxLength),
				Message:   fmt.Sprintf("Parameter '%s' must be at most %d characters long.", p.Name, *p.MaxLength),
			})
		}
		if p.Pattern != "" {
			checks = append(checks, CheckStatement{
				Kind:      CheckPattern,
				Condition: fmt.Sprintf("not re.search(%s, %s)", PyRegexLiteral(p.Pattern), valueExpr),
				Message:   fmt.Sprintf("Parameter '%s' must match pattern '%s'.", p.Name, p.Pattern),
			})
		}
	}

	if p.Type == ir.TypeArray {
		if item, ok := itemInstanceCheck(p.ItemType); ok {
			checks = append(checks, CheckStatement{
				Kind:      CheckItems,
				Condition: fmt.Sprintf("not all(%s for item in %s)", item, valueExpr),
				Message:   fmt.Sprintf("Parameter '%s' must contain only %s items.", p.Name, p.ItemType),
			})
		}
		if p.MinItems != nil {
			checks = append(checks, CheckStatement{
				Kind:      CheckItems,
				Condition: fmt.Sprintf("len(%s) < %d", valueExpr, *p.MinItems),
				Message:   fmt.Sprintf("Parameter '%s' must have at least %d items.", p.Name, *p.MinItems),
			})
		}
		if p.MaxItems != nil {
			checks = append(checks, CheckStatement{
				Kind:      CheckItems,
				Condition: fmt.Sprintf("len(%s) > %d", valueExpr, *p.MaxItems),
				Message:   fmt.Sprintf("Parameter '%s' must have at most %d items.", p.Name, *p.MaxItems),
			})
		}
	}

	if p.Type == ir.TypeObject {
		for _, key := range p.RequiredKeys {
			checks = append(checks, CheckStatement{
				Kind:      CheckRequiredKeys,
				Condition: fmt.Sprintf("%s not in %s", PyString(key), valueExpr),
				Message:   fmt.Sprintf("Parameter '%s' must include key '%s'.", p.Name, key),
			})
		}
	}

	return checks
}

// NeedsRegex reports whether any check in the sequence requires the
// Python re module.
func NeedsRegex(checks []CheckStatement) bool {
	for _, c := range checks {
		if c.Kind == CheckPattern {
			return true
		}
	}
	return false
}

// typeCheck builds the leading isinstance check for a parameter.
// Booleans are excluded from numeric checks because bool subclasses int
// in Python.
func typeCheck(p *ir.ParameterDefinition, valueExpr string) (CheckStatement, bool) {
	var cond, noun string
	switch p.Type {
	case ir.TypeString, ir.TypeEnum:
		cond = fmt.Sprintf("not isinstance(%s, str)", valueExpr)
		noun = "a string"
	case ir.TypeInteger:
		cond = fmt.Sprintf("not isinstance(%s, int) or isinstance(%s, bool)", valueExpr, valueExpr)
		noun = "an integer"
	case ir.TypeNumber:
		cond = fmt.Sprintf("not isinstance(%s, (int, float)) or isinstance(%s, bool)", valueExpr, valueExpr)
		noun = "a number"
	case ir.TypeBoolean:
		cond = fmt.Sprintf("not isinstance(%s, bool)", valueExpr)
		noun = "a boolean"
	case ir.TypeArray:
		cond = fmt.Sprintf("not isinstance(%s, list)", valueExpr)
		noun = "an array"
	case ir.TypeObject:
		cond = fmt.Sprintf("not isinstance(%s, dict)", valueExpr)
		noun = "an object"
	default:
		return CheckStatement{}, false
	}
	return CheckStatement{
		Kind:      CheckType,
		Condition: cond,
		Message:   fmt.Sprintf("Parameter '%s' must be %s.", p.Name, noun),
	}, true
}

// itemInstanceCheck returns the per-item isinstance expression for a
// declared array item type. Unconstrained item types get no check.
func itemInstanceCheck(t ir.ParamType) (string, bool) {
	switch t {
	case ir.TypeString:
		return "isinstance(item, str)", true
	case ir.TypeInteger:
		return "isinstance(item, int) and not isinstance(item, bool)", true
	case ir.TypeNumber:
		return "isinstance(item, (int, float)) and not isinstance(item, bool)", true
	case ir.TypeBoolean:
		return "isinstance(item, bool)", true
	case ir.TypeObject:
		return "isinstance(item, dict)", true
	default:
		return "", false
	}
}
