package testgen

import (
	"math"
	"strconv"
	"strings"

	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/ir"
)

// fixtureValue is a synthesized constructor argument for one parameter.
type fixtureValue struct {
	// literal is a Python literal or expression producing the value.
	literal string

	// guaranteed reports whether the value is known to satisfy every
	// declared constraint. A heuristic string cannot be guaranteed
	// against an arbitrary pattern, so pattern-constrained parameters
	// without a default or example value are unguaranteed.
	guaranteed bool
}

// synthesize picks a valid value for a parameter: the declared default if
// present, else a value mined from the decorator's examples, else a type
// heuristic honoring the declared constraints.
func synthesize(def *ir.DecoratorDefinition, p *ir.ParameterDefinition) fixtureValue {
	if p.HasDefault() {
		return fixtureValue{literal: compiler.PyValue(p.Default), guaranteed: true}
	}
	for _, ex := range def.Examples {
		if v, ok := ex.Parameters[p.Name]; ok && v != nil {
			return fixtureValue{literal: compiler.PyValue(v), guaranteed: true}
		}
	}
	return heuristic(p)
}

func heuristic(p *ir.ParameterDefinition) fixtureValue {
	switch p.Type {
	case ir.TypeString:
		n := 1
		if p.MinLength != nil && *p.MinLength > n {
			n = *p.MinLength
		}
		if p.MaxLength != nil && n > *p.MaxLength {
			n = *p.MaxLength
		}
		return fixtureValue{
			literal:    compiler.PyString(strings.Repeat("a", n)),
			guaranteed: p.Pattern == "",
		}
	case ir.TypeInteger:
		v := int64(1)
		if p.Minimum != nil {
			v = int64(math.Ceil(*p.Minimum))
		} else if p.Maximum != nil && v > int64(*p.Maximum) {
			v = int64(math.Floor(*p.Maximum))
		}
		return fixtureValue{literal: strconv.FormatInt(v, 10), guaranteed: true}
	case ir.TypeNumber:
		v := 1.0
		if p.Minimum != nil {
			v = *p.Minimum
		} else if p.Maximum != nil && v > *p.Maximum {
			v = *p.Maximum
		}
		return fixtureValue{literal: compiler.PyValue(v), guaranteed: true}
	case ir.TypeBoolean:
		return fixtureValue{literal: "True", guaranteed: true}
	case ir.TypeEnum:
		if len(p.EnumValues) == 0 {
			return fixtureValue{}
		}
		return fixtureValue{literal: compiler.PyString(p.EnumValues[0]), guaranteed: true}
	case ir.TypeArray:
		n := 1
		if p.MinItems != nil && *p.MinItems > n {
			n = *p.MinItems
		}
		if p.MaxItems != nil && n > *p.MaxItems {
			n = *p.MaxItems
		}
		return fixtureValue{
			literal:    "[" + itemSample(p.ItemType) + "] * " + strconv.Itoa(n),
			guaranteed: true,
		}
	case ir.TypeObject:
		if len(p.RequiredKeys) == 0 {
			return fixtureValue{literal: "{}", guaranteed: true}
		}
		pairs := make([]string, len(p.RequiredKeys))
		for i, key := range p.RequiredKeys {
			pairs[i] = compiler.PyString(key) + `: "value"`
		}
		return fixtureValue{
			literal:    "{" + strings.Join(pairs, ", ") + "}",
			guaranteed: true,
		}
	default:
		return fixtureValue{}
	}
}

// itemSample returns a Python literal for one element of an array
// parameter.
func itemSample(t ir.ParamType) string {
	switch t {
	case ir.TypeInteger:
		return "1"
	case ir.TypeNumber:
		return "1.5"
	case ir.TypeBoolean:
		return "True"
	case ir.TypeObject:
		return "{}"
	default:
		return `"a"`
	}
}

// wrongTypeLiteral returns a Python literal guaranteed to fail the
// parameter's type check.
func wrongTypeLiteral(t ir.ParamType) string {
	switch t {
	case ir.TypeString, ir.TypeEnum:
		return "123"
	case ir.TypeInteger, ir.TypeNumber:
		return `"not-a-number"`
	case ir.TypeBoolean:
		return `"yes"`
	case ir.TypeArray:
		return `"not-a-list"`
	case ir.TypeObject:
		return `"not-a-dict"`
	default:
		return "object()"
	}
}
