package compiler

import (
	"fmt"
	"strconv"

	"github.com/promptdec/decforge/internal/ir"
)

// EnumRegistry accumulates enum definitions across a generation run.
//
// Enums are keyed by (decorator, parameter): two decorators declaring a
// parameter with the same name get distinct generated types, never a
// shared one. Registration order is preserved so generated output does
// not depend on map iteration order. Not safe for concurrent use; a
// parallel pipeline must merge under a single writer.
type EnumRegistry struct {
	defs  []ir.EnumDefinition
	byKey map[enumKey]int
	used  map[string]bool
}

type enumKey struct {
	decorator string
	parameter string
}

// NewEnumRegistry returns an empty registry.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{
		byKey: make(map[enumKey]int),
		used:  make(map[string]bool),
	}
}

// Register records the enum for one (decorator, parameter) pair and
// returns its definition. Registering the same pair twice returns the
// existing definition. Values are deduplicated preserving first
// occurrence; generated names get a numeric suffix on collision.
func (r *EnumRegistry) Register(decorator, parameter, description string, values []string) ir.EnumDefinition {
	key := enumKey{decorator: decorator, parameter: parameter}
	if idx, ok := r.byKey[key]; ok {
		return r.defs[idx]
	}

	name := ir.PascalCase(decorator) + ir.PascalCase(parameter) + "Enum"
	unique := name
	for n := 2; r.used[unique]; n++ {
		unique = name + strconv.Itoa(n)
	}
	r.used[unique] = true

	def := ir.EnumDefinition{
		DecoratorName: decorator,
		ParameterName: parameter,
		GeneratedName: unique,
		Description:   description,
		Values:        dedupe(values),
	}
	r.byKey[key] = len(r.defs)
	r.defs = append(r.defs, def)
	return def
}

// Lookup returns the enum registered for a (decorator, parameter) pair.
func (r *EnumRegistry) Lookup(decorator, parameter string) (ir.EnumDefinition, bool) {
	idx, ok := r.byKey[enumKey{decorator: decorator, parameter: parameter}]
	if !ok {
		return ir.EnumDefinition{}, false
	}
	return r.defs[idx], true
}

// Definitions returns all registered enums in registration order.
func (r *EnumRegistry) Definitions() []ir.EnumDefinition {
	out := make([]ir.EnumDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// CollectEnums registers every enum-typed parameter of every definition,
// in definition then declaration order, and returns the filled registry.
func CollectEnums(defs []ir.DecoratorDefinition) *EnumRegistry {
	reg := NewEnumRegistry()
	for i := range defs {
		def := &defs[i]
		for j := range def.Parameters {
			p := &def.Parameters[j]
			if p.Type != ir.TypeEnum {
				continue
			}
			desc := p.Description
			if desc == "" {
				desc = fmt.Sprintf("Allowed values for the %s parameter of %s.", p.Name, def.Name)
			}
			reg.Register(def.Name, p.Name, desc, p.EnumValues)
		}
	}
	return reg
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
