// Package compiler turns scanned decorator IR into the inputs the code
// generation back-ends consume: validated definitions, target-language
// type signatures, a deduplicated enum registry and per-parameter
// validation check statements.
package compiler

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/promptdec/decforge/internal/ir"
)

// Validation error codes (E100-E199). These are the hard tier: any of
// them aborts generation for the whole run.
const (
	ErrUnsupportedInput = "E100" // unsupported input to Validate

	ErrDuplicateDecorator  = "E101" // duplicate decorator name across files
	ErrEmptyEnum           = "E102" // enum parameter with no values
	ErrUnknownParamType    = "E103" // parameter type not recognized
	ErrBadVersion          = "E104" // version is not valid semver
	ErrDefaultTypeMismatch = "E105" // default value inconsistent with type
	ErrBadPlacement        = "E106" // placement not prepend/append/replace
	ErrEmptyParamName      = "E107" // parameter with empty name
	ErrDefaultNotInEnum    = "E108" // enum default outside declared values
	ErrDuplicateParam      = "E109" // duplicate parameter name in one decorator
	ErrEmptyDecoratorName  = "E110" // decorator with empty name
)

// ValidationError represents a hard IR validation error.
type ValidationError struct {
	Decorator string `json:"decorator,omitempty"`
	Field     string `json:"field"`
	Message   string `json:"message"`
	Code      string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Decorator != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Decorator, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a full set of scanned definitions against the hard-tier
// rules. Returns all errors found (does not fail-fast) so a run surfaces
// every problem at once.
func Validate(defs []ir.DecoratorDefinition) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]string, len(defs)) // name -> source path
	for i := range defs {
		def := &defs[i]
		if strings.TrimSpace(def.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("definitions[%d].name", i),
				Message: "decorator name is required and must be non-empty",
				Code:    ErrEmptyDecoratorName,
			})
			continue
		}
		if prev, dup := seen[def.Name]; dup {
			errs = append(errs, ValidationError{
				Decorator: def.Name,
				Field:     "name",
				Message:   fmt.Sprintf("duplicate decorator name %q (already defined in %s)", def.Name, prev),
				Code:      ErrDuplicateDecorator,
			})
		} else {
			seen[def.Name] = def.SourcePath
		}
		errs = append(errs, validateDefinition(def)...)
	}
	return errs
}

// validateDefinition checks one definition in isolation.
func validateDefinition(def *ir.DecoratorDefinition) []ValidationError {
	var errs []ValidationError

	if _, err := semver.NewVersion(def.Version); err != nil {
		errs = append(errs, ValidationError{
			Decorator: def.Name,
			Field:     "version",
			Message:   fmt.Sprintf("version %q is not valid semver: %v", def.Version, err),
			Code:      ErrBadVersion,
		})
	}

	if def.Transform != nil && def.Transform.Placement != "" {
		if !validPlacement(def.Transform.Placement) {
			errs = append(errs, ValidationError{
				Decorator: def.Name,
				Field:     "transformationTemplate.placement",
				Message:   fmt.Sprintf("placement %q must be one of %v", def.Transform.Placement, ir.ValidPlacements),
				Code:      ErrBadPlacement,
			})
		}
	}

	paramNames := make(map[string]bool, len(def.Parameters))
	for i := range def.Parameters {
		p := &def.Parameters[i]
		field := fmt.Sprintf("parameters[%d]", i)

		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, ValidationError{
				Decorator: def.Name,
				Field:     field + ".name",
				Message:   "parameter name is required and must be non-empty",
				Code:      ErrEmptyParamName,
			})
			continue
		}
		if paramNames[p.Name] {
			errs = append(errs, ValidationError{
				Decorator: def.Name,
				Field:     field + ".name",
				Message:   fmt.Sprintf("duplicate parameter name %q", p.Name),
				Code:      ErrDuplicateParam,
			})
		}
		paramNames[p.Name] = true

		if !p.Type.Valid() {
			errs = append(errs, ValidationError{
				Decorator: def.Name,
				Field:     field + ".type",
				Message:   fmt.Sprintf("parameter %q has unrecognized type %q", p.Name, p.Type),
				Code:      ErrUnknownParamType,
			})
			continue
		}

		if p.Type == ir.TypeEnum && len(p.EnumValues) == 0 {
			errs = append(errs, ValidationError{
				Decorator: def.Name,
				Field:     field + ".enum",
				Message:   fmt.Sprintf("enum parameter %q must declare at least one value", p.Name),
				Code:      ErrEmptyEnum,
			})
		}

		errs = append(errs, validateDefault(def.Name, field, p)...)
	}

	return errs
}

// validateDefault checks that a declared default is consistent with the
// parameter's declared type.
func validateDefault(decorator, field string, p *ir.ParameterDefinition) []ValidationError {
	if p.Default == nil {
		return nil
	}

	mismatch := func(want string) []ValidationError {
		return []ValidationError{{
			Decorator: decorator,
			Field:     field + ".default",
			Message:   fmt.Sprintf("default for parameter %q must be %s, got %T", p.Name, want, p.Default),
			Code:      ErrDefaultTypeMismatch,
		}}
	}

	switch p.Type {
	case ir.TypeString:
		if _, ok := p.Default.(string); !ok {
			return mismatch("a string")
		}
	case ir.TypeBoolean:
		if _, ok := p.Default.(bool); !ok {
			return mismatch("a boolean")
		}
	case ir.TypeInteger:
		f, ok := p.Default.(float64)
		if !ok || f != float64(int64(f)) {
			return mismatch("an integer")
		}
	case ir.TypeNumber:
		if _, ok := p.Default.(float64); !ok {
			return mismatch("a number")
		}
	case ir.TypeEnum:
		s, ok := p.Default.(string)
		if !ok {
			return mismatch("a string")
		}
		for _, v := range p.EnumValues {
			if v == s {
				return nil
			}
		}
		if len(p.EnumValues) > 0 {
			return []ValidationError{{
				Decorator: decorator,
				Field:     field + ".default",
				Message:   fmt.Sprintf("default %q for enum parameter %q is not one of %v", s, p.Name, p.EnumValues),
				Code:      ErrDefaultNotInEnum,
			}}
		}
	case ir.TypeArray:
		if _, ok := p.Default.([]any); !ok {
			return mismatch("an array")
		}
	case ir.TypeObject:
		if _, ok := p.Default.(map[string]any); !ok {
			return mismatch("an object")
		}
	}
	return nil
}

func validPlacement(placement string) bool {
	for _, p := range ir.ValidPlacements {
		if p == placement {
			return true
		}
	}
	return false
}
