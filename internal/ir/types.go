package ir

// ParamType is the declared type of a decorator parameter.
type ParamType string

// Recognized parameter types.
const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeEnum    ParamType = "enum"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

// ValidParamTypes lists every recognized parameter type in a stable order.
var ValidParamTypes = []ParamType{
	TypeString,
	TypeInteger,
	TypeNumber,
	TypeBoolean,
	TypeEnum,
	TypeArray,
	TypeObject,
}

// Valid reports whether t is a recognized parameter type.
func (t ParamType) Valid() bool {
	for _, v := range ValidParamTypes {
		if t == v {
			return true
		}
	}
	return false
}

// DecoratorDefinition is the IR unit produced by the scanner and consumed
// by both code generation back-ends.
type DecoratorDefinition struct {
	Name        string                  `json:"name"`
	Version     string                  `json:"version"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Parameters  []ParameterDefinition   `json:"parameters,omitempty"`
	Transform   *TransformationTemplate `json:"transformation_template,omitempty"`
	Examples    []Example               `json:"examples,omitempty"`

	// SourcePath is the registry-relative path of the definition file,
	// kept for diagnostics only. It never influences generated output.
	SourcePath string `json:"source_path,omitempty"`
}

// ParameterDefinition is one declared parameter, with constraints flattened
// out of the source file's validation block.
type ParameterDefinition struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required,omitempty"`

	// Default is the JSON-decoded default value, or nil if absent.
	Default any `json:"default,omitempty"`

	// EnumValues holds the allowed values for enum-typed parameters,
	// in declaration order.
	EnumValues []string `json:"enum,omitempty"`

	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`

	// ItemType is the declared element type for array parameters.
	// Empty means unconstrained ("any").
	ItemType ParamType `json:"item_type,omitempty"`
	MinItems *int      `json:"min_items,omitempty"`
	MaxItems *int      `json:"max_items,omitempty"`

	// RequiredKeys lists keys that must be present on object parameters.
	RequiredKeys []string `json:"required_keys,omitempty"`
}

// HasDefault reports whether the parameter declares a default value.
func (p *ParameterDefinition) HasDefault() bool {
	return p.Default != nil
}

// TransformationTemplate describes how a decorator turns its parameters
// into instruction text.
type TransformationTemplate struct {
	Instruction string `json:"instruction"`

	// ParameterMapping maps a parameter name to its substitution rule.
	// Back-ends must iterate parameters in declaration order and look the
	// mapping up per parameter, never range over this map.
	ParameterMapping map[string]ParameterMapping `json:"parameter_mapping,omitempty"`

	// Placement is one of "prepend", "append" or "replace".
	Placement string `json:"placement,omitempty"`

	CompositionBehavior string `json:"composition_behavior,omitempty"`
}

// ValidPlacements lists the allowed placement policies.
var ValidPlacements = []string{"prepend", "append", "replace"}

// ParameterMapping is the substitution rule for one parameter inside a
// transformation template. Exactly one of ValueMap or Format is used; a
// ValueMap translates specific values to instruction fragments while a
// Format interpolates the value into a fragment via the {value} marker.
type ParameterMapping struct {
	ValueMap map[string]string `json:"value_map,omitempty"`
	Format   string            `json:"format,omitempty"`
}

// Example is one declared usage example for a decorator.
type Example struct {
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Prompt      string         `json:"prompt,omitempty"`
	Expected    string         `json:"expected,omitempty"`
}

// EnumDefinition is a derived record for one enum-typed parameter. Enums
// are never shared across decorators; each (decorator, parameter) pair
// gets its own generated type.
type EnumDefinition struct {
	DecoratorName string   `json:"decorator_name"`
	ParameterName string   `json:"parameter_name"`
	GeneratedName string   `json:"generated_name"`
	Description   string   `json:"description,omitempty"`
	Values        []string `json:"values"`
}
