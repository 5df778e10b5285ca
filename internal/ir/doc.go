// Package ir provides the intermediate representation for decorator
// definitions.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps IR
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - IR records are value types created once per scan and never mutated
//     by the back-ends.
//   - Parameter and enum ordering always follows declaration order in the
//     source definition, never map iteration order.
//   - No wall-clock timestamps anywhere; generated output must be a pure
//     function of the IR.
package ir
