package ir

// Version constants for the compiler and its output contract.
const (
	// CompilerVersion is the decforge compiler version.
	CompilerVersion = "0.2.0"

	// MinDecoratorVersion is the floor accepted by generated
	// is_compatible_with_version checks.
	MinDecoratorVersion = "1.0.0"
)
