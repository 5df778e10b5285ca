// Package codegen is the class back-end: it renders one Python source
// file per decorator, the shared enum module and the package index from
// scanned IR.
//
// Determinism is the governing constraint: identical IR must produce
// byte-identical files across runs. Everything order-sensitive is
// precomputed in declaration or sorted order before templates run, and
// templates never iterate Go maps.
package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/promptdec/decforge/internal/compiler"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultRuntimeImport is the Python module providing BaseDecorator and
// ValidationError to generated classes.
const DefaultRuntimeImport = "promptdec.runtime"

// Config controls the generated code's external references.
type Config struct {
	// RuntimeImport is the Python import path of the decorator runtime.
	RuntimeImport string
}

func (c *Config) applyDefaults() {
	if c.RuntimeImport == "" {
		c.RuntimeImport = DefaultRuntimeImport
	}
}

// Engine parses the embedded template set once and renders named
// templates against precomputed contexts.
type Engine struct {
	tmpl *template.Template
}

// NewEngine parses the embedded templates with the sprig function map
// plus the Python literal helpers.
func NewEngine() (*Engine, error) {
	funcs := template.FuncMap{
		"pystr":   compiler.PyString,
		"pyvalue": compiler.PyValue,
	}
	tmpl, err := template.New("codegen").
		Option("missingkey=error").
		Funcs(sprig.FuncMap()).
		Funcs(funcs).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Engine{tmpl: tmpl}, nil
}

// Render executes one named template and returns its output bytes.
func (e *Engine) Render(name string, ctx any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, ctx); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
