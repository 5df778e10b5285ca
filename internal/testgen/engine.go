// Package testgen is the test back-end: it renders one pytest module per
// decorator plus the shared fixture modules, all derived from the same IR
// the class back-end consumes.
//
// The same determinism rule applies as in codegen: every order-sensitive
// piece is precomputed before templates run.
package testgen

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

// DefaultPackageImport is the Python import path of the generated
// decorator package the tests exercise.
const DefaultPackageImport = "decorators"

// DefaultRuntimeImport is the Python module providing ValidationError.
const DefaultRuntimeImport = "promptdec.runtime"

// Config controls the generated tests' external references.
type Config struct {
	// PackageImport is the import path of the generated decorator package.
	PackageImport string

	// RuntimeImport is the import path of the decorator runtime.
	RuntimeImport string
}

func (c *Config) applyDefaults() {
	if c.PackageImport == "" {
		c.PackageImport = DefaultPackageImport
	}
	if c.RuntimeImport == "" {
		c.RuntimeImport = DefaultRuntimeImport
	}
}

type engine struct {
	tmpl *template.Template
}

func newEngine() (*engine, error) {
	funcs := template.FuncMap{
		"pystr":   compiler.PyString,
		"pyvalue": compiler.PyValue,
	}
	tmpl, err := template.New("testgen").
		Option("missingkey=error").
		Funcs(sprig.FuncMap()).
		Funcs(funcs).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &engine{tmpl: tmpl}, nil
}

func (e *engine) render(name string, ctx any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, ctx); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
