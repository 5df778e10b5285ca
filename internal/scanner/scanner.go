// Package scanner walks a registry directory of JSON decorator
// definitions, validates each file against the embedded structural
// schema, and produces the IR consumed by the code generation back-ends.
//
// Scanning is partial-failure tolerant: a file that fails to parse or
// validate is rejected with a diagnostic and the scan continues, since
// the registry may be actively edited while the compiler runs.
package scanner

import (
	_ "embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/charmbracelet/log"

	"github.com/promptdec/decforge/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// Error code constants for scan-level (non per-file) failures.
const (
	ErrCodeScanError = "E002" // directory walk error
	ErrCodeNoFiles   = "E003" // no definition files found
	ErrCodeNotFound  = "E005" // registry path not found
	ErrCodeSchema    = "E006" // embedded schema failed to compile
)

// DefinitionExt is the file extension of decorator definition files.
const DefinitionExt = ".json"

// DefaultExcludes are base names skipped by default: the registry keeps a
// fill-in template alongside real definitions.
var DefaultExcludes = []string{"template.json", "registry_entry_template.json"}

// ScanError represents a failure that prevents scanning at all, as
// opposed to a per-file rejection.
type ScanError struct {
	Code    string
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Rejection is a per-file soft failure. The file is skipped; the scan
// continues.
type Rejection struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report is the result of one scan: the IR for every accepted file plus
// diagnostics for every rejected one.
type Report struct {
	Definitions []ir.DecoratorDefinition `json:"definitions"`
	Rejected    []Rejection              `json:"rejected,omitempty"`
	FileCount   int                      `json:"file_count"`
}

// Accepted returns the number of accepted definitions.
func (r *Report) Accepted() int { return len(r.Definitions) }

// Options configures a Scanner.
type Options struct {
	// Exclude lists base names to skip. Nil means DefaultExcludes.
	Exclude []string

	// Logger receives per-file diagnostics. Nil discards them.
	Logger *log.Logger
}

// Scanner validates and compiles definition files. Construct once per
// run; the embedded schema is compiled a single time.
type Scanner struct {
	ctx     *cue.Context
	schema  cue.Value
	exclude map[string]bool
	logger  *log.Logger
}

// New creates a Scanner. Fails only if the embedded schema does not
// compile, which indicates a build problem rather than bad input.
func New(opts Options) (*Scanner, error) {
	ctx := cuecontext.New()
	compiled := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := compiled.Err(); err != nil {
		return nil, &ScanError{Code: ErrCodeSchema, Message: fmt.Sprintf("compiling definition schema: %v", err)}
	}
	schema := compiled.LookupPath(cue.ParsePath("#Definition"))
	if err := schema.Err(); err != nil {
		return nil, &ScanError{Code: ErrCodeSchema, Message: fmt.Sprintf("looking up #Definition: %v", err)}
	}

	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExcludes
	}
	excludeSet := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excludeSet[name] = true
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Scanner{ctx: ctx, schema: schema, exclude: excludeSet, logger: logger}, nil
}

// Scan walks the registry root and returns the IR for every valid
// definition file, in path order. Per-file failures are collected in the
// report; only scan-level problems (missing directory, walk error) are
// returned as an error.
func (s *Scanner) Scan(root string) (*Report, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, &ScanError{Code: ErrCodeNotFound, Message: fmt.Sprintf("registry directory not found: %s", root)}
	}
	if err != nil {
		return nil, &ScanError{Code: ErrCodeNotFound, Message: fmt.Sprintf("accessing registry directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &ScanError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", root)}
	}

	files, err := s.findDefinitionFiles(root)
	if err != nil {
		return nil, &ScanError{Code: ErrCodeScanError, Message: fmt.Sprintf("walking registry: %v", err)}
	}
	if len(files) == 0 {
		return nil, &ScanError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no %s definition files found in %s", DefinitionExt, root)}
	}

	report := &Report{FileCount: len(files)}
	for _, path := range files {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		def, rejectReason := s.compileFile(path, rel)
		if rejectReason != "" {
			report.Rejected = append(report.Rejected, Rejection{Path: rel, Reason: rejectReason})
			s.logger.Warn("definition rejected", "file", rel, "reason", rejectReason)
			continue
		}
		report.Definitions = append(report.Definitions, *def)
		s.logger.Debug("definition accepted", "file", rel, "decorator", def.Name)
	}
	return report, nil
}

// compileFile parses and validates one definition file. Returns the IR or
// a non-empty rejection reason.
func (s *Scanner) compileFile(path, rel string) (*ir.DecoratorDefinition, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Sprintf("reading file: %v", err)
	}

	expr, err := cuejson.Extract(rel, data)
	if err != nil {
		return nil, fmt.Sprintf("invalid JSON: %v", err)
	}
	value := s.ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return nil, fmt.Sprintf("building value: %v", err)
	}

	unified := s.schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Sprintf("schema violation: %v", err)
	}

	def, err := decodeDefinition(data)
	if err != nil {
		return nil, fmt.Sprintf("decoding definition: %v", err)
	}
	def.Category = deriveCategory(rel, def.Category)
	def.SourcePath = rel
	return def, ""
}

// findDefinitionFiles returns all definition files under root, excluding
// configured template files, sorted by path for deterministic output.
func (s *Scanner) findDefinitionFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != DefinitionExt {
			return nil
		}
		if s.exclude[filepath.Base(path)] {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// deriveCategory derives a decorator's category from the first path
// segment under the registry root. A file sitting at the root falls back
// to its declared category, or the "unknown" sentinel.
func deriveCategory(rel, declared string) string {
	if i := strings.IndexByte(rel, '/'); i > 0 {
		return rel[:i]
	}
	if declared != "" {
		return declared
	}
	return "unknown"
}
