// Package emit stages generated files in memory and flushes them to disk
// in one pass.
//
// Staging decouples generation from I/O: hard failures abort before
// anything touches the output tree, so a failed run never leaves a
// partially written decorator behind. File order is always sorted by path
// so a parallelized pipeline cannot change what gets written.
package emit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// File is one generated output file. Path is slash-separated and relative
// to the output root.
type File struct {
	Path    string
	Content []byte
}

// Plan accumulates generated files for one run.
type Plan struct {
	files map[string][]byte
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{files: make(map[string][]byte)}
}

// Add stages a file. Staging the same path twice is an error: two
// generators claiming one path means the run would be nondeterministic.
func (p *Plan) Add(f File) error {
	if f.Path == "" {
		return fmt.Errorf("emit: empty file path")
	}
	if _, dup := p.files[f.Path]; dup {
		return fmt.Errorf("emit: duplicate output path %q", f.Path)
	}
	p.files[f.Path] = f.Content
	return nil
}

// AddAll stages a batch of files.
func (p *Plan) AddAll(files []File) error {
	for _, f := range files {
		if err := p.Add(f); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of staged files.
func (p *Plan) Len() int { return len(p.files) }

// Files returns the staged files sorted by path.
func (p *Plan) Files() []File {
	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	out := make([]File, len(paths))
	for i, path := range paths {
		out[i] = File{Path: path, Content: p.files[path]}
	}
	return out
}

// Flush writes every staged file under dir, creating directories as
// needed. Each file is written to a temp name and renamed into place so a
// reader never sees a half-written file. Returns the number of files
// written.
func (p *Plan) Flush(dir string) (int, error) {
	written := 0
	for _, f := range p.Files() {
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("emit: creating directory for %s: %w", f.Path, err)
		}
		tmp, err := os.CreateTemp(filepath.Dir(target), ".decforge-*")
		if err != nil {
			return written, fmt.Errorf("emit: staging %s: %w", f.Path, err)
		}
		_, werr := tmp.Write(f.Content)
		cerr := tmp.Close()
		if werr != nil || cerr != nil {
			os.Remove(tmp.Name())
			if werr == nil {
				werr = cerr
			}
			return written, fmt.Errorf("emit: writing %s: %w", f.Path, werr)
		}
		if err := os.Rename(tmp.Name(), target); err != nil {
			os.Remove(tmp.Name())
			return written, fmt.Errorf("emit: renaming %s: %w", f.Path, err)
		}
		written++
	}
	return written, nil
}

// Diff compares the staged files against what exists under dir and
// returns the paths that would change (missing on disk or different
// content), sorted. Used by --check to detect generated-code drift
// without writing anything.
func (p *Plan) Diff(dir string) ([]string, error) {
	var changed []string
	for _, f := range p.Files() {
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		existing, err := os.ReadFile(target)
		if os.IsNotExist(err) {
			changed = append(changed, f.Path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("emit: reading %s: %w", f.Path, err)
		}
		if !bytes.Equal(existing, f.Content) {
			changed = append(changed, f.Path)
		}
	}
	return changed, nil
}
