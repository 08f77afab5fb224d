package archivekit

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// FileSelector decides which files a directory run validates.
//
// Example:
//
//	sel, err := archivekit.IncludeExclude([]string{"backups/**"}, []string{"*.tmp.zip"})
//	if err != nil {
//	    return err
//	}
//	v, err := archivekit.New(archivekit.WithSelector(sel))
type FileSelector interface {
	// Match returns true if the file should be validated.
	Match(file *FileInfo) bool

	// TraverseDescendants returns true if a directory's contents should be walked.
	// Only called for directories (file.IsDir == true).
	TraverseDescendants(file *FileInfo) bool
}

// AllSelector matches all files and traverses all directories.
type AllSelector struct{}

func (s AllSelector) Match(file *FileInfo) bool               { return true }
func (s AllSelector) TraverseDescendants(file *FileInfo) bool { return true }

// All returns a selector that matches all files.
func All() FileSelector {
	return AllSelector{}
}

type globSelector struct {
	pattern string
	g       glob.Glob
	anyDir  bool
}

// Glob creates a selector from a glob pattern. Patterns use '/' as the
// separator: "*" stays within one path segment, "**" spans segments, and
// "{a,b}" alternates. A pattern without a '/' is also tried against the
// bare file name, so "*.zip" matches archives at any depth.
func Glob(pattern string) (FileSelector, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w: bad glob pattern %q: %v", ErrInvalidConfig, pattern, err)
	}
	return &globSelector{
		pattern: pattern,
		g:       g,
		anyDir:  !strings.Contains(pattern, "/"),
	}, nil
}

func (s *globSelector) Match(file *FileInfo) bool {
	if s.g.Match(file.RelPath) {
		return true
	}
	return s.anyDir && s.g.Match(file.Name)
}

func (s *globSelector) TraverseDescendants(file *FileInfo) bool {
	return true
}

func (s *globSelector) String() string { return s.pattern }

type andSelector struct {
	selectors []FileSelector
}

// And matches only if ALL selectors match.
func And(selectors ...FileSelector) FileSelector {
	return &andSelector{selectors: selectors}
}

func (s *andSelector) Match(file *FileInfo) bool {
	for _, sel := range s.selectors {
		if !sel.Match(file) {
			return false
		}
	}
	return true
}

func (s *andSelector) TraverseDescendants(file *FileInfo) bool {
	for _, sel := range s.selectors {
		if !sel.TraverseDescendants(file) {
			return false
		}
	}
	return true
}

type orSelector struct {
	selectors []FileSelector
}

// Or matches if ANY selector matches.
func Or(selectors ...FileSelector) FileSelector {
	return &orSelector{selectors: selectors}
}

func (s *orSelector) Match(file *FileInfo) bool {
	for _, sel := range s.selectors {
		if sel.Match(file) {
			return true
		}
	}
	return false
}

func (s *orSelector) TraverseDescendants(file *FileInfo) bool {
	for _, sel := range s.selectors {
		if sel.TraverseDescendants(file) {
			return true
		}
	}
	return false
}

type notSelector struct {
	selector FileSelector
}

// Not inverts a selector's match result.
func Not(selector FileSelector) FileSelector {
	return &notSelector{selector: selector}
}

func (s *notSelector) Match(file *FileInfo) bool {
	return !s.selector.Match(file)
}

func (s *notSelector) TraverseDescendants(file *FileInfo) bool {
	return true
}

type funcSelector struct {
	matchFn func(*FileInfo) bool
}

// FuncSelector creates a selector from a custom function.
//
//	FuncSelector(func(f *archivekit.FileInfo) bool {
//	    return f.Size < 1<<30
//	})
func FuncSelector(fn func(*FileInfo) bool) FileSelector {
	return &funcSelector{matchFn: fn}
}

func (s *funcSelector) Match(file *FileInfo) bool               { return s.matchFn(file) }
func (s *funcSelector) TraverseDescendants(file *FileInfo) bool { return true }

// IncludeExclude builds a selector that accepts files matching any include
// pattern (all files when include is empty) and no exclude pattern.
func IncludeExclude(include, exclude []string) (FileSelector, error) {
	inc, err := globs(include)
	if err != nil {
		return nil, err
	}
	exc, err := globs(exclude)
	if err != nil {
		return nil, err
	}

	var sel FileSelector = All()
	if len(inc) > 0 {
		sel = Or(inc...)
	}
	if len(exc) > 0 {
		sel = And(sel, Not(Or(exc...)))
	}
	return sel, nil
}

func globs(patterns []string) ([]FileSelector, error) {
	var out []FileSelector
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := Glob(p)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
