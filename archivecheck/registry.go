package archivecheck

import (
	"sort"
	"strings"
	"sync"
)

// Registry maps file suffixes to checkers.
// Suffix matching is exact and case-sensitive: "a.ZIP" is not a zip.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
	}
}

// Register adds c under each of its extensions, replacing any checker
// previously registered for the same suffix.
func (r *Registry) Register(c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range c.Extensions() {
		r.checkers[ext] = c
	}
}

// Unregister removes the checker for an extension
func (r *Registry) Unregister(ext string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, ext)
}

// Lookup returns the checker whose extension is a suffix of path.
// When several registered extensions match, the longest wins.
func (r *Registry) Lookup(path string) (Checker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best    Checker
		bestLen int
	)
	for ext, c := range r.checkers {
		if len(ext) > bestLen && strings.HasSuffix(path, ext) {
			best, bestLen = c, len(ext)
		}
	}
	return best, best != nil
}

// Extensions returns the registered extensions, sorted
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.checkers))
	for ext := range r.checkers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Count returns the number of registered extensions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checkers)
}

// DefaultRegistry returns a registry with the zip, tar and 7z checkers
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(DefaultZipChecker())
	registry.Register(DefaultTarChecker())
	registry.Register(DefaultSevenZipChecker())
	return registry
}

// Global default registry (lazy initialized)
var (
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// GetDefaultRegistry returns the shared default registry
func GetDefaultRegistry() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = DefaultRegistry()
	})
	return globalRegistry
}
