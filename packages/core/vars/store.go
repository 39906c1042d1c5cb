// Package vars holds the three-tier variable store and resolves
// {{name}} placeholders in request text.
package vars

import (
	"regexp"
	"strings"
	"sync"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Store resolves placeholders against three tiers of named values with
// precedence in-place > global > environment. Unknown names pass through
// verbatim; dynamic names ($uuid, $timestamp, $randomInt) generate a
// fresh value per occurrence.
type Store struct {
	mu       sync.RWMutex
	env      map[string]string
	globals  map[string]string
	inPlace  map[string]string
	dynamics *Registry
}

func NewStore(env map[string]string) *Store {
	if env == nil {
		env = make(map[string]string)
	}
	return &Store{
		env:      env,
		globals:  make(map[string]string),
		inPlace:  make(map[string]string),
		dynamics: NewRegistry(),
	}
}

// SetInPlace adds or overwrites a value in the in-place tier.
func (s *Store) SetInPlace(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inPlace[name] = value
}

// MergeGlobals overwrites/adds entries in the global tier. Entries are
// never removed; handler runs only ever grow or replace values.
func (s *Store) MergeGlobals(globals map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range globals {
		s.globals[k] = v
	}
}

// Globals returns a copy of the global tier for threading into a
// handler run.
func (s *Store) Globals() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.globals))
	for k, v := range s.globals {
		out[k] = v
	}
	return out
}

// Substitute replaces every {{name}} occurrence independently. Each
// replacement is textual; results are never re-scanned.
func (s *Store) Substitute(input string) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])

		if gen, ok := s.dynamics.Lookup(name); ok {
			return gen()
		}

		s.mu.RLock()
		defer s.mu.RUnlock()
		if v, ok := s.inPlace[name]; ok {
			return v
		}
		if v, ok := s.globals[name]; ok {
			return v
		}
		if v, ok := s.env[name]; ok {
			return v
		}

		return match
	})
}
