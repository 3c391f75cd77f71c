// Package router implements PathRouter: an immutable set of
// (path-pattern, value) endpoints supporting best-match lookup with
// variable extraction, conflict detection at build time, and a trie-backed
// prefix index over the non-literal patterns (spec §4.2).
package router

import (
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/dispatchkit/router/pattern"
)

// Endpoint pairs a compiled pattern with an opaque value.
type Endpoint[V any] struct {
	Pattern *pattern.Pattern
	Value   V
}

// MatchingEndpoint is an Endpoint returned from a lookup, together with
// the variables captured for it.
type MatchingEndpoint[V any] struct {
	Pattern   *pattern.Pattern
	Value     V
	Variables pattern.Vars
}

// Builder accumulates endpoints before Build finalizes an immutable
// Router. Builder methods serialize internally (spec §5: "reasonable when
// multiple setup tasks contribute"); it becomes inert once Build has run.
type Builder[V any] struct {
	mu          sync.Mutex
	bySignature map[string]*pattern.Pattern
	exact       map[string]Endpoint[V]
	variable    []Endpoint[V]
	built       bool
}

// NewBuilder returns an empty Builder.
func NewBuilder[V any]() *Builder[V] {
	return &Builder[V]{
		bySignature: make(map[string]*pattern.Pattern),
		exact:       make(map[string]Endpoint[V]),
	}
}

// Add registers a (pattern, value) endpoint. It fails with an error
// naming the conflicting pattern if an equivalent pattern (under
// pattern.SamePaths) was already added.
func (b *Builder[V]) Add(p *pattern.Pattern, value V) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built {
		return fmt.Errorf("router: builder already built, cannot add %q", p.Source())
	}

	sig := p.MatcherString()
	if existing, ok := b.bySignature[sig]; ok {
		return fmt.Errorf("router: conflict: pattern %q matches the same paths as already-added pattern %q", p.Source(), existing.Source())
	}
	b.bySignature[sig] = p

	if p.IsLiteral() {
		b.exact[p.LiteralPrefix()] = Endpoint[V]{Pattern: p, Value: value}
	} else {
		b.variable = append(b.variable, Endpoint[V]{Pattern: p, Value: value})
	}

	return nil
}

// Build finalizes the Router. cmp orders the variable-containing
// endpoints for best-match tie-breaking, most-specific first; when nil,
// pattern.Compare is used. Build marks the builder inert; later calls to
// Add return an error and never affect the returned Router.
func (b *Builder[V]) Build(cmp func(a, b *pattern.Pattern) int) *Router[V] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cmp == nil {
		cmp = pattern.Compare
	}

	b.built = true

	variable := make([]Endpoint[V], len(b.variable))
	copy(variable, b.variable)
	sort.SliceStable(variable, func(i, j int) bool {
		return cmp(variable[i].Pattern, variable[j].Pattern) < 0
	})

	exact := make(map[string]Endpoint[V], len(b.exact))
	for k, v := range b.exact {
		exact[k] = v
	}

	prefixes := make([]string, len(variable))
	for i, ep := range variable {
		prefixes[i] = ep.Pattern.LiteralPrefix()
	}

	return &Router[V]{
		exact:    exact,
		variable: variable,
		trie:     buildTrie(prefixes),
	}
}

// Router is an immutable set of endpoints. All read operations are
// lock-free; a Router is safe for concurrent use by any number of goroutines.
type Router[V any] struct {
	exact    map[string]Endpoint[V]
	variable []Endpoint[V]
	trie     *trie
}

// Find returns the best match for path: an exact literal match always wins
// over any parameterized pattern; otherwise the first variable-endpoint
// whose literalPrefix is a prefix of path and whose pattern actually
// matches, in builder-imposed order.
func (r *Router[V]) Find(path string) (MatchingEndpoint[V], bool) {
	if ep, ok := r.exact[path]; ok {
		return MatchingEndpoint[V]{Pattern: ep.Pattern, Value: ep.Value}, true
	}

	for _, idx := range r.trie.query(path) {
		ep := r.variable[idx]
		if vars, ok := ep.Pattern.Match(path); ok {
			return MatchingEndpoint[V]{Pattern: ep.Pattern, Value: ep.Value, Variables: vars}, true
		}
	}

	return MatchingEndpoint[V]{}, false
}

// FindAll yields every endpoint matching path, in the same order Find
// would prefer them: the exact match (if any) first, then variable
// endpoints in builder-imposed order.
func (r *Router[V]) FindAll(path string) iter.Seq[MatchingEndpoint[V]] {
	return func(yield func(MatchingEndpoint[V]) bool) {
		if ep, ok := r.exact[path]; ok {
			if !yield(MatchingEndpoint[V]{Pattern: ep.Pattern, Value: ep.Value}) {
				return
			}
		}

		for _, idx := range r.trie.query(path) {
			ep := r.variable[idx]
			vars, ok := ep.Pattern.Match(path)
			if !ok {
				continue
			}
			if !yield(MatchingEndpoint[V]{Pattern: ep.Pattern, Value: ep.Value, Variables: vars}) {
				return
			}
		}
	}
}
