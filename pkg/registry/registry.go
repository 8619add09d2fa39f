// Package registry stores template definitions keyed by short tags, scoped to
// the content types each definition is registered under. Bodies are opaque
// here; they are forwarded to the template engine's definition store and only
// interpreted there.
package registry

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-tempo/pkg/contenttype"
)

// Definer is the slice of the template engine the registry depends on: a
// definition store accepting (qualifiedName, body, label) records.
type Definer interface {
	DefineTemplate(qualifiedName, body, label string) error
}

// Definition is the immutable record produced by a registration.
type Definition struct {
	Tag           string
	Owners        []contenttype.Type
	QualifiedName string
	Body          string
	Label         string
}

// Binding pairs a tag with the qualified name it resolves to for one content
// type.
type Binding struct {
	Tag           string
	QualifiedName string
}

type typeBindings struct {
	order []string
	byTag map[string]string
}

// Registry is the process-wide mapping from content type to its ordered
// tag → qualified-name bindings. Per-type entries are created lazily on first
// registration and never deleted.
type Registry struct {
	mu          sync.RWMutex
	types       map[contenttype.Type]*typeBindings
	definitions map[string]Definition
	definer     Definer
}

// New creates an empty registry forwarding definitions to the supplied
// definition store. A nil definer keeps bindings but forwards nothing, which
// is useful when the engine is attached by a coordinating layer later.
func New(definer Definer) *Registry {
	return &Registry{
		types:       make(map[contenttype.Type]*typeBindings),
		definitions: make(map[string]Definition),
		definer:     definer,
	}
}

// QualifiedName derives the globally unique template identifier from an owner
// set and a tag: owner identifiers sorted lexicographically and deduplicated,
// joined with "/", then "!" and the tag. The derivation is a pure function
// over the owner *set*; the "!" terminator keeps it injective because owner
// identifiers never contain it.
func QualifiedName(owners []contenttype.Type, tag string) string {
	names := make([]string, 0, len(owners))
	for _, owner := range owners {
		names = append(names, string(owner))
	}
	sort.Strings(names)
	names = slices.Compact(names)
	return strings.Join(names, "/") + "!" + tag
}

// Register binds tag to a template body under every owner type, deriving the
// qualified name from the sorted owner set. Re-registering a tag for a type
// overwrites the previous binding silently; iterative configuration loading
// relies on last-writer-wins. The definition is forwarded to the engine's
// store once per distinct (qualifiedName, body). An empty label defaults to
// the tag.
func (r *Registry) Register(tag string, owners []contenttype.Type, body, label string) (Definition, error) {
	if tag == "" {
		return Definition{}, fmt.Errorf("registry: tag is required")
	}
	if len(owners) == 0 {
		return Definition{}, fmt.Errorf("registry: at least one owner type is required")
	}
	for _, owner := range owners {
		if owner == "" {
			return Definition{}, fmt.Errorf("registry: owner type is required")
		}
	}
	if label == "" {
		label = tag
	}

	sorted := make([]contenttype.Type, len(owners))
	copy(sorted, owners)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	sorted = slices.Compact(sorted)

	def := Definition{
		Tag:           tag,
		Owners:        sorted,
		QualifiedName: QualifiedName(owners, tag),
		Body:          body,
		Label:         label,
	}

	r.mu.RLock()
	previous, known := r.definitions[def.QualifiedName]
	r.mu.RUnlock()

	// Forward before touching any registry state: a rejected body must leave
	// neither a binding nor a definition behind, so a corrected re-register
	// starts from a clean slate.
	if r.definer != nil && (!known || previous.Body != def.Body) {
		if err := r.definer.DefineTemplate(def.QualifiedName, def.Body, def.Label); err != nil {
			return Definition{}, fmt.Errorf("registry: define template %q: %w", def.QualifiedName, err)
		}
	}

	r.mu.Lock()
	r.definitions[def.QualifiedName] = def
	for _, owner := range sorted {
		bindings, ok := r.types[owner]
		if !ok {
			bindings = &typeBindings{byTag: make(map[string]string)}
			r.types[owner] = bindings
		}
		if _, exists := bindings.byTag[tag]; !exists {
			bindings.order = append(bindings.order, tag)
		}
		bindings.byTag[tag] = def.QualifiedName
	}
	r.mu.Unlock()

	return def, nil
}

// Bindings returns the ordered tag bindings registered directly for t. The
// slice is a copy; mutating it does not affect the registry.
func (r *Registry) Bindings(t contenttype.Type) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bindings, ok := r.types[t]
	if !ok {
		return nil
	}
	out := make([]Binding, 0, len(bindings.order))
	for _, tag := range bindings.order {
		out = append(out, Binding{Tag: tag, QualifiedName: bindings.byTag[tag]})
	}
	return out
}

// Lookup resolves a tag registered directly for t.
func (r *Registry) Lookup(t contenttype.Type, tag string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bindings, ok := r.types[t]
	if !ok {
		return "", false
	}
	qualified, ok := bindings.byTag[tag]
	return qualified, ok
}

// Definition returns the latest definition recorded for a qualified name.
func (r *Registry) Definition(qualifiedName string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[qualifiedName]
	return def, ok
}

// Types lists the content types with at least one registration, sorted.
func (r *Registry) Types() []contenttype.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contenttype.Type, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
