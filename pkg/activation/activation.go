// Package activation derives the effective template set for an editing
// session from its content type's ancestor chain and installs it wholesale.
// A session's active set is never patched in place and never inherits lazily:
// every activation event rebuilds it from the registry's current contents.
package activation

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-tempo/pkg/contenttype"
	"github.com/goliatone/go-tempo/pkg/registry"
)

// ActiveSet is the merged, override-resolved tag → qualified-name mapping
// available to one session. Order follows the ancestor chain root-to-leaf and
// registration order within a type; a descendant override replaces its
// ancestor's binding in place so the tag list stays stable.
type ActiveSet struct {
	order []string
	byTag map[string]string
}

// NewActiveSet returns an empty set.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{byTag: make(map[string]string)}
}

func (s *ActiveSet) put(tag, qualifiedName string) {
	if _, exists := s.byTag[tag]; !exists {
		s.order = append(s.order, tag)
	}
	s.byTag[tag] = qualifiedName
}

// Len reports the number of active bindings.
func (s *ActiveSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Tags lists the active tags in merge order.
func (s *ActiveSet) Tags() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Lookup resolves an active tag to its qualified name.
func (s *ActiveSet) Lookup(tag string) (string, bool) {
	if s == nil {
		return "", false
	}
	qualifiedName, ok := s.byTag[tag]
	return qualifiedName, ok
}

// Bindings returns the merged bindings in merge order.
func (s *ActiveSet) Bindings() []registry.Binding {
	if s == nil {
		return nil
	}
	out := make([]registry.Binding, 0, len(s.order))
	for _, tag := range s.order {
		out = append(out, registry.Binding{Tag: tag, QualifiedName: s.byTag[tag]})
	}
	return out
}

// Target receives a freshly built ActiveSet. Sessions implement this; the
// manager stays decoupled from the session package through it.
type Target interface {
	InstallActiveSet(set *ActiveSet)
}

// Manager rebuilds and installs active sets on activation events.
type Manager struct {
	resolver *contenttype.Resolver
	registry *registry.Registry
}

// NewManager wires the ancestor resolver and the registry the merge reads.
func NewManager(resolver *contenttype.Resolver, reg *registry.Registry) *Manager {
	return &Manager{resolver: resolver, registry: reg}
}

// Activate computes the ancestor chain of current, merges the chain's
// bindings root-to-leaf (descendants override ancestors per tag), and
// installs the result on the target, replacing whatever set was installed
// before. The merge is built fully before installation, so a failed
// activation leaves the target's previous set untouched. Repeated calls for
// the same content type are idempotent. A chain with no registrations
// anywhere installs an empty set; that is not an error.
func (m *Manager) Activate(target Target, current contenttype.Type) error {
	if m.resolver == nil {
		return errors.New("activation: resolver is required")
	}
	if m.registry == nil {
		return errors.New("activation: registry is required")
	}
	if target == nil {
		return errors.New("activation: target is required")
	}

	chain, err := m.resolver.Chain(current)
	if err != nil {
		return fmt.Errorf("activation: resolve chain for %q: %w", string(current), err)
	}

	set := NewActiveSet()
	for _, t := range chain {
		for _, binding := range m.registry.Bindings(t) {
			set.put(binding.Tag, binding.QualifiedName)
		}
	}

	target.InstallActiveSet(set)
	return nil
}
