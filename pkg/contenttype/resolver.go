package contenttype

import (
	"errors"
	"fmt"
)

// CycleError reports that the host-supplied parent relation contains a cycle.
// Type names the content type at which the ancestor walk re-entered itself.
type CycleError struct {
	Type Type
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("contenttype: cyclic hierarchy at %q", string(e.Type))
}

// Resolver computes ancestor chains over a host-supplied Hierarchy.
type Resolver struct {
	hierarchy Hierarchy
}

// NewResolver creates a resolver over the supplied hierarchy. A nil hierarchy
// is treated as empty: every type resolves to a singleton chain.
func NewResolver(hierarchy Hierarchy) *Resolver {
	if hierarchy == nil {
		hierarchy = MapHierarchy(nil)
	}
	return &Resolver{hierarchy: hierarchy}
}

// Chain returns the ancestor chain of t ordered root-first and ending with t
// itself. A root type yields a singleton chain. The parent relation is not
// validated by the host, so the walk keeps a visited set and fails with a
// *CycleError instead of looping when the relation is malformed.
func (r *Resolver) Chain(t Type) ([]Type, error) {
	if t == "" {
		return nil, errors.New("contenttype: type is required")
	}

	visited := map[Type]struct{}{t: {}}
	chain := []Type{t}

	current := t
	for {
		parent, ok := r.hierarchy.Parent(current)
		if !ok {
			break
		}
		if _, seen := visited[parent]; seen {
			return nil, &CycleError{Type: parent}
		}
		visited[parent] = struct{}{}
		chain = append(chain, parent)
		current = parent
	}

	// Walked leaf-to-root; callers want root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
