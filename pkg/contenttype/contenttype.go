// Package contenttype models the kinds of editable content a host
// environment exposes and the parent relation between them. Content types
// form a forest: each type has at most one parent, and the relation is
// supplied by the host, read-only to this module.
package contenttype

// Type identifies a kind of editable content, e.g. "c" or "text".
type Type string

// Hierarchy supplies the parent relation for content types. Implementations
// report the parent of a type and whether one exists; a type without a parent
// is a root.
type Hierarchy interface {
	Parent(t Type) (Type, bool)
}

// MapHierarchy is a map-backed Hierarchy. A nil map is a valid hierarchy in
// which every type is a root.
type MapHierarchy map[Type]Type

// Parent returns the parent recorded for t, if any.
func (m MapHierarchy) Parent(t Type) (Type, bool) {
	parent, ok := m[t]
	return parent, ok
}
