// Package engine defines the template engine collaborator: the definition
// store that owns template bodies and performs the actual expansion. The core
// drives it through this narrow interface; a pongo2-backed implementation is
// provided so the module works out of the box.
package engine

import (
	"context"

	"github.com/goliatone/go-tempo/pkg/activation"
)

// Match identifies a complete, currently-active tag found directly before
// the cursor.
type Match struct {
	Tag           string
	QualifiedName string
}

// Engine owns template bodies and expansion mechanics. Bodies are opaque to
// every other package; only the engine interprets them.
type Engine interface {
	// DefineTemplate stores a template body under its qualified name.
	// Redefining with an identical body is a no-op; a changed body replaces
	// the stored template.
	DefineTemplate(qualifiedName, body, label string) error

	// ExpandOverRegion expands the named template consuming regionText as
	// the template's captured content and returns the replacement text.
	ExpandOverRegion(ctx context.Context, qualifiedName, regionText string) (string, error)

	// ExpandAtCursor expands the named template with no captured region and
	// returns the text to insert at the cursor.
	ExpandAtCursor(ctx context.Context, qualifiedName string) (string, error)

	// TryCompleteAtCursor reports whether the text immediately preceding the
	// cursor ends with a complete tag from the active set that this engine
	// has a definition for.
	TryCompleteAtCursor(textBeforeCursor string, set *activation.ActiveSet) (Match, bool)
}
