package tempo

import (
	"context"

	"github.com/goliatone/go-tempo/pkg/contenttype"
	"github.com/goliatone/go-tempo/pkg/dispatch"
	"github.com/goliatone/go-tempo/pkg/expander"
	"github.com/goliatone/go-tempo/pkg/session"
)

// ContentType identifies a content type in the host's hierarchy.
type ContentType = contenttype.Type

// Hierarchy is the host-supplied parent relation over content types.
type Hierarchy = contenttype.Hierarchy

// MapHierarchy is a map-backed Hierarchy for hosts with a static relation.
type MapHierarchy = contenttype.MapHierarchy

// Expander coordinates template registration, activation, and dispatch.
type Expander = expander.Expander

// Session is one editing session over a host buffer.
type Session = session.Session

// Buffer is the host's editing surface.
type Buffer = session.Buffer

// Result describes a completed dispatch.
type Result = dispatch.Result

// Outcome classifies how a dispatch concluded.
type Outcome = dispatch.Outcome

// Dispatch outcomes re-exported for callers that only import the root package.
const (
	OutcomeExpanded    = dispatch.OutcomeExpanded
	OutcomeNoTemplates = dispatch.OutcomeNoTemplates
	OutcomeCancelled   = dispatch.OutcomeCancelled
	OutcomePassThrough = dispatch.OutcomePassThrough
)

// New exposes the expander constructor from the top-level module.
func New(options ...expander.Option) *Expander {
	return expander.New(options...)
}

// WithHierarchy supplies the host's content-type parent relation.
func WithHierarchy(hierarchy Hierarchy) expander.Option {
	return expander.WithHierarchy(hierarchy)
}

// WithFallback supplies the host's default-action hook used by pass-through
// dispatch outcomes.
func WithFallback(fallback session.Fallback) session.Option {
	return session.WithFallback(fallback)
}

// ExpandOnce is the simplest entry point: build an expander, activate a
// session for contentType, and run a single dispatch over buffer.
func ExpandOnce(ctx context.Context, buffer Buffer, contentType ContentType, options ...expander.Option) (Result, error) {
	exp := expander.New(options...)
	sess := exp.NewSession(buffer)
	if err := exp.Activate(sess, contentType); err != nil {
		return Result{}, err
	}
	return exp.Dispatch(ctx, sess)
}
