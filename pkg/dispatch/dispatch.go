// Package dispatch handles the user-invoked expansion command: completion
// over a selected region, direct expansion of the tag before the cursor, or
// pass-through to the host's default behavior when neither applies.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/goliatone/go-tempo/pkg/engine"
	"github.com/goliatone/go-tempo/pkg/prompt"
	"github.com/goliatone/go-tempo/pkg/session"
)

// NoTemplatesNotice is the informational message shown when a completion is
// requested for a session whose active set is empty.
const NoTemplatesNotice = "no templates defined for this session"

const defaultLookback = 64

// Outcome classifies how a dispatch concluded. None of the non-Expanded
// outcomes are errors; they are ordinary results the host may act on.
type Outcome int

const (
	// OutcomeExpanded means exactly one template expansion was applied.
	OutcomeExpanded Outcome = iota
	// OutcomeNoTemplates means the active set was empty; the user was
	// notified and nothing changed.
	OutcomeNoTemplates
	// OutcomeCancelled means the user dismissed the selection prompt;
	// nothing changed.
	OutcomeCancelled
	// OutcomePassThrough means no complete tag preceded the cursor and the
	// original invocation was re-issued to the host.
	OutcomePassThrough
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExpanded:
		return "expanded"
	case OutcomeNoTemplates:
		return "no-templates"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomePassThrough:
		return "pass-through"
	default:
		return "unknown"
	}
}

// Result describes a completed dispatch. Tag and QualifiedName are set only
// for OutcomeExpanded.
type Result struct {
	Outcome       Outcome
	Tag           string
	QualifiedName string
}

// Option configures the dispatcher.
type Option func(*Dispatcher)

// WithNotifier overrides where informational notices go; defaults to stdout.
func WithNotifier(notifier prompt.Notifier) Option {
	return func(d *Dispatcher) {
		if notifier != nil {
			d.notifier = notifier
		}
	}
}

// WithLookback bounds how many runes before the cursor are examined for a
// complete tag.
func WithLookback(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.lookback = n
		}
	}
}

// WithPromptMessage overrides the message shown above the selection prompt.
func WithPromptMessage(message string) Option {
	return func(d *Dispatcher) {
		if message != "" {
			d.message = message
		}
	}
}

// Dispatcher routes one user command to the engine, the prompt, or the
// host's fallback.
type Dispatcher struct {
	engine   engine.Engine
	chooser  prompt.Chooser
	notifier prompt.Notifier
	message  string
	lookback int
}

// New constructs a dispatcher over the engine and selection prompt.
func New(eng engine.Engine, chooser prompt.Chooser, options ...Option) *Dispatcher {
	d := &Dispatcher{
		engine:   eng,
		chooser:  chooser,
		notifier: prompt.NewWriterNotifier(os.Stdout),
		message:  "Expand template",
		lookback: defaultLookback,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Dispatch handles one invocation of the bound expansion command for sess.
//
// With a region selected it runs the completion flow: prompt over the active
// tags, expand the chosen template over the region. With no region it asks
// the engine whether a complete active tag precedes the cursor and expands in
// place; otherwise it re-issues the invocation through the session's
// fallback. The session latch keeps that re-issue from recursing: a dispatch
// entered while one is already in flight reports OutcomePassThrough without
// touching anything.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *session.Session) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("dispatch: context is required")
	}
	if sess == nil {
		return Result{}, errors.New("dispatch: session is required")
	}
	if d.engine == nil {
		return Result{}, errors.New("dispatch: engine is required")
	}
	buffer := sess.Buffer()
	if buffer == nil {
		return Result{}, errors.New("dispatch: session has no buffer")
	}

	if !sess.TryBeginDispatch() {
		return Result{Outcome: OutcomePassThrough}, nil
	}
	defer sess.EndDispatch()

	if regionText, ok := buffer.Region(); ok {
		return d.completeOverRegion(ctx, sess, regionText)
	}
	return d.expandAtCursor(ctx, sess)
}

func (d *Dispatcher) completeOverRegion(ctx context.Context, sess *session.Session, regionText string) (Result, error) {
	set := sess.ActiveSet()
	if set.Len() == 0 {
		if d.notifier != nil {
			if err := d.notifier.Info(ctx, NoTemplatesNotice); err != nil {
				return Result{}, fmt.Errorf("dispatch: notify: %w", err)
			}
		}
		return Result{Outcome: OutcomeNoTemplates}, nil
	}

	if d.chooser == nil {
		return Result{}, errors.New("dispatch: chooser is required")
	}
	choice, err := d.chooser.ChooseOne(ctx, d.message, set.Tags())
	if errors.Is(err, prompt.ErrCancelled) {
		return Result{Outcome: OutcomeCancelled}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: choose template: %w", err)
	}

	qualifiedName, ok := set.Lookup(choice)
	if !ok {
		return Result{}, fmt.Errorf("dispatch: selected tag %q is not active", choice)
	}

	replacement, err := d.engine.ExpandOverRegion(ctx, qualifiedName, regionText)
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: expand over region: %w", err)
	}
	if err := sess.Buffer().ReplaceRegion(replacement); err != nil {
		return Result{}, fmt.Errorf("dispatch: replace region: %w", err)
	}

	return Result{Outcome: OutcomeExpanded, Tag: choice, QualifiedName: qualifiedName}, nil
}

func (d *Dispatcher) expandAtCursor(ctx context.Context, sess *session.Session) (Result, error) {
	buffer := sess.Buffer()

	match, ok := d.engine.TryCompleteAtCursor(buffer.TextBeforeCursor(d.lookback), sess.ActiveSet())
	if !ok {
		return d.passThrough(ctx, sess)
	}

	expansion, err := d.engine.ExpandAtCursor(ctx, match.QualifiedName)
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: expand at cursor: %w", err)
	}
	if err := buffer.DeleteBeforeCursor(utf8.RuneCountInString(match.Tag)); err != nil {
		return Result{}, fmt.Errorf("dispatch: remove tag: %w", err)
	}
	if err := buffer.InsertAtCursor(expansion); err != nil {
		return Result{}, fmt.Errorf("dispatch: insert expansion: %w", err)
	}

	return Result{Outcome: OutcomeExpanded, Tag: match.Tag, QualifiedName: match.QualifiedName}, nil
}

func (d *Dispatcher) passThrough(ctx context.Context, sess *session.Session) (Result, error) {
	fallback := sess.Fallback()
	if fallback == nil {
		return Result{Outcome: OutcomePassThrough}, nil
	}
	// The dispatch latch is still held here, so a fallback that winds back
	// into Dispatch no-ops instead of recursing.
	if err := fallback(ctx); err != nil {
		return Result{}, fmt.Errorf("dispatch: pass-through: %w", err)
	}
	return Result{Outcome: OutcomePassThrough}, nil
}
