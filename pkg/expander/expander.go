// Package expander wires the registry, content-type resolver, activation
// manager, template engine, and dispatcher into one facade. It applies
// sensible defaults (pongo2 engine, survey prompt, embedded template sets)
// while remaining open to dependency injection for advanced callers.
package expander

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-tempo/pkg/activation"
	"github.com/goliatone/go-tempo/pkg/contenttype"
	"github.com/goliatone/go-tempo/pkg/dispatch"
	"github.com/goliatone/go-tempo/pkg/engine"
	"github.com/goliatone/go-tempo/pkg/prompt"
	"github.com/goliatone/go-tempo/pkg/registry"
	"github.com/goliatone/go-tempo/pkg/session"
	"github.com/goliatone/go-tempo/pkg/templateset"
)

// Option customises the expander configuration.
type Option func(*Expander)

// WithHierarchy supplies the host's content-type parent relation. Without it
// every content type is a root.
func WithHierarchy(hierarchy contenttype.Hierarchy) Option {
	return func(e *Expander) {
		e.hierarchy = hierarchy
	}
}

// WithEngine injects a custom template engine.
func WithEngine(eng engine.Engine) Option {
	return func(e *Expander) {
		e.engine = eng
	}
}

// WithChooser injects a custom selection prompt.
func WithChooser(chooser prompt.Chooser) Option {
	return func(e *Expander) {
		e.chooser = chooser
	}
}

// WithNotifier overrides where informational notices go.
func WithNotifier(notifier prompt.Notifier) Option {
	return func(e *Expander) {
		e.notifier = notifier
	}
}

// WithRegistry injects a registry. Callers supplying their own are
// responsible for pairing it with the engine so definitions reach both.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Expander) {
		e.registry = reg
	}
}

// WithTemplateSets supplies an fs.FS holding template-set documents applied at
// construction. Pass nil to disable the embedded defaults.
func WithTemplateSets(fsys fs.FS) Option {
	return func(e *Expander) {
		e.setFS = fsys
		e.setsSpecified = true
	}
}

// WithLookback bounds how many runes before the cursor the dispatcher examines
// for a complete tag.
func WithLookback(n int) Option {
	return func(e *Expander) {
		e.lookback = n
	}
}

// WithPromptMessage overrides the message shown above the selection prompt.
func WithPromptMessage(message string) Option {
	return func(e *Expander) {
		e.message = message
	}
}

// Expander coordinates the full flow from template registration to dispatch.
type Expander struct {
	hierarchy contenttype.Hierarchy
	engine    engine.Engine
	chooser   prompt.Chooser
	notifier  prompt.Notifier
	registry  *registry.Registry

	resolver   *contenttype.Resolver
	manager    *activation.Manager
	dispatcher *dispatch.Dispatcher

	setFS         fs.FS
	setsSpecified bool
	lookback      int
	message       string

	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Expander applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Expander {
	e := &Expander{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.applyDefaults()
	return e
}

// Register declares a template for a set of owning content types. Sessions
// keep their previously installed set until the next activation event.
func (e *Expander) Register(tag string, owners []contenttype.Type, body, label string) (registry.Definition, error) {
	if err := e.ready(); err != nil {
		return registry.Definition{}, err
	}
	return e.registry.Register(tag, owners, body, label)
}

// RegisterSet applies one template-set document.
func (e *Expander) RegisterSet(doc templateset.Document) error {
	if err := e.ready(); err != nil {
		return err
	}
	return templateset.Apply(e.registry, []templateset.Document{doc})
}

// LoadSets parses fsys and applies every template-set document it holds.
func (e *Expander) LoadSets(fsys fs.FS) error {
	if err := e.ready(); err != nil {
		return err
	}
	documents, err := templateset.LoadFS(fsys)
	if err != nil {
		return fmt.Errorf("expander: load template sets: %w", err)
	}
	return templateset.Apply(e.registry, documents)
}

// NewSession creates a session over the host's buffer.
func (e *Expander) NewSession(buffer session.Buffer, options ...session.Option) *session.Session {
	return session.New(buffer, options...)
}

// Activate records t as the session's content type and installs the merged
// active set for t's hierarchy chain. Hosts call this on session creation and
// on every content-type change.
func (e *Expander) Activate(sess *session.Session, t contenttype.Type) error {
	if err := e.ready(); err != nil {
		return err
	}
	if sess == nil {
		return errors.New("expander: session is required")
	}
	sess.SetContentType(t)
	return e.manager.Activate(sess, t)
}

// Dispatch handles one invocation of the bound expansion command for sess.
func (e *Expander) Dispatch(ctx context.Context, sess *session.Session) (dispatch.Result, error) {
	if err := e.ready(); err != nil {
		return dispatch.Result{}, err
	}
	return e.dispatcher.Dispatch(ctx, sess)
}

// Registry exposes the backing registry for inspection.
func (e *Expander) Registry() *registry.Registry { return e.registry }

// Engine exposes the configured template engine.
func (e *Expander) Engine() engine.Engine { return e.engine }

func (e *Expander) ready() error {
	if !e.defaultsApplied {
		e.applyDefaults()
	}
	return e.initialiseErr
}

func (e *Expander) applyDefaults() {
	if e.defaultsApplied {
		return
	}

	if e.engine == nil {
		e.engine = engine.NewPongo()
	}
	if e.chooser == nil {
		e.chooser = prompt.NewSurvey()
	}
	if e.registry == nil {
		e.registry = registry.New(e.engine)
	}

	e.resolver = contenttype.NewResolver(e.hierarchy)
	e.manager = activation.NewManager(e.resolver, e.registry)

	var dispatchOptions []dispatch.Option
	if e.notifier != nil {
		dispatchOptions = append(dispatchOptions, dispatch.WithNotifier(e.notifier))
	}
	if e.lookback > 0 {
		dispatchOptions = append(dispatchOptions, dispatch.WithLookback(e.lookback))
	}
	if e.message != "" {
		dispatchOptions = append(dispatchOptions, dispatch.WithPromptMessage(e.message))
	}
	e.dispatcher = dispatch.New(e.engine, e.chooser, dispatchOptions...)

	e.ensureTemplateSets()

	e.defaultsApplied = true
}

func (e *Expander) ensureTemplateSets() {
	if !e.setsSpecified && e.setFS == nil {
		e.setFS = templateset.EmbeddedFS()
	}
	if e.setFS == nil {
		return
	}

	documents, err := templateset.LoadFS(e.setFS)
	if err != nil {
		e.initialiseErr = fmt.Errorf("expander: load template sets: %w", err)
		return
	}
	if err := templateset.Apply(e.registry, documents); err != nil {
		e.initialiseErr = fmt.Errorf("expander: apply template sets: %w", err)
	}
}
