package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tempo/pkg/activation"
)

// RegionVar is the context key template bodies use to reference the captured
// region, e.g. `if ({{ region }}) {`.
const RegionVar = "region"

// Option configures the pongo engine before construction.
type Option func(*config)

type config struct {
	globals map[string]any
}

// WithGlobals seeds context values available to every template body.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

type entry struct {
	body  string
	label string
	tmpl  *pongo2.Template
}

// Pongo is the default Engine: template bodies are pongo2 templates parsed at
// definition time and cached by qualified name.
type Pongo struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*entry
}

// Ensure Pongo implements the Engine contract.
var _ Engine = (*Pongo)(nil)

// NewPongo constructs the default engine.
func NewPongo(options ...Option) *Pongo {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	set := pongo2.NewSet("tempo", pongo2.MustNewLocalFileSystemLoader(""))
	if len(cfg.globals) > 0 {
		set.Globals = make(pongo2.Context, len(cfg.globals))
		for key, value := range cfg.globals {
			set.Globals[key] = value
		}
	}

	return &Pongo{
		set:       set,
		templates: make(map[string]*entry),
	}
}

// DefineTemplate parses and stores body under qualifiedName. Identical
// redefinitions are no-ops so repeated configuration loading stays cheap; a
// changed body replaces the previous template.
func (p *Pongo) DefineTemplate(qualifiedName, body, label string) error {
	if qualifiedName == "" {
		return errors.New("engine: qualified name is required")
	}

	p.mu.RLock()
	existing, ok := p.templates[qualifiedName]
	p.mu.RUnlock()
	if ok && existing.body == body {
		return nil
	}

	tmpl, err := p.set.FromString(body)
	if err != nil {
		return fmt.Errorf("engine: parse template %q: %w", qualifiedName, err)
	}

	p.mu.Lock()
	p.templates[qualifiedName] = &entry{body: body, label: label, tmpl: tmpl}
	p.mu.Unlock()
	return nil
}

// ExpandOverRegion renders the named template with regionText bound to the
// region variable.
func (p *Pongo) ExpandOverRegion(ctx context.Context, qualifiedName, regionText string) (string, error) {
	return p.execute(ctx, qualifiedName, pongo2.Context{RegionVar: regionText})
}

// ExpandAtCursor renders the named template with an empty region.
func (p *Pongo) ExpandAtCursor(ctx context.Context, qualifiedName string) (string, error) {
	return p.execute(ctx, qualifiedName, pongo2.Context{RegionVar: ""})
}

// TryCompleteAtCursor scans the active set for a tag that ends the text
// before the cursor at a word boundary. The longest matching tag wins so a
// set holding both "if" and "elif" resolves "elif" deterministically. Tags
// whose qualified names have no definition in this engine never match.
func (p *Pongo) TryCompleteAtCursor(textBeforeCursor string, set *activation.ActiveSet) (Match, bool) {
	if textBeforeCursor == "" || set.Len() == 0 {
		return Match{}, false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	best := Match{}
	for _, binding := range set.Bindings() {
		if len(binding.Tag) <= len(best.Tag) {
			continue
		}
		if !strings.HasSuffix(textBeforeCursor, binding.Tag) {
			continue
		}
		if !boundaryBefore(textBeforeCursor, binding.Tag) {
			continue
		}
		if _, defined := p.templates[binding.QualifiedName]; !defined {
			continue
		}
		best = Match{Tag: binding.Tag, QualifiedName: binding.QualifiedName}
	}
	return best, best.Tag != ""
}

// Label returns the display label stored for a qualified name.
func (p *Pongo) Label(qualifiedName string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e, ok := p.templates[qualifiedName]
	if !ok {
		return "", false
	}
	return e.label, true
}

func (p *Pongo) execute(ctx context.Context, qualifiedName string, data pongo2.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("engine: context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.RLock()
	e, ok := p.templates[qualifiedName]
	p.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("engine: template %q not defined", qualifiedName)
	}

	var buf bytes.Buffer
	if err := e.tmpl.ExecuteWriter(data, &buf); err != nil {
		return "", fmt.Errorf("engine: execute template %q: %w", qualifiedName, err)
	}
	return buf.String(), nil
}

// boundaryBefore reports whether tag sits at a word boundary at the end of
// text: either nothing precedes it, or the preceding rune is not a word
// character.
func boundaryBefore(text, tag string) bool {
	if len(text) == len(tag) {
		return true
	}
	before, _ := utf8.DecodeLastRuneInString(text[:len(text)-len(tag)])
	return !isWordRune(before)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
