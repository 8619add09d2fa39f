// Package session carries the per-editing-session state the host environment
// hands this module: the buffer under edit, the session's current content
// type, and the active template set installed by the last activation event.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-tempo/pkg/activation"
	"github.com/goliatone/go-tempo/pkg/contenttype"
)

// Buffer is the host's editing surface. Offsets and counts are in runes.
type Buffer interface {
	// Region returns the actively selected text, if any.
	Region() (text string, ok bool)
	// TextBeforeCursor returns up to limit runes immediately preceding the
	// cursor; limit <= 0 means no bound.
	TextBeforeCursor(limit int) string
	// ReplaceRegion replaces the selected region with text.
	ReplaceRegion(text string) error
	// InsertAtCursor inserts text at the cursor.
	InsertAtCursor(text string) error
	// DeleteBeforeCursor removes n runes preceding the cursor.
	DeleteBeforeCursor(n int) error
}

// Fallback re-issues the invocation that triggered a dispatch so the host's
// default behavior for that command runs instead.
type Fallback func(ctx context.Context) error

// Option customises a session at construction.
type Option func(*Session)

// WithID overrides the generated session identifier.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithContentType sets the session's initial content type. Installing the
// matching active set still requires an activation event.
func WithContentType(t contenttype.Type) Option {
	return func(s *Session) {
		s.contentType = t
	}
}

// WithFallback supplies the host's default-action hook used by pass-through
// dispatch outcomes.
func WithFallback(fallback Fallback) Option {
	return func(s *Session) {
		s.fallback = fallback
	}
}

// Session is one editing session. It is owned by a single sequencer; the
// struct carries no internal locking.
type Session struct {
	id          string
	contentType contenttype.Type
	buffer      Buffer
	fallback    Fallback
	active      *activation.ActiveSet
	dispatching bool
}

// New creates a session over the host's buffer.
func New(buffer Buffer, options ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		buffer: buffer,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Buffer returns the host buffer.
func (s *Session) Buffer() Buffer { return s.buffer }

// ContentType returns the session's current content type.
func (s *Session) ContentType() contenttype.Type { return s.contentType }

// SetContentType records a content-type change. The active set is not
// touched; the host fires an activation event to rebuild it.
func (s *Session) SetContentType(t contenttype.Type) { s.contentType = t }

// Fallback returns the host's default-action hook, which may be nil.
func (s *Session) Fallback() Fallback { return s.fallback }

// InstallActiveSet replaces the session's active set wholesale. It is the
// activation manager's install target; nothing merges with the previous set.
func (s *Session) InstallActiveSet(set *activation.ActiveSet) { s.active = set }

// ActiveSet returns the currently installed set. A session that has never
// been activated has an empty set.
func (s *Session) ActiveSet() *activation.ActiveSet {
	if s.active == nil {
		return activation.NewActiveSet()
	}
	return s.active
}

// TryBeginDispatch latches the session for a dispatch in progress and
// reports whether the latch was acquired. A pass-through re-invocation that
// winds back into the dispatcher finds the latch held and falls straight
// through to the host's default behavior.
func (s *Session) TryBeginDispatch() bool {
	if s.dispatching {
		return false
	}
	s.dispatching = true
	return true
}

// EndDispatch releases the dispatch latch.
func (s *Session) EndDispatch() { s.dispatching = false }
