// Package prompt defines the UI collaborator the dispatcher drives: a
// single-choice selection prompt and a one-line notifier. The survey-backed
// driver is the default; hosts embedding the library swap in their own.
package prompt

import (
	"context"
	"fmt"
	"io"
)

// Chooser presents labels and returns the selected one. Cancellation is
// reported as ErrCancelled, never as a selection.
type Chooser interface {
	ChooseOne(ctx context.Context, message string, labels []string) (string, error)
}

// Notifier surfaces one-line informational messages to the user.
type Notifier interface {
	Info(ctx context.Context, msg string) error
}

// WriterNotifier writes informational messages to an io.Writer, one per
// line. Useful for hosts without a richer message surface.
type WriterNotifier struct {
	out io.Writer
}

// NewWriterNotifier constructs a notifier over w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{out: w}
}

// Info writes msg followed by a newline.
func (n *WriterNotifier) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.out == nil {
		return nil
	}
	_, err := fmt.Fprintln(n.out, msg)
	return err
}
