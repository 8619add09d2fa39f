package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Survey is the terminal prompt driver backed by AlecAivazis/survey.
type Survey struct {
	pageSize int
	out      io.Writer
}

// SurveyOption configures the survey driver.
type SurveyOption func(*Survey)

// WithPageSize bounds the number of labels shown per page.
func WithPageSize(n int) SurveyOption {
	return func(s *Survey) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithInfoWriter redirects Info output; defaults to stdout.
func WithInfoWriter(w io.Writer) SurveyOption {
	return func(s *Survey) {
		if w != nil {
			s.out = w
		}
	}
}

// NewSurvey constructs the driver.
func NewSurvey(options ...SurveyOption) *Survey {
	s := &Survey{out: os.Stdout}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// ChooseOne presents a single-select prompt over labels.
func (s *Survey) ChooseOne(ctx context.Context, message string, labels []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(labels) == 0 {
		return "", errors.New("prompt: no labels to choose from")
	}

	sel := &survey.Select{
		Message: message,
		Options: labels,
	}
	if s.pageSize > 0 {
		sel.PageSize = s.pageSize
	}

	var out string
	if err := survey.AskOne(sel, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

// Info prints a one-line message.
func (s *Survey) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.out, msg)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCancelled
	}
	return err
}
