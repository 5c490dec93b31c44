package selector

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// HuhPrompter renders prompts as huh forms.
type HuhPrompter struct {
	accessible bool
	input      io.Reader
	output     io.Writer
}

// HuhOption configures a HuhPrompter.
type HuhOption func(*HuhPrompter)

// WithAccessible switches to huh's line-based accessible mode, which works without a
// full terminal.
func WithAccessible(accessible bool) HuhOption {
	return func(p *HuhPrompter) { p.accessible = accessible }
}

// WithIO overrides the reader and writer used by the forms.
func WithIO(in io.Reader, out io.Writer) HuhOption {
	return func(p *HuhPrompter) {
		p.input = in
		p.output = out
	}
}

// NewHuhPrompter creates a prompter backed by huh.
func NewHuhPrompter(opts ...HuhOption) *HuhPrompter {
	p := &HuhPrompter{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Select implements Prompter.
func (p *HuhPrompter) Select(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("nothing to select")
	}

	choices := make([]huh.Option[int], len(options))
	for i, name := range options {
		choices[i] = huh.NewOption(fmt.Sprintf("%d: %s", i, name), i)
	}

	choice := -1
	field := huh.NewSelect[int]().
		Title(title).
		Options(choices...).
		Value(&choice)

	if err := p.run(ctx, field); err != nil {
		return -1, err
	}
	return choice, nil
}

// Confirm implements Prompter.
func (p *HuhPrompter) Confirm(ctx context.Context, title string) (bool, error) {
	answer := false
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := p.run(ctx, field); err != nil {
		return false, err
	}
	return answer, nil
}

func (p *HuhPrompter) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.accessible)
	if p.input != nil {
		form = form.WithInput(p.input)
	}
	if p.output != nil {
		form = form.WithOutput(p.output)
	}

	err := form.RunWithContext(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huh.ErrUserAborted), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrSelectionAborted, err)
	default:
		return fmt.Errorf("prompt failed: %w", err)
	}
}
