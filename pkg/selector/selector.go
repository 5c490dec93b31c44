// Package selector walks the namespace tree interactively until the user settles on a
// namespace.
package selector

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/blackcoderx/ferrapi/pkg/logging"
	"github.com/blackcoderx/ferrapi/pkg/storage"
)

var (
	// ErrSelectionAborted is returned when the user cancels the selection.
	ErrSelectionAborted = errors.New("selection aborted")
	// ErrTooManyAttempts is returned when invalid answers exceed the retry limit.
	ErrTooManyAttempts = errors.New("too many invalid selections")
)

// Prompter provides the two interaction primitives the selector is built on.
// Implementations return ErrSelectionAborted when the user cancels.
type Prompter interface {
	// Select displays options and returns the index the user picked. An index outside
	// the options is treated as invalid input and prompted again.
	Select(ctx context.Context, title string, options []string) (int, error)
	// Confirm displays a yes/no question and returns the answer.
	Confirm(ctx context.Context, title string) (bool, error)
}

// Selector descends from the configuration root one namespace segment at a time.
type Selector struct {
	codec    storage.Codec
	prompter Prompter
	// MaxRetries bounds consecutive invalid answers at one level. Zero means unlimited.
	MaxRetries int
}

// New creates a selector over the tree rooted at codec's root.
func New(codec storage.Codec, prompter Prompter) *Selector {
	return &Selector{codec: codec, prompter: prompter}
}

// Run drives the prompt loop and returns the chosen namespace.
//
// At each directory: with no subdirectories the directory itself is the answer. If it
// has subdirectories and already holds saved configurations, the user is asked whether
// to descend further; declining stops here. Otherwise the user picks a child and the
// loop repeats from there.
func (s *Selector) Run(ctx context.Context) (string, error) {
	current := s.codec.Root()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrSelectionAborted, err)
		}

		hasChildren, err := storage.HasChildren(current)
		if err != nil {
			return "", err
		}
		if !hasChildren {
			return s.finish(current)
		}

		if current != s.codec.Root() {
			stop, err := s.offerStop(ctx, current)
			if err != nil {
				return "", err
			}
			if stop {
				return s.finish(current)
			}
		}

		children, err := storage.ListChildren(current)
		if err != nil {
			return "", err
		}

		idx, err := s.choose(ctx, current, children)
		if err != nil {
			return "", err
		}
		current = filepath.Join(current, children[idx])
		logging.Debug("Selector", "descended into %s", current)
	}
}

// offerStop asks whether to stop at dir when it holds saved configurations of its own.
func (s *Selector) offerStop(ctx context.Context, dir string) (bool, error) {
	methods, err := storage.MethodsIn(dir)
	if err != nil {
		return false, err
	}
	if len(methods) == 0 {
		return false, nil
	}

	ns, err := s.codec.Decode(dir)
	if err != nil {
		return false, err
	}
	descend, err := s.prompter.Confirm(ctx, fmt.Sprintf("%s has saved requests %v. Descend further?", ns, methods))
	if err != nil {
		return false, wrapAbort(err)
	}
	return !descend, nil
}

func (s *Selector) choose(ctx context.Context, dir string, children []string) (int, error) {
	title := "Select a namespace"
	if dir != s.codec.Root() {
		if ns, err := s.codec.Decode(dir); err == nil {
			title = fmt.Sprintf("Select a namespace under %s", ns)
		}
	}

	for attempt := 1; ; attempt++ {
		idx, err := s.prompter.Select(ctx, title, children)
		if err != nil {
			return 0, wrapAbort(err)
		}
		if idx >= 0 && idx < len(children) {
			return idx, nil
		}

		logging.Warn("Selector", "invalid selection %d, expected 0..%d", idx, len(children)-1)
		if s.MaxRetries > 0 && attempt >= s.MaxRetries {
			return 0, fmt.Errorf("%w: %d attempts", ErrTooManyAttempts, attempt)
		}
	}
}

func (s *Selector) finish(dir string) (string, error) {
	if dir == s.codec.Root() {
		return "", fmt.Errorf("%w: configuration root %s has no namespaces", storage.ErrNamespaceNotFound, dir)
	}
	return s.codec.Decode(dir)
}

func wrapAbort(err error) error {
	if errors.Is(err, ErrSelectionAborted) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrSelectionAborted, err)
	}
	return err
}
