// Package core resolves command-line input into a finalized request: it loads saved
// configurations, merges overrides, persists on request and hands the result to the
// transport.
package core

import (
	"context"
	"time"

	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/blackcoderx/ferrapi/pkg/transport"
)

// Transport executes a finalized request descriptor.
type Transport interface {
	Do(ctx context.Context, d *storage.RequestDescriptor) (*transport.Response, error)
}

// NamespaceSelector picks a namespace interactively.
type NamespaceSelector interface {
	Run(ctx context.Context) (string, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, title string) (bool, error)
}

// Authorizer produces an Authorization header value for the executed request.
type Authorizer interface {
	Authorization(ctx context.Context) (string, error)
}

// Overrides holds the request fields supplied on the command line. Nil fields were not
// supplied and leave loaded values untouched.
type Overrides struct {
	URL     *string
	Headers map[string]string
	Body    *storage.Body
	Timeout *time.Duration
}

// Input is the already-parsed command line.
type Input struct {
	// Method defaults to GET.
	Method storage.Method
	// Target is the namespace to load from and save to. A value starting with
	// http:// or https:// is used as the URL instead.
	Target string
	// Interactive selects Target through the namespace browser.
	Interactive bool

	CreateNamespace string
	DeleteAll       string
	Delete          string

	Save   bool
	Force  bool
	DryRun bool

	Overrides Overrides
	// Environment supplies {{VAR}} values applied just before execution.
	Environment map[string]string
	// Auth sets the Authorization header of the executed request. It is never saved.
	Auth Authorizer
}

// Action names what a Resolve call did.
type Action string

const (
	ActionCreateNamespace Action = "create-namespace"
	ActionDeleteNamespace Action = "delete-namespace"
	ActionDelete          Action = "delete"
	ActionDryRun          Action = "dry-run"
	ActionExecute         Action = "execute"
	ActionCancelled       Action = "cancelled"
)

// Result describes the outcome of Resolve.
type Result struct {
	Action    Action
	Namespace string
	Method    storage.Method
	// Loaded is true when Descriptor started from a saved configuration.
	Loaded bool
	// Descriptor is the finalized request before environment substitution.
	Descriptor *storage.RequestDescriptor
	Response   *transport.Response
	// SavedPath is set when the descriptor was persisted.
	SavedPath string
	// Diff is a unified diff against the configuration that the save replaced.
	Diff string
}
