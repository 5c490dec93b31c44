package core

import (
	"errors"

	"github.com/blackcoderx/ferrapi/pkg/auth"
	"github.com/blackcoderx/ferrapi/pkg/selector"
	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/blackcoderx/ferrapi/pkg/transport"
)

var messages = []struct {
	target error
	hint   string
}{
	{storage.ErrInvalidNamespace, "Namespaces are slash-separated names without empty, '.' or '..' segments"},
	{storage.ErrOutsideRoot, "The path lies outside the configuration root"},
	{storage.ErrStoreUnwritable, "Check permissions and free space of the configuration root"},
	{storage.ErrConfigNotFound, "Nothing is saved for this namespace and method; use --save to create it"},
	{storage.ErrMalformedConfig, "Fix or delete the saved file (--delete TARGET -X METHOD)"},
	{storage.ErrNamespaceConflict, "A file occupies the namespace path; remove it first"},
	{storage.ErrNamespaceNotFound, "Create it with --create-namespace or save a request into it"},
	{storage.ErrUnsupportedMethod, "Use one of GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS, TRACE, CONNECT"},
	{selector.ErrTooManyAttempts, "Pick one of the listed numbers"},
	{ErrMissingURL, "Pass --url, give a URL as TARGET, or load a saved request that has one"},
	{auth.ErrMissingCredentials, "Check --user, --bearer and the --oauth2-* flags"},
	{transport.ErrSchemaMismatch, "The response body failed --schema validation"},
}

// Describe returns a user-facing message for err, followed by a hint for the known
// failure kinds.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.target) {
			return err.Error() + "\n  " + m.hint
		}
	}
	return err.Error()
}

// IsAborted reports whether err is a user cancellation that should end the program
// without an error status.
func IsAborted(err error) bool {
	return errors.Is(err, selector.ErrSelectionAborted)
}
