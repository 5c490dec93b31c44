package storage

import "errors"

var (
	// ErrInvalidNamespace is returned for namespaces with empty, "." or ".." segments,
	// separators inside a segment, or an absolute-path marker.
	ErrInvalidNamespace = errors.New("invalid namespace")
	// ErrOutsideRoot is returned when a path is not a descendant of the configuration root.
	ErrOutsideRoot = errors.New("path is outside the configuration root")
	// ErrStoreUnwritable is returned when the filesystem refuses a write.
	ErrStoreUnwritable = errors.New("configuration store is not writable")
	// ErrConfigNotFound is returned when no saved configuration exists for a namespace and method.
	ErrConfigNotFound = errors.New("saved configuration not found")
	// ErrMalformedConfig is returned when a saved file does not decode into a request descriptor.
	ErrMalformedConfig = errors.New("malformed saved configuration")
	// ErrNamespaceConflict is returned when a non-directory entry occupies a namespace path.
	ErrNamespaceConflict = errors.New("namespace path is occupied by a file")
	// ErrNamespaceNotFound is returned when a namespace directory does not exist.
	ErrNamespaceNotFound = errors.New("namespace not found")
	// ErrUnsupportedMethod is returned for HTTP methods outside the supported set.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
)
