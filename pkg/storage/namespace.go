package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NamespaceSeparator separates segments of a namespace string.
const NamespaceSeparator = "/"

// Codec translates between namespace strings and directories under a configuration root.
type Codec struct {
	root string
}

// NewCodec creates a codec rooted at root.
func NewCodec(root string) Codec {
	return Codec{root: filepath.Clean(root)}
}

// Root returns the configuration root.
func (c Codec) Root() string {
	return c.root
}

// Split validates a namespace and returns its segments.
func Split(namespace string) ([]string, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is empty", ErrInvalidNamespace)
	}
	if strings.HasPrefix(namespace, NamespaceSeparator) || filepath.IsAbs(namespace) || filepath.VolumeName(namespace) != "" {
		return nil, fmt.Errorf("%w: %q is an absolute path", ErrInvalidNamespace, namespace)
	}

	segments := strings.Split(namespace, NamespaceSeparator)
	for _, seg := range segments {
		if err := validateSegment(seg); err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrInvalidNamespace, namespace, err)
		}
	}
	return segments, nil
}

// Join builds a namespace string from segments.
func Join(segments ...string) string {
	return strings.Join(segments, NamespaceSeparator)
}

func validateSegment(seg string) error {
	switch {
	case seg == "":
		return fmt.Errorf("empty segment")
	case seg == "." || seg == "..":
		return fmt.Errorf("segment %q is not allowed", seg)
	case strings.ContainsAny(seg, `/\`) || strings.ContainsRune(seg, filepath.Separator):
		return fmt.Errorf("segment %q contains a path separator", seg)
	case strings.ContainsRune(seg, 0):
		return fmt.Errorf("segment contains a NUL byte")
	case filepath.VolumeName(seg) != "":
		return fmt.Errorf("segment %q contains a volume name", seg)
	}
	return nil
}

// Encode returns the directory for namespace under the root.
func (c Codec) Encode(namespace string) (string, error) {
	segments, err := Split(namespace)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{c.root}, segments...)...), nil
}

// Decode returns the namespace for a directory below the root.
func (c Codec) Decode(path string) (string, error) {
	rel, err := filepath.Rel(c.root, filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	namespace := filepath.ToSlash(rel)
	if _, err := Split(namespace); err != nil {
		return "", err
	}
	return namespace, nil
}
