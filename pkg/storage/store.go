// Package storage persists request descriptors under a namespace tree rooted at the
// configuration directory, one JSON file per (namespace, method) pair.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
)

// ConfigExt is the file extension of saved configurations.
const ConfigExt = ".json"

// Store persists request descriptors as <root>/<namespace>/<METHOD>.json.
type Store struct {
	codec Codec
}

// NewStore creates a store rooted at root. The root does not need to exist yet.
func NewStore(root string) *Store {
	return &Store{codec: NewCodec(root)}
}

// Codec returns the path codec used by the store.
func (s *Store) Codec() Codec {
	return s.codec
}

// Root returns the configuration root.
func (s *Store) Root() string {
	return s.codec.Root()
}

// ConfigPath returns the file path for a (namespace, method) pair.
func (s *Store) ConfigPath(namespace string, method Method) (string, error) {
	dir, err := s.codec.Encode(namespace)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, strings.ToUpper(string(method))+ConfigExt), nil
}

// Save writes d as the method's file under namespace, creating missing directories and
// overwriting prior content. It returns the written path.
func (s *Store) Save(namespace string, method Method, d *RequestDescriptor) (string, error) {
	path, err := s.ConfigPath(namespace, method)
	if err != nil {
		return "", err
	}

	if err := ensureDir(filepath.Dir(path)); err != nil {
		return "", err
	}

	rec := toRecord(d)
	rec.Method = Method(strings.ToUpper(string(method)))
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write %s: %v", ErrStoreUnwritable, path, err)
	}
	return path, nil
}

// Load reads the method's file under namespace.
func (s *Store) Load(namespace string, method Method) (*RequestDescriptor, error) {
	path, err := s.ConfigPath(namespace, method)
	if err != nil {
		return nil, err
	}

	data, err := readConfig(path, namespace, method)
	if err != nil {
		return nil, err
	}
	return decodeRecord(data, path, method)
}

// ReadRaw returns the bytes of the method's file under namespace.
func (s *Store) ReadRaw(namespace string, method Method) ([]byte, error) {
	path, err := s.ConfigPath(namespace, method)
	if err != nil {
		return nil, err
	}
	return readConfig(path, namespace, method)
}

// Delete removes exactly the method's file under namespace. The namespace directory is
// left in place even when it becomes empty.
func (s *Store) Delete(namespace string, method Method) error {
	path, err := s.ConfigPath(namespace, method)
	if err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if err != nil {
		if isNotExist(err) {
			return fmt.Errorf("%w: %s %s", ErrConfigNotFound, method, namespace)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrConfigNotFound, path)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: failed to remove %s: %v", ErrStoreUnwritable, path, err)
	}
	return nil
}

// CreateNamespace creates the namespace directory and any missing ancestors. It succeeds
// when the directory already exists.
func (s *Store) CreateNamespace(namespace string) error {
	dir, err := s.codec.Encode(namespace)
	if err != nil {
		return err
	}
	return ensureDir(dir)
}

// DeleteNamespace removes the namespace directory with every saved configuration and
// sub-namespace beneath it.
func (s *Store) DeleteNamespace(namespace string) error {
	dir, err := s.codec.Encode(namespace)
	if err != nil {
		return err
	}

	info, err := os.Lstat(dir)
	if err != nil {
		if isNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNamespaceNotFound, namespace)
		}
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNamespaceNotFound, namespace)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: failed to remove %s: %v", ErrStoreUnwritable, dir, err)
	}
	return nil
}

// Methods lists the methods that have a saved configuration directly under namespace.
func (s *Store) Methods(namespace string) ([]Method, error) {
	dir, err := s.codec.Encode(namespace)
	if err != nil {
		return nil, err
	}
	return MethodsIn(dir)
}

// MethodsIn lists the methods saved in dir, sorted by name.
func MethodsIn(dir string) ([]Method, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNamespaceNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var methods []Method
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ConfigExt) {
			continue
		}
		m, err := ParseMethod(strings.TrimSuffix(entry.Name(), ConfigExt))
		if err != nil || string(m) != strings.TrimSuffix(entry.Name(), ConfigExt) {
			continue
		}
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods, nil
}

func readConfig(path, namespace string, method Method) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s %s", ErrConfigNotFound, method, namespace)
		}
		if errors.Is(err, syscall.EISDIR) {
			return nil, fmt.Errorf("%w: %s is a directory", ErrMalformedConfig, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte, path string, method Method) (*RequestDescriptor, error) {
	// A bare null decodes into a zero struct without error, so check the shape first.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: %s is not a JSON object", ErrMalformedConfig, path)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedConfig, path, err)
	}

	if rec.Method == "" {
		rec.Method = method
	} else if !strings.EqualFold(string(rec.Method), string(method)) {
		return nil, fmt.Errorf("%w: %s declares method %s", ErrMalformedConfig, path, rec.Method)
	}
	rec.Method = Method(strings.ToUpper(string(rec.Method)))

	if rec.Timeout != nil {
		if _, err := TimeoutFromSeconds(*rec.Timeout); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedConfig, path, err)
		}
	}

	return rec.descriptor(), nil
}

// ensureDir creates dir and its ancestors, reporting files that sit in the way.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNamespaceConflict, dir)
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		if errors.Is(err, syscall.ENOTDIR) || errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrNamespaceConflict, dir)
		}
		return fmt.Errorf("%w: failed to create directory %s: %v", ErrStoreUnwritable, dir, err)
	}
	return nil
}

// isNotExist also treats a file in place of a parent directory as absence.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
