package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// ListChildren returns the names of the immediate subdirectories of dir in lexicographic
// order. Saved configuration files, other non-directory entries and directories whose
// name is not a valid namespace segment are skipped.
func ListChildren(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNamespaceNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	children := []string{}
	for _, entry := range entries {
		if isChild(entry) {
			children = append(children, entry.Name())
		}
	}
	sort.Strings(children)
	return children, nil
}

// HasChildren reports whether ListChildren(dir) would be non-empty. It stops reading at
// the first child found.
func HasChildren(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		if isNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrNamespaceNotFound, dir)
		}
		return false, fmt.Errorf("failed to open directory %s: %w", dir, err)
	}
	defer f.Close()

	for {
		entries, err := f.ReadDir(32)
		for _, entry := range entries {
			if isChild(entry) {
				return true, nil
			}
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
	}
}

func isChild(entry os.DirEntry) bool {
	return entry.IsDir() && validateSegment(entry.Name()) == nil
}
