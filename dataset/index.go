package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// IdentifierFunc derives the join identifier for a file path. It is
// pluggable so test fixtures do not need the full nested dataset layout.
type IdentifierFunc func(path string) string

// ParentDirIdentifier names a file after its immediate parent directory.
// This matches the dataset layout where each track's files live one
// level under a directory named by track identifier. Files directly in
// the root get the root's own name, which never matches a label and is
// excluded by the join.
func ParentDirIdentifier(path string) string {
	return filepath.Base(filepath.Dir(path))
}

// BuildFileIndex walks the tree under root and records every file with
// its derived identifier, in walk order. An unreadable root is an error;
// unreadable entries below it are silently omitted, which is the current
// accepted behavior.
func BuildFileIndex(root string, identify IdentifierFunc) ([]FileRecord, error) {
	if identify == nil {
		identify = ParentDirIdentifier
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("stat midi root: %w", err)
	}

	var records []FileRecord
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		records = append(records, FileRecord{
			Identifier: identify(path),
			Path:       path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk midi root: %w", err)
	}

	return records, nil
}
