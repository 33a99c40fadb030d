package fsops

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ListFiles walks dir recursively and returns every entry below it, in walk order.
// Entries are relative to dir with forward slashes; directories end in "/".
// The listed directory itself is not included.
func ListFiles(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	absDir, err := resolve(dir)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(absDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ToolError{Kind: ErrNotFound, Message: "Directory does not exist: " + dir}
		}
		return nil, err
	}
	if !fi.IsDir() {
		return nil, ToolError{Kind: ErrNotADirectory, Message: "Path is not a directory: " + dir}
	}

	names := []string{}
	err = filepath.WalkDir(absDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(absDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			name += "/"
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
