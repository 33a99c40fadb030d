package fsops

import (
	"errors"
	"io/fs"
	"os"
)

// ReadFile returns the full text content of the file at p.
// A missing path fails with ErrNotFound and a directory with ErrNotAFile.
func ReadFile(p string) (string, error) {
	abs, err := resolve(p)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ToolError{Kind: ErrNotFound, Message: "File does not exist: " + p}
		}
		return "", err
	}
	if fi.IsDir() {
		return "", ToolError{Kind: ErrNotAFile, Message: "Path is a directory, not a file: " + p}
	}

	b, err := os.ReadFile(abs)
	if err != nil {
		return "", err // standard error for I/O issues
	}
	return string(b), nil
}
