package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
)

type rootConfig struct {
	WorkRoot string `env:"AGT_WORK_ROOT"`
}

var (
	rootOnce    sync.Once
	absRoot     string
	initRootErr error
)

func initRoot() {
	cfg, err := env.ParseAs[rootConfig]()
	if err != nil {
		initRootErr = fmt.Errorf("fsops: parse env: %w", err)
		return
	}
	absRoot, initRootErr = ResolveRoot(cfg.WorkRoot)
}

// getRoot returns the cached absolute work root, initialising it once on first use.
func getRoot() (string, error) {
	rootOnce.Do(initRoot)
	return absRoot, initRootErr
}

// ResolveRoot turns root into an absolute, symlink-resolved directory path.
// An empty root means the current working directory.
func ResolveRoot(root string) (string, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs(root): %w", err)
	}
	// Fall back to the absolute path when the root does not exist yet.
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	return root, nil
}

// resolve maps a tool-supplied path onto the file system.
// Relative paths are joined to the work root; absolute paths are used as given.
func resolve(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	root, err := getRoot()
	if err != nil {
		return "", err
	}
	if p == "" {
		p = "."
	}
	return filepath.Join(root, p), nil
}
