package git

import (
	"context"
	"os"
	"path/filepath"
)

// Runner executes an assembled git command line in a working directory.
// This interface allows for mocking process execution in tests.
//
// A non-zero exit is reported through Outcome.Succeeded, not as an error.
// Errors are reserved for a working directory that is not a directory
// (*InvalidPathError) and for processes that could not be run or did not
// finish (*ProcessFailedError).
type Runner interface {
	Run(ctx context.Context, dir, commandLine string) (*Outcome, error)
}

// ResolveDir returns the canonical absolute form of path, with symlinks resolved.
// It fails with *InvalidPathError if path does not exist or is not a directory.
func ResolveDir(path string) (string, error) {
	if path == "" {
		return "", &InvalidPathError{Path: path, Reason: "is empty"}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &InvalidPathError{Path: path, Reason: err.Error()}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &InvalidPathError{Path: path, Reason: "does not exist"}
		}
		return "", &InvalidPathError{Path: path, Reason: err.Error()}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &InvalidPathError{Path: path, Reason: err.Error()}
	}
	if !info.IsDir() {
		return "", &InvalidPathError{Path: path, Reason: "is not a directory"}
	}

	return resolved, nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
