// helpers/files.go
package helpers

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ValidateFilePath cleans path, resolves symlinks and checks the extension against allowed.
// It returns the resolved absolute path.
func ValidateFilePath(path string, allowed ...string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		return "", fmt.Errorf("unable to resolve the absolute path of the file: %s, error: %w", path, err)
	}

	absPath, err = filepath.Abs(absPath)
	if err != nil {
		return "", fmt.Errorf("unable to resolve the absolute path of the file: %s, error: %w", path, err)
	}

	if strings.Contains(absPath, "..") {
		return "", fmt.Errorf("invalid path, path traversal patterns detected: %s", path)
	}

	if len(allowed) > 0 && !slices.Contains(allowed, strings.ToLower(filepath.Ext(absPath))) {
		return "", fmt.Errorf("invalid file extension for file: %s, expected one of %v", path, allowed)
	}

	return absPath, nil
}
