// Package filex contains the file-system helpers used when documents are
// written to the local download directory.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (relative paths are resolved against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// maxSuffix bounds the "name (n).ext" probing in CreateUnique.
const maxSuffix = 1000

// CreateUnique creates a new file named name inside dir without overwriting
// anything already there: "report.pdf" becomes "report (1).pdf" and so on.
// The caller owns the returned file.
func CreateUnique(dir, name string) (*os.File, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; i <= maxSuffix; i++ {
		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
	}
	return nil, fmt.Errorf("create %s: too many files with the same name", name)
}
