package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"assistd/pkg/types"
)

// LoadDir scans a directory for *.gguf files and builds a registry from filenames.
// ID is the full filename (including extension); Path is the absolute file path.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, types.Model{ID: name, Name: name, Path: filepath.Join(abs, name)})
	}
	return models, nil
}

// Resolve maps a role's configured model reference onto a registry entry.
// The reference may be a registry id or a path to a weights file outside the
// scanned directory.
func Resolve(models []types.Model, ref string) (types.Model, bool) {
	if ref == "" {
		return types.Model{}, false
	}
	for _, m := range models {
		if m.ID == ref {
			return m, true
		}
	}
	// Absolute or relative path reference: accept if the file exists.
	if expanded, err := expandHome(ref); err == nil {
		if fi, err := os.Stat(expanded); err == nil && !fi.IsDir() {
			id := filepath.Base(expanded)
			return types.Model{ID: id, Name: id, Path: expanded}, true
		}
	}
	return types.Model{}, false
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
