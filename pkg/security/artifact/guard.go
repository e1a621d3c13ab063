// Package artifact confines script-controlled output paths to a single
// directory. Instruction scripts are plain text from anywhere, so the
// paths they name for screenshots and cookie files must not be able to
// traverse out of the artifact directory.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Guard validates and resolves artifact paths against a base directory.
type Guard struct {
	baseDir string // absolute, symlink-evaluated artifact root
}

// NewGuard creates a guard rooted at dir, creating it if needed.
func NewGuard(dir string) (*Guard, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact directory cannot be empty")
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve artifact directory: %w", err)
	}
	if err := os.MkdirAll(absPath, 0750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	// Evaluate symlinks in the root so containment checks compare
	// canonical paths.
	evalPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate artifact directory: %w", err)
	}

	return &Guard{baseDir: evalPath}, nil
}

// BaseDir returns the canonical artifact root.
func (g *Guard) BaseDir() string {
	return g.baseDir
}

// Resolve turns a script-provided path into an absolute path inside the
// artifact directory. Relative paths resolve against the root; absolute
// paths are accepted only when already inside it. Traversal out of the
// root is an error, not a silent re-rooting, so the script author sees
// what happened.
func (g *Guard) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleaned := filepath.Clean(path)

	var abs string
	if filepath.IsAbs(cleaned) {
		abs = cleaned
	} else {
		abs = filepath.Join(g.baseDir, cleaned)
	}

	if !g.contains(abs) {
		return "", fmt.Errorf("path %q is outside the artifact directory %s", path, g.baseDir)
	}

	// The target may not exist yet; canonicalize through the nearest
	// existing parent so a symlinked subdirectory cannot escape.
	if resolved, err := canonicalize(abs); err == nil {
		if !g.contains(resolved) {
			return "", fmt.Errorf("path %q escapes the artifact directory via a symlink", path)
		}
		abs = resolved
	}

	return abs, nil
}

func (g *Guard) contains(abs string) bool {
	rel, err := filepath.Rel(g.baseDir, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// canonicalize evaluates symlinks for the deepest existing ancestor and
// rejoins the non-existing remainder.
func canonicalize(abs string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	dir, base := filepath.Split(filepath.Clean(abs))
	dir = filepath.Clean(dir)
	if dir == abs {
		return abs, nil
	}
	resolvedDir, err := canonicalize(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}
