package artifact

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T) (*Guard, string) {
	t.Helper()
	dir := t.TempDir()
	g, err := NewGuard(dir)
	require.NoError(t, err)
	return g, g.BaseDir()
}

func TestResolveRelativePath(t *testing.T) {
	g, base := newGuard(t)

	got, err := g.Resolve("shots/home.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "shots", "home.png"), got)
}

func TestResolveRejectsTraversal(t *testing.T) {
	g, _ := newGuard(t)

	tests := []string{
		"../outside.png",
		"../../etc/passwd",
		"shots/../../escape.json",
	}
	for _, path := range tests {
		_, err := g.Resolve(path)
		require.Error(t, err, path)
		assert.Contains(t, err.Error(), "outside the artifact directory")
	}
}

func TestResolveAbsoluteInsideAndOutside(t *testing.T) {
	g, base := newGuard(t)

	inside := filepath.Join(base, "cookies.json")
	got, err := g.Resolve(inside)
	require.NoError(t, err)
	assert.Equal(t, inside, got)

	_, err = g.Resolve("/tmp/elsewhere.json")
	require.Error(t, err)
}

func TestResolveRejectsEmptyPath(t *testing.T) {
	g, _ := newGuard(t)
	_, err := g.Resolve("")
	require.Error(t, err)
}

func TestResolveSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink semantics differ on windows")
	}

	g, base := newGuard(t)
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(base, "link")))

	_, err := g.Resolve("link/steal.png")
	require.Error(t, err)
}

func TestNewGuardCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts", "nested")
	g, err := NewGuard(dir)
	require.NoError(t, err)

	info, err := os.Stat(g.BaseDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
