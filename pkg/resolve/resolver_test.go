package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber simulates a page with a fixed set of attached and visible
// selectors, recording probe order.
type fakeProber struct {
	attached map[string]bool
	visible  map[string]bool
	probed   []string
	failOn   string
}

func (f *fakeProber) Exists(selector string, timeout time.Duration) (bool, error) {
	f.probed = append(f.probed, selector)
	if selector == f.failOn {
		return false, errors.New("driver disconnected")
	}
	return f.attached[selector], nil
}

func (f *fakeProber) Visible(selector string) (bool, error) {
	return f.visible[selector], nil
}

func TestResolveFirstVisibleMatchWins(t *testing.T) {
	probe := &fakeProber{
		attached: map[string]bool{"#a": true, "#b": true},
		visible:  map[string]bool{"#a": true, "#b": true},
	}
	r := New(nil, 0)

	got, ok := r.Resolve(context.Background(), probe, []string{"#a", "#b"})

	require.True(t, ok)
	assert.Equal(t, "#a", got)
	// Resolution stops at the first match.
	assert.Equal(t, []string{"#a"}, probe.probed)
}

func TestResolveSkipsHiddenForLaterVisible(t *testing.T) {
	// A hidden #search exists; the lower-ranked test attribute is the
	// one actually rendered. The visible candidate must win.
	probe := &fakeProber{
		attached: map[string]bool{"#search": true, `[data-testid="search"]`: true},
		visible:  map[string]bool{`[data-testid="search"]`: true},
	}
	r := New(nil, 0)

	got, ok := r.Resolve(context.Background(), probe, []string{"#search", `[data-testid="search"]`})

	require.True(t, ok)
	assert.Equal(t, `[data-testid="search"]`, got)
}

func TestResolveNotFound(t *testing.T) {
	probe := &fakeProber{attached: map[string]bool{}, visible: map[string]bool{}}
	r := New(nil, 0)

	got, ok := r.Resolve(context.Background(), probe, []string{"#missing", ".also-missing"})

	assert.False(t, ok)
	assert.Empty(t, got)
	// Every candidate was tried before giving up.
	assert.Equal(t, []string{"#missing", ".also-missing"}, probe.probed)
}

func TestResolveProbeErrorContinues(t *testing.T) {
	probe := &fakeProber{
		attached: map[string]bool{"#fallback": true},
		visible:  map[string]bool{"#fallback": true},
		failOn:   "#broken",
	}
	r := New(nil, 0)

	got, ok := r.Resolve(context.Background(), probe, []string{"#broken", "#fallback"})

	require.True(t, ok)
	assert.Equal(t, "#fallback", got)
}

func TestResolveRespectsCancellation(t *testing.T) {
	probe := &fakeProber{
		attached: map[string]bool{"#a": true},
		visible:  map[string]bool{"#a": true},
	}
	r := New(nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := r.Resolve(ctx, probe, []string{"#a"})

	assert.False(t, ok)
	assert.Empty(t, probe.probed)
}

func TestResolveTargetUsesGeneratedCandidates(t *testing.T) {
	// The raw target does not exist; the placeholder heuristic does.
	probe := &fakeProber{
		attached: map[string]bool{`input[placeholder*="search" i], textarea[placeholder*="search" i]`: true},
		visible:  map[string]bool{`input[placeholder*="search" i], textarea[placeholder*="search" i]`: true},
	}
	r := New(nil, 0)

	got, ok := r.ResolveTarget(context.Background(), probe, "search")

	require.True(t, ok)
	assert.Equal(t, `input[placeholder*="search" i], textarea[placeholder*="search" i]`, got)
	require.NotEmpty(t, probe.probed)
	assert.Equal(t, "search", probe.probed[0])
}
