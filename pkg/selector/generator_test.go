package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFirstCandidateIsRawInput(t *testing.T) {
	candidates := Generate("search")

	require.NotEmpty(t, candidates)
	assert.Equal(t, "search", candidates[0])
}

func TestGenerateIsStable(t *testing.T) {
	first := Generate("search")
	second := Generate("search")

	assert.Equal(t, first, second)
}

func TestGenerateCoversHeuristicFamilies(t *testing.T) {
	candidates := Generate("search")

	assert.Contains(t, candidates, `input[placeholder*="search" i], textarea[placeholder*="search" i]`)
	assert.Contains(t, candidates, `[aria-label*="search" i]`)
	assert.Contains(t, candidates, `button:has-text("search")`)
	assert.Contains(t, candidates, `a:has-text("search")`)
	assert.Contains(t, candidates, `text=search`)
	assert.Contains(t, candidates, `.search`)
	assert.Contains(t, candidates, `#search`)
	assert.Contains(t, candidates, `[data-testid="search"]`)
	assert.Contains(t, candidates, `[data-qa="search"]`)
}

func TestGenerateOrderEncodesPriority(t *testing.T) {
	candidates := Generate("search")

	index := func(s string) int {
		for i, c := range candidates {
			if c == s {
				return i
			}
		}
		t.Fatalf("candidate %q not generated", s)
		return -1
	}

	// raw < scoped attribute < unscoped attribute < text < structural < test attrs
	assert.Less(t, index("search"), index(`input[name*="search" i], textarea[name*="search" i]`))
	assert.Less(t, index(`input[name*="search" i], textarea[name*="search" i]`), index(`[name*="search" i]`))
	assert.Less(t, index(`[name*="search" i]`), index(`button:has-text("search")`))
	assert.Less(t, index(`button:has-text("search")`), index(`#search`))
	assert.Less(t, index(`#search`), index(`[data-testid="search"]`))
}

func TestGenerateStripsQuotes(t *testing.T) {
	candidates := Generate(`"Sign in"`)

	assert.Equal(t, `"Sign in"`, candidates[0])
	assert.Contains(t, candidates, `button:has-text("Sign in")`)
	assert.Contains(t, candidates, `.Sign-in`)
}

func TestGenerateMultiWordLabel(t *testing.T) {
	candidates := Generate("create account")

	assert.Contains(t, candidates, `button:has-text("create account")`)
	assert.Contains(t, candidates, `.create-account`)
	assert.Contains(t, candidates, `#create-account`)
}

func TestGenerateEmptyTarget(t *testing.T) {
	candidates := Generate("   ")

	require.Len(t, candidates, 1)
	assert.Equal(t, "", candidates[0])
}

func TestGenerateExplicitSelectorStaysFirst(t *testing.T) {
	candidates := Generate("#login-form input[type=submit]")

	assert.Equal(t, "#login-form input[type=submit]", candidates[0])
}
