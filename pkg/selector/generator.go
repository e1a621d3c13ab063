// Package selector turns a human-friendly target description into an
// ordered list of candidate selector expressions.
//
// Real-world pages rarely expose a single canonical way to address an
// element by a short label, so the generator trades precision for a
// ranked best-effort list. Ordering encodes a reliability prior:
// explicit user selector > semantic attribute match > free-text match >
// structural fallback.
package selector

import (
	"fmt"
	"strings"
)

// candidateRule renders one candidate expression from a target
// description. Transform, when set, is applied to the sanitized target
// before rendering.
type candidateRule struct {
	format    string
	transform func(string) string
}

// candidateRules is the ranking policy. Order is part of the contract:
// the resolver accepts the first rule whose rendered selector matches a
// visible element.
var candidateRules = []candidateRule{
	// Attribute substring matches scoped to form controls first.
	{format: `input[placeholder*=%[1]q i], textarea[placeholder*=%[1]q i]`},
	{format: `input[aria-label*=%[1]q i], textarea[aria-label*=%[1]q i]`},
	{format: `input[name*=%[1]q i], textarea[name*=%[1]q i]`},
	{format: `input[id*=%[1]q i], textarea[id*=%[1]q i]`},

	// Then the same attributes on any element.
	{format: `[placeholder*=%[1]q i]`},
	{format: `[aria-label*=%[1]q i]`},
	{format: `[name*=%[1]q i]`},
	{format: `[id*=%[1]q i]`},

	// Text-content matches: buttons and links before arbitrary elements.
	{format: `button:has-text(%[1]q)`},
	{format: `a:has-text(%[1]q)`},
	{format: `text=%[1]s`},

	// Class and id literal interpretations of the raw token.
	{format: `.%[1]s`, transform: tokenize},
	{format: `#%[1]s`, transform: tokenize},

	// Common automation test-attribute conventions.
	{format: `[data-testid=%[1]q]`},
	{format: `[data-test=%[1]q]`},
	{format: `[data-cy=%[1]q]`},
	{format: `[data-qa=%[1]q]`},
}

// Generate returns the ordered candidate list for a target description.
// The first element is always the trimmed input itself, so a caller who
// already holds a fully-formed selector gets it tried verbatim before
// any heuristic. Pure and deterministic: equal inputs yield equal lists.
func Generate(target string) []string {
	raw := strings.TrimSpace(target)
	clean := sanitize(raw)

	candidates := make([]string, 0, len(candidateRules)+1)
	candidates = append(candidates, raw)

	if clean == "" {
		return candidates
	}

	for _, rule := range candidateRules {
		value := clean
		if rule.transform != nil {
			value = rule.transform(clean)
			if value == "" {
				continue
			}
		}
		candidate := fmt.Sprintf(rule.format, value)
		if candidate == raw {
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates
}

// sanitize strips quote characters so a quoted label like "Sign in"
// renders into attribute and text selectors without breaking them.
func sanitize(target string) string {
	replacer := strings.NewReplacer(`"`, "", `'`, "", "`", "", `\`, "")
	return strings.TrimSpace(replacer.Replace(target))
}

// tokenize collapses a free-text label into a single class/id token.
// Multi-word labels become dash-joined ("sign in" -> "sign-in").
func tokenize(target string) string {
	return strings.Join(strings.Fields(target), "-")
}
