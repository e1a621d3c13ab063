// Package parse turns free-form instruction lines into structured
// actions validated against the registry's vocabulary.
package parse

import (
	"fmt"
	"strings"

	"github.com/entrhq/pagepilot/pkg/actions"
)

// CommentMarker starts an ignorable line.
const CommentMarker = "#"

// Action is one successfully parsed instruction. Skip marks a comment
// or blank line the runner records as an automatic success.
type Action struct {
	Key        string
	Params     []string
	Descriptor *actions.Descriptor
	Skip       bool
}

// Failure describes why a line could not be parsed. Malformed input is
// an expected, common case in user-authored scripts, so this is a
// value result, not an error.
type Failure struct {
	Reason string
}

// Parser matches lines against a registry. Parsing is a pure function
// of the line text and the (fixed) vocabulary: no page state involved.
type Parser struct {
	registry *actions.Registry
}

func New(registry *actions.Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse tokenizes one line, matches the longest registered keyword
// phrase as a case-insensitive token prefix, splits the remainder into
// parameters per the action's arity policy, and validates the minimum
// parameter contract. Exactly one of the results is non-nil.
func (p *Parser) Parse(line string) (*Action, *Failure) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentMarker) {
		return &Action{Key: "skip", Skip: true}, nil
	}

	tokens := strings.Fields(trimmed)
	desc, consumed := p.match(tokens)
	if desc == nil {
		return nil, &Failure{Reason: fmt.Sprintf("unknown action %q", tokens[0])}
	}

	rest := consumeTokens(trimmed, consumed)
	params := splitParams(rest, desc)

	if len(params) < desc.MinParams {
		return nil, &Failure{Reason: fmt.Sprintf(
			"%s needs at least %d argument(s), got %d. Usage: %s",
			desc.Key, desc.MinParams, len(params), desc.Usage)}
	}

	return &Action{Key: desc.Key, Params: params, Descriptor: desc}, nil
}

// match finds the descriptor whose keyword phrase prefix-matches the
// tokens. When phrases overlap ("wait" vs "wait for"), the longer
// phrase wins explicitly rather than by registration accident.
func (p *Parser) match(tokens []string) (*actions.Descriptor, int) {
	// Hand-carved alias: a single "goto" token means "go to".
	if strings.EqualFold(tokens[0], "goto") {
		if d, ok := p.registry.Lookup("goto"); ok {
			return d, 1
		}
	}

	var best *actions.Descriptor
	for _, d := range p.registry.Descriptors() {
		if !phraseMatches(tokens, d.Phrase) {
			continue
		}
		if best == nil || len(d.Phrase) > len(best.Phrase) {
			best = d
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, len(best.Phrase)
}

func phraseMatches(tokens, phrase []string) bool {
	if len(tokens) < len(phrase) {
		return false
	}
	for i, word := range phrase {
		if !strings.EqualFold(tokens[i], word) {
			return false
		}
	}
	return true
}

// consumeTokens drops the first n whitespace-separated tokens from the
// line, preserving the remainder's internal spacing.
func consumeTokens(line string, n int) string {
	rest := line
	for i := 0; i < n; i++ {
		rest = strings.TrimLeft(rest, " \t")
		if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
			rest = rest[idx:]
		} else {
			rest = ""
		}
	}
	return strings.TrimSpace(rest)
}

// splitParams applies the action's parameter policy: single-parameter
// actions take the remaining text verbatim (a URL or sentence is never
// word-split); multi-parameter actions split on commas, except inside
// quoted substrings.
func splitParams(rest string, desc *actions.Descriptor) []string {
	if rest == "" {
		return nil
	}
	if desc.MinParams <= 1 {
		return []string{stripOuterQuotes(rest)}
	}

	segments := splitSegments(rest)

	// FoldTail actions treat everything after the first comma as one
	// free-text parameter unless the author quoted segments explicitly.
	if desc.FoldTail && len(segments) > 2 && !anyQuoted(segments[1:]) {
		folded := make([]string, 0, len(segments)-1)
		for _, s := range segments[1:] {
			folded = append(folded, s.text)
		}
		return []string{segments[0].text, strings.Join(folded, ", ")}
	}

	params := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.text == "" && !s.quoted {
			continue
		}
		params = append(params, s.text)
	}
	return params
}

type segment struct {
	text   string
	quoted bool
}

// splitSegments splits on commas with single/double-quote and
// backslash-escape awareness. Quote characters are stripped from the
// output; the quoted flag records that a segment was explicit.
func splitSegments(s string) []segment {
	var segments []segment
	var current strings.Builder
	var quote rune
	quoted := false
	escaped := false

	flush := func() {
		segments = append(segments, segment{
			text:   strings.TrimSpace(current.String()),
			quoted: quoted,
		})
		current.Reset()
		quoted = false
	}

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			quoted = true
		case r == ',':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return segments
}

func anyQuoted(segments []segment) bool {
	for _, s := range segments {
		if s.quoted {
			return true
		}
	}
	return false
}

// stripOuterQuotes unwraps a fully quoted single parameter so
// `go to "https://example.com"` behaves like the unquoted form.
func stripOuterQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
