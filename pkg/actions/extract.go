package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxExtractLength bounds extraction payloads so one instruction cannot
// flood the run report.
const maxExtractLength = 10000

// handleExtractText returns the text content of the optional target, or
// of the whole page body. Read-only: invoking it twice on an unchanged
// page yields identical payloads.
func handleExtractText(ctx context.Context, env *Env, params []string) (string, error) {
	sel := ""
	if len(params) > 0 && params[0] != "" {
		resolved, ok := env.Resolver.ResolveTarget(ctx, env.Page, params[0])
		if !ok {
			return "", fmt.Errorf("no element found for %q", params[0])
		}
		sel = resolved
	}

	text, err := env.Page.Text(sel)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if len(text) > maxExtractLength {
		return text[:maxExtractLength] +
			fmt.Sprintf("\n\n[content truncated: %d of %d characters shown]", maxExtractLength, len(text)), nil
	}
	return text, nil
}

// handleExtractHTML returns cleaned page HTML. An optional explicit CSS
// selector scopes extraction to one element; heuristic resolution is
// skipped here because the selector is evaluated inside the page.
func handleExtractHTML(ctx context.Context, env *Env, params []string) (string, error) {
	var raw string
	if len(params) > 0 && params[0] != "" {
		result, err := env.Page.Evaluate(
			`sel => { const el = document.querySelector(sel); return el ? el.outerHTML : null; }`,
			params[0],
		)
		if err != nil {
			return "", err
		}
		html, ok := result.(string)
		if !ok {
			return "", fmt.Errorf("no element found matching selector: %s", params[0])
		}
		raw = html
	} else {
		content, err := env.Page.Content()
		if err != nil {
			return "", err
		}
		raw = content
	}

	cleaned, err := cleanHTML(raw, maxExtractLength)
	if err != nil {
		return "", err
	}
	return cleaned.HTML, nil
}

// handleExtractLinks lists every hyperlink on the page as "text -> href".
func handleExtractLinks(ctx context.Context, env *Env, params []string) (string, error) {
	content, err := env.Page.Content()
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var lines []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "javascript:") {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			text = "(no text)"
		}
		lines = append(lines, fmt.Sprintf("%s -> %s", text, href))
	})

	if len(lines) == 0 {
		return "no links found", nil
	}
	return fmt.Sprintf("%d links:\n%s", len(lines), strings.Join(lines, "\n")), nil
}

func handleEval(ctx context.Context, env *Env, params []string) (string, error) {
	result, err := env.Page.Evaluate(params[0])
	if err != nil {
		return "", err
	}
	if result == nil {
		return "undefined", nil
	}
	return fmt.Sprintf("%v", result), nil
}
