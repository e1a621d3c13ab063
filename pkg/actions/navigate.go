package actions

import (
	"context"
	"fmt"
	"strings"
)

// handleGoto navigates the active page. Bare domains get https://
// prepended here, not in the parser: the parser stays a pure function
// of the instruction text.
func handleGoto(ctx context.Context, env *Env, params []string) (string, error) {
	url := normalizeURL(params[0])
	if err := env.Page.Navigate(url, env.Timeout); err != nil {
		return "", err
	}
	return fmt.Sprintf("navigated to %s", env.Page.URL()), nil
}

func normalizeURL(raw string) string {
	url := strings.TrimSpace(raw)
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "about:") || strings.HasPrefix(url, "file://") {
		return url
	}
	return "https://" + url
}
