package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/entrhq/pagepilot/pkg/driver"
)

// loginFormScript implements the compound login-form check: a form
// qualifies only when it both hints at authentication (action URL,
// password descendant, or suggestive input name) and is a visible,
// submittable password form. Requiring both halves avoids false
// positives from unrelated widgets that happen to contain a password
// field.
const loginFormScript = `() => {
	const actionHint = /(login|log-in|signin|sign-in|auth)/i;
	const nameHint = /(login|passwd|password|user)/i;
	for (const form of document.querySelectorAll('form')) {
		const action = form.getAttribute('action') || '';
		const inputs = Array.from(form.querySelectorAll('input'));
		const hasPassword = inputs.some(i => i.type === 'password');
		const suggestiveName = inputs.some(i => nameHint.test(i.name || ''));
		if (!actionHint.test(action) && !hasPassword && !suggestiveName) continue;

		const style = window.getComputedStyle(form);
		const rect = form.getBoundingClientRect();
		const visible = style.display !== 'none' && style.visibility !== 'hidden'
			&& rect.width > 0 && rect.height > 0;
		const hasSubmit = !!form.querySelector('button, input[type="submit"]');
		if (visible && hasPassword && hasSubmit) return true;
	}
	return false;
}`

// authLinkScript finds the most plausible auth-intent link, preferring
// header and nav regions, and explicitly skipping elements whose text
// or attributes carry the opposite intent (a signup call-to-action is
// not a login link and vice versa). Anchors report their href so the
// caller can navigate; other elements are clicked in place.
const authLinkScript = `(wantSignup) => {
	const loginHint = /(log\s*in|sign\s*in|login|signin)/i;
	const signupHint = /(sign\s*up|signup|register|create\s+(an\s+)?account|join|get\s+started)/i;
	const want = wantSignup ? signupHint : loginHint;
	const avoid = wantSignup ? loginHint : signupHint;
	const scopes = ['header a, header button', 'nav a, nav button', 'a, button, [role="button"]'];
	for (const scope of scopes) {
		for (const el of document.querySelectorAll(scope)) {
			const text = ((el.textContent || '') + ' '
				+ (el.getAttribute('aria-label') || '') + ' '
				+ (el.getAttribute('href') || '')).trim();
			if (!want.test(text) || avoid.test(text)) continue;
			const rect = el.getBoundingClientRect();
			if (rect.width === 0 || rect.height === 0) continue;
			if (el.tagName === 'A' && el.href) return { href: el.href };
			el.click();
			return { clicked: true };
		}
	}
	return null;
}`

// Conventional auth paths probed when no auth link can be found.
var loginPaths = []string{"/login", "/signin", "/auth/login", "/user/login", "/account/login"}

var signupPaths = []string{"/signup", "/register", "/join", "/account/signup"}

// hasLoginForm reports whether the page already presents a usable
// login form.
func (e *Engine) hasLoginForm(page driver.Page) bool {
	result, err := page.Evaluate(loginFormScript)
	if err != nil {
		e.log.Debugf("login form detection failed: %v", err)
		return false
	}
	found, _ := result.(bool)
	return found
}

// ensureAuthPage drives the page to an auth form if it is not already
// on one: first by following an auth-intent link, then by probing
// conventional paths on the current origin.
func (e *Engine) ensureAuthPage(ctx context.Context, page driver.Page, kind Kind) error {
	if e.hasLoginForm(page) {
		return nil
	}

	if e.followAuthLink(ctx, page, kind) && e.hasLoginForm(page) {
		return nil
	}

	origin, err := pageOrigin(page)
	if err != nil {
		return fmt.Errorf("no auth form found and origin unavailable: %w", err)
	}

	paths := loginPaths
	if kind == KindSignup {
		paths = signupPaths
	}
	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		candidate := origin + path
		e.log.Debugf("probing conventional auth path %s", candidate)
		if err := page.Navigate(candidate, e.timeout); err != nil {
			continue
		}
		if e.hasLoginForm(page) {
			e.log.Infof("auth form found at %s", candidate)
			return nil
		}
	}

	return fmt.Errorf("could not locate a %s form on %s", kind, origin)
}

// followAuthLink locates and follows an auth-intent link. Returns true
// when a navigation or in-page click happened.
func (e *Engine) followAuthLink(ctx context.Context, page driver.Page, kind Kind) bool {
	result, err := page.Evaluate(authLinkScript, kind == KindSignup)
	if err != nil || result == nil {
		return false
	}

	link, ok := result.(map[string]interface{})
	if !ok {
		return false
	}

	if href, ok := link["href"].(string); ok && href != "" {
		e.log.Infof("following auth link %s", href)
		if err := page.Navigate(href, e.timeout); err != nil {
			e.log.Warnf("auth link navigation failed: %v", err)
			return false
		}
		return true
	}

	if clicked, ok := link["clicked"].(bool); ok && clicked {
		// The click happened in-page; give a client-side route change
		// or navigation a moment to land.
		if _, err := page.WaitForNavigation(2 * time.Second); err != nil {
			return false
		}
		return true
	}

	return false
}

func pageOrigin(page driver.Page) (string, error) {
	u, err := url.Parse(page.URL())
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("page has no navigable origin: %q", page.URL())
	}
	return u.Scheme + "://" + u.Host, nil
}

// normalizeDomain lowers the page host and strips a www prefix for
// site-strategy matching.
func normalizeDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
