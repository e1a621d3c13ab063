package auth

import (
	"context"
	"fmt"

	"github.com/gobwas/glob"

	"github.com/entrhq/pagepilot/pkg/driver"
)

// SiteStrategy is a hard-coded login sequence for a known domain,
// bypassing the generic heuristics with selectors known to be stable
// on that site. Strategy failure is never terminal: the engine falls
// through to the generic flow uniformly.
type SiteStrategy struct {
	// Name identifies the strategy in logs and payloads.
	Name string

	// pattern matches normalized page domains (glob, e.g. "*.google.com").
	pattern glob.Glob

	// login performs the site-specific sequence.
	login func(ctx context.Context, e *Engine, page driver.Page, creds Credentials) error
}

// Matches reports whether the strategy covers the domain.
func (s *SiteStrategy) Matches(domain string) bool {
	return domain != "" && s.pattern.Match(domain)
}

// builtinStrategies returns the known site-specialized flows.
func builtinStrategies() []*SiteStrategy {
	return []*SiteStrategy{
		{
			Name:    "github",
			pattern: glob.MustCompile("github.com"),
			login:   githubLogin,
		},
		{
			Name:    "google",
			pattern: glob.MustCompile("{google.com,accounts.google.com,*.google.com}"),
			login:   googleLogin,
		},
	}
}

// githubLogin drives github.com's dedicated login page with its fixed
// field ids.
func githubLogin(ctx context.Context, e *Engine, page driver.Page, creds Credentials) error {
	if err := page.Navigate("https://github.com/login", e.timeout); err != nil {
		return err
	}
	if err := page.Fill("#login_field", creds.Username, e.timeout); err != nil {
		return fmt.Errorf("username field: %w", err)
	}
	if err := page.Fill("#password", creds.Password, e.timeout); err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	if err := page.Click(`input[type="submit"][name="commit"]`, e.timeout); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if navigated, err := page.WaitForNavigation(e.timeout); err != nil {
		return err
	} else if !navigated {
		e.log.Warnf("github login submitted but no navigation observed")
	}
	return nil
}

// googleLogin drives accounts.google.com's two-step identifier flow.
func googleLogin(ctx context.Context, e *Engine, page driver.Page, creds Credentials) error {
	if err := page.Navigate("https://accounts.google.com/signin", e.timeout); err != nil {
		return err
	}
	if err := page.Fill("#identifierId", creds.Username, e.timeout); err != nil {
		return fmt.Errorf("identifier field: %w", err)
	}
	if err := page.Click("#identifierNext", e.timeout); err != nil {
		return fmt.Errorf("identifier next: %w", err)
	}
	if err := page.WaitFor(`input[type="password"]`, driver.StateVisible, e.timeout); err != nil {
		return fmt.Errorf("password step: %w", err)
	}
	if err := page.Fill(`input[type="password"]`, creds.Password, e.timeout); err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	if err := page.Click("#passwordNext", e.timeout); err != nil {
		return fmt.Errorf("password next: %w", err)
	}
	if navigated, err := page.WaitForNavigation(e.timeout); err != nil {
		return err
	} else if !navigated {
		e.log.Warnf("google login submitted but no navigation observed")
	}
	return nil
}

// strategyFor returns the strategy covering the page's domain, if any.
func (e *Engine) strategyFor(rawURL string) *SiteStrategy {
	domain := normalizeDomain(rawURL)
	for _, s := range e.strategies {
		if s.Matches(domain) {
			return s
		}
	}
	return nil
}
