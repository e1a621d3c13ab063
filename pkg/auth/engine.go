// Package auth implements the authentication heuristic engine: it
// detects whether a page presents a login or signup form, navigates to
// one when needed, infers which of the two the page wants, and fills
// and submits it generically across unknown sites.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/pagepilot/pkg/driver"
	"github.com/entrhq/pagepilot/pkg/logging"
	"github.com/entrhq/pagepilot/pkg/resolve"
)

// Credentials carries the user-supplied identity for one attempt.
type Credentials struct {
	Username string
	Password string
	FullName string
}

// navigationWait bounds the post-submit wait for a page navigation.
// Expiry is a soft condition: many sites submit without one.
const navigationWait = 5 * time.Second

// Engine orchestrates authentication attempts.
type Engine struct {
	resolver   *resolve.Resolver
	log        *logging.Logger
	strategies []*SiteStrategy
	timeout    time.Duration
}

// NewEngine creates an engine with the built-in site strategies.
func NewEngine(resolver *resolve.Resolver, log *logging.Logger, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = driver.DefaultTimeout
	}
	return &Engine{
		resolver:   resolver,
		log:        log,
		strategies: builtinStrategies(),
		timeout:    timeout,
	}
}

// Login authenticates with an existing account. Known domains go
// through their specialized flow first; a strategy failure falls
// through to the generic flow rather than surfacing.
func (e *Engine) Login(ctx context.Context, page driver.Page, creds Credentials) (string, error) {
	if err := creds.validate(); err != nil {
		return "", err
	}

	if s := e.strategyFor(page.URL()); s != nil {
		e.log.Infof("using %s login strategy", s.Name)
		if err := s.login(ctx, e, page, creds); err == nil {
			return fmt.Sprintf("logged in via %s strategy", s.Name), nil
		} else {
			e.log.Warnf("%s strategy failed, falling back to generic flow: %v", s.Name, err)
		}
	}

	if err := e.ensureAuthPage(ctx, page, KindLogin); err != nil {
		return "", err
	}
	return e.fillAndSubmit(ctx, page, KindLogin, creds)
}

// Signup registers a new account through the generic flow.
func (e *Engine) Signup(ctx context.Context, page driver.Page, creds Credentials) (string, error) {
	if err := creds.validate(); err != nil {
		return "", err
	}
	if err := e.ensureAuthPage(ctx, page, KindSignup); err != nil {
		return "", err
	}
	return e.fillAndSubmit(ctx, page, KindSignup, creds)
}

// Authenticate infers whether the page wants a login or a signup and
// dispatches accordingly.
func (e *Engine) Authenticate(ctx context.Context, page driver.Page, creds Credentials) (string, error) {
	if err := creds.validate(); err != nil {
		return "", err
	}

	if !e.hasLoginForm(page) {
		if err := e.ensureAuthPage(ctx, page, KindLogin); err != nil {
			return "", err
		}
	}

	kind := e.inferPageKind(page)
	e.log.Infof("authentication type inferred as %s", kind)

	if kind == KindSignup {
		return e.fillAndSubmit(ctx, page, KindSignup, creds)
	}

	if s := e.strategyFor(page.URL()); s != nil {
		e.log.Infof("using %s login strategy", s.Name)
		if err := s.login(ctx, e, page, creds); err == nil {
			return fmt.Sprintf("logged in via %s strategy", s.Name), nil
		} else {
			e.log.Warnf("%s strategy failed, falling back to generic flow: %v", s.Name, err)
		}
	}
	return e.fillAndSubmit(ctx, page, KindLogin, creds)
}

// inferPageKind gathers the page's visible text and structural signals
// and classifies the form.
func (e *Engine) inferPageKind(page driver.Page) Kind {
	text, err := page.Text("body")
	if err != nil {
		e.log.Debugf("page text unavailable for inference: %v", err)
		text = ""
	}

	hasName := e.signalPresent(page, nameFieldSignal)
	hasConfirm := e.signalPresent(page, confirmFieldSignal)

	return InferKind(text, hasName, hasConfirm)
}

func (e *Engine) signalPresent(page driver.Page, selector string) bool {
	exists, err := page.Exists(selector, driver.DefaultProbeTimeout)
	return err == nil && exists
}

// fillAndSubmit resolves each field through its priority list, fills
// in order, clicks the submit control and waits softly for navigation.
// Missing required fields (username, password) fail the attempt naming
// the field; missing optional fields are skipped silently.
func (e *Engine) fillAndSubmit(ctx context.Context, page driver.Page, kind Kind, creds Credentials) (string, error) {
	userSel, ok := e.resolver.Resolve(ctx, page, usernameSelectors)
	if !ok {
		return "", fmt.Errorf("%s failed: could not locate a username or email field", kind)
	}
	if err := page.Fill(userSel, creds.Username, e.timeout); err != nil {
		return "", fmt.Errorf("%s failed: username field: %w", kind, err)
	}

	if kind == KindSignup && creds.FullName != "" {
		if nameSel, ok := e.resolver.Resolve(ctx, page, fullNameSelectors); ok {
			if err := page.Fill(nameSel, creds.FullName, e.timeout); err != nil {
				e.log.Warnf("full-name field fill failed, continuing: %v", err)
			}
		}
	}

	passSel, ok := e.resolver.Resolve(ctx, page, passwordSelectors)
	if !ok {
		return "", fmt.Errorf("%s failed: could not locate a password field", kind)
	}
	if err := page.Fill(passSel, creds.Password, e.timeout); err != nil {
		return "", fmt.Errorf("%s failed: password field: %w", kind, err)
	}

	if kind == KindSignup {
		if confirmSel, ok := e.resolver.Resolve(ctx, page, confirmPasswordSelectors); ok {
			if err := page.Fill(confirmSel, creds.Password, e.timeout); err != nil {
				e.log.Warnf("confirm-password fill failed, continuing: %v", err)
			}
		}
	}

	submitSel, ok := e.resolver.Resolve(ctx, page, submitSelectors(kind))
	if !ok {
		return "", fmt.Errorf("%s failed: could not locate a submit control", kind)
	}
	if err := page.Click(submitSel, e.timeout); err != nil {
		return "", fmt.Errorf("%s failed: submit: %w", kind, err)
	}

	navigated, err := page.WaitForNavigation(navigationWait)
	if err != nil {
		return "", fmt.Errorf("%s failed after submit: %w", kind, err)
	}
	if !navigated {
		e.log.Warnf("%s submitted but no navigation observed within %s; treating as uncertain success", kind, navigationWait)
		return fmt.Sprintf("%s submitted (no navigation observed)", kind), nil
	}
	return fmt.Sprintf("%s submitted, now at %s", kind, page.URL()), nil
}

func (c Credentials) validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
