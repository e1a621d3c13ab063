package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagepilot/pkg/driver"
	"github.com/entrhq/pagepilot/pkg/logging"
	"github.com/entrhq/pagepilot/pkg/resolve"
)

// fakePage simulates a page for the auth flows. Tests set present to
// script what the generic resolver can find, and hasForm/authLink to
// script the in-page detection.
type fakePage struct {
	url        string
	text       string
	present    map[string]bool
	hasForm    bool
	authLink   interface{}
	navErr     map[string]error
	navigates  bool
	onNavigate func(url string)

	navigated []string
	filled    map[string]string
	clicked   []string
	waited    []string
}

func newFakePage(url string) *fakePage {
	return &fakePage{
		url:     url,
		present: map[string]bool{},
		navErr:  map[string]error{},
		filled:  map[string]string{},
	}
}

func (p *fakePage) Navigate(url string, _ time.Duration) error {
	if err := p.navErr[url]; err != nil {
		return err
	}
	p.navigated = append(p.navigated, url)
	p.url = url
	if p.onNavigate != nil {
		p.onNavigate(url)
	}
	return nil
}

func (p *fakePage) Click(selector string, _ time.Duration) error {
	p.clicked = append(p.clicked, selector)
	return nil
}

func (p *fakePage) Fill(selector, text string, _ time.Duration) error {
	p.filled[selector] = text
	return nil
}

func (p *fakePage) Type(selector, text string, _ time.Duration) error { return nil }

func (p *fakePage) Press(string, string, time.Duration) error { return nil }

func (p *fakePage) Focus(string, time.Duration) error { return nil }

func (p *fakePage) WaitFor(selector string, _ driver.WaitState, _ time.Duration) error {
	p.waited = append(p.waited, selector)
	if p.present[selector] {
		return nil
	}
	return fmt.Errorf("timeout waiting for %s", selector)
}

func (p *fakePage) Exists(selector string, _ time.Duration) (bool, error) {
	return p.present[selector], nil
}

func (p *fakePage) Visible(selector string) (bool, error) {
	return p.present[selector], nil
}

func (p *fakePage) Evaluate(script string, _ ...interface{}) (interface{}, error) {
	if script == loginFormScript {
		return p.hasForm, nil
	}
	if script == authLinkScript {
		return p.authLink, nil
	}
	return nil, nil
}

func (p *fakePage) Screenshot(string, bool) error { return nil }

func (p *fakePage) Content() (string, error) { return "", nil }

func (p *fakePage) Text(string) (string, error) { return p.text, nil }

func (p *fakePage) Title() (string, error) { return "", nil }

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) BoundingBox(string, time.Duration) (*driver.Box, error) {
	return &driver.Box{Width: 1, Height: 1}, nil
}

func (p *fakePage) MouseMove(float64, float64) error { return nil }
func (p *fakePage) MouseDown() error                 { return nil }
func (p *fakePage) MouseUp() error                   { return nil }

func (p *fakePage) WaitForNavigation(time.Duration) (bool, error) {
	return p.navigates, nil
}

func newTestEngine() *Engine {
	log := logging.NewNopLogger()
	return NewEngine(resolve.New(log, time.Millisecond), log, time.Second)
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		hasName    bool
		hasConfirm bool
		want       Kind
	}{
		{
			name: "login keywords",
			text: "Welcome back. Sign in to continue. Forgot password?",
			want: KindLogin,
		},
		{
			name: "signup keywords",
			text: "Create your account. Sign up free. Already have an account?",
			want: KindSignup,
		},
		{
			name:    "name field is decisive despite login copy",
			text:    "Sign in sign in sign in",
			hasName: true,
			want:    KindSignup,
		},
		{
			name:       "confirm field is decisive",
			text:       "",
			hasConfirm: true,
			want:       KindSignup,
		},
		{
			name: "tie falls to login",
			text: "sign in or sign up",
			want: KindLogin,
		},
		{
			name: "empty page falls to login",
			text: "",
			want: KindLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.text, tt.hasName, tt.hasConfirm))
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "github.com", normalizeDomain("https://www.github.com/login"))
	assert.Equal(t, "accounts.google.com", normalizeDomain("https://accounts.google.com/signin?x=1"))
	assert.Equal(t, "example.com", normalizeDomain("https://EXAMPLE.com"))
	assert.Equal(t, "", normalizeDomain("://bad"))
}

func TestStrategySelection(t *testing.T) {
	e := newTestEngine()

	s := e.strategyFor("https://www.github.com/explore")
	require.NotNil(t, s)
	assert.Equal(t, "github", s.Name)

	s = e.strategyFor("https://accounts.google.com/signin")
	require.NotNil(t, s)
	assert.Equal(t, "google", s.Name)

	assert.Nil(t, e.strategyFor("https://example.com/login"))
}

func TestLoginStrategyFallsBackToGenericFlow(t *testing.T) {
	e := newTestEngine()

	// The page matches the github strategy but its fixed selectors are
	// absent, so the strategy fails and the generic flow must run.
	page := newFakePage("https://github.com/enterprise")
	page.navErr["https://github.com/login"] = fmt.Errorf("blocked")
	page.hasForm = true
	page.present[`input[type="email"]`] = true
	page.present[passwordSelectors[0]] = true
	page.present[`form button[type="submit"]`] = true
	page.navigates = true

	out, err := e.Login(context.Background(), page, Credentials{
		Username: "user@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "login submitted")
	assert.Equal(t, "user@example.com", page.filled[`input[type="email"]`])
	assert.Equal(t, "hunter2", page.filled[passwordSelectors[0]])
	assert.Contains(t, page.clicked, `form button[type="submit"]`)
}

func TestLoginRequiresCredentials(t *testing.T) {
	e := newTestEngine()
	page := newFakePage("https://example.com")

	_, err := e.Login(context.Background(), page, Credentials{Username: "user"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")

	_, err = e.Login(context.Background(), page, Credentials{Password: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}

func TestSignupFillsOptionalFields(t *testing.T) {
	e := newTestEngine()

	page := newFakePage("https://example.com/register")
	page.hasForm = true
	page.present[`input[type="email"]`] = true
	page.present[`input[autocomplete="name"]`] = true
	page.present[passwordSelectors[0]] = true
	page.present[confirmPasswordSelectors[0]] = true
	page.present[`form button[type="submit"]`] = true
	page.navigates = true

	_, err := e.Signup(context.Background(), page, Credentials{
		Username: "user@example.com",
		Password: "hunter2",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", page.filled[`input[autocomplete="name"]`])
	assert.Equal(t, "hunter2", page.filled[confirmPasswordSelectors[0]])
}

func TestSubmitWithoutNavigationIsUncertainSuccess(t *testing.T) {
	e := newTestEngine()

	page := newFakePage("https://example.com/login")
	page.hasForm = true
	page.present[`input[type="email"]`] = true
	page.present[passwordSelectors[0]] = true
	page.present[`form button[type="submit"]`] = true
	page.navigates = false

	out, err := e.fillAndSubmit(context.Background(), page, KindLogin, Credentials{
		Username: "user@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "no navigation observed")
}

func TestFillAndSubmitMissingPasswordField(t *testing.T) {
	e := newTestEngine()

	page := newFakePage("https://example.com/login")
	page.present[`input[type="email"]`] = true

	_, err := e.fillAndSubmit(context.Background(), page, KindLogin, Credentials{
		Username: "user@example.com",
		Password: "hunter2",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password field")
}

func TestEnsureAuthPageFallsBackToConventionalPaths(t *testing.T) {
	e := newTestEngine()

	// No form on the landing page and no auth link anywhere; the first
	// conventional path that serves a form wins.
	page := newFakePage("https://example.com/pricing")
	page.navErr["https://example.com/login"] = fmt.Errorf("404")
	page.onNavigate = func(url string) {
		if strings.HasSuffix(url, "/signin") {
			page.hasForm = true
		}
	}

	err := e.ensureAuthPage(context.Background(), page, KindLogin)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/signin", page.url)
}

func TestEnsureAuthPageFollowsDiscoveredLink(t *testing.T) {
	e := newTestEngine()

	page := newFakePage("https://example.com")
	page.authLink = map[string]interface{}{"href": "https://example.com/accounts/login"}
	page.onNavigate = func(url string) {
		if strings.Contains(url, "/accounts/login") {
			page.hasForm = true
		}
	}

	err := e.ensureAuthPage(context.Background(), page, KindLogin)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/accounts/login", page.url)
}

func TestEnsureAuthPageGivesUpWhenNothingWorks(t *testing.T) {
	e := newTestEngine()

	page := newFakePage("https://example.com")
	err := e.ensureAuthPage(context.Background(), page, KindSignup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signup")
}
