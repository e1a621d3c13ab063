package driver

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagepilot/pkg/logging"
)

// Options configures a browser session.
type Options struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	ViewportWidth  int
	ViewportHeight int

	// DefaultTimeout is the default timeout for page operations
	DefaultTimeout time.Duration

	// SlowMo inserts a delay between driver operations, useful when
	// watching a headed run
	SlowMo time.Duration
}

// Session is the Playwright-backed Browser implementation. One session
// owns one browser, one context and the active-page cell. New pages
// opened by the site (target=_blank links, window.open) are observed
// through the context's page-created event and become the active page.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	active  pageCell
	log     *logging.Logger
	opts    Options
}

// Launch installs (if needed) and starts Playwright, launches Chromium
// and opens the initial page.
func Launch(opts Options) (*Session, error) {
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.DefaultTimeout == 0 {
		opts.DefaultTimeout = DefaultTimeout
	}

	logger, _ := logging.NewLogger("driver")

	// Discard driver output so it never interleaves with the run report.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	s := &Session{
		pw:      pw,
		browser: browser,
		context: context,
		log:     logger,
		opts:    opts,
	}

	// Asynchronous active-page handoff: whenever the context reports a
	// newly created page, it becomes the page the next instruction acts
	// on. This fires from the driver's event goroutine, not the run loop.
	context.OnPage(func(p playwright.Page) {
		s.log.Infof("new page created: %s", p.URL())
		p.SetDefaultTimeout(float64(opts.DefaultTimeout.Milliseconds()))
		s.active.Set(newPWPage(p, opts.DefaultTimeout))
	})

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.DefaultTimeout.Milliseconds()))
	s.active.Set(newPWPage(page, opts.DefaultTimeout))

	return s, nil
}

// ActivePage returns the page the next instruction should act on.
func (s *Session) ActivePage() Page {
	return s.active.Get()
}

// Reconcile resynchronizes the active page against the most recently
// created page in the context. The page-created event normally keeps
// the cell current; this re-check narrows the window in which an
// instruction could observe a stale reference right after a
// page-opening action.
func (s *Session) Reconcile() Page {
	pages := s.context.Pages()
	for i := len(pages) - 1; i >= 0; i-- {
		if pages[i].IsClosed() {
			continue
		}
		current := s.active.Get()
		if pw, ok := current.(*pwPage); ok && pw.page == pages[i] {
			return current
		}
		latest := newPWPage(pages[i], s.opts.DefaultTimeout)
		if s.active.Swap(latest) {
			s.log.Infof("active page reconciled to %s", pages[i].URL())
		}
		return latest
	}
	return s.active.Get()
}

// Cookies returns all cookies of the browsing context.
func (s *Session) Cookies() ([]Cookie, error) {
	pwCookies, err := s.context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}

	cookies := make([]Cookie, len(pwCookies))
	for i, c := range pwCookies {
		cookies[i] = Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookies[i].SameSite = string(*c.SameSite)
		}
	}
	return cookies, nil
}

// SetCookies installs cookies into the browsing context.
func (s *Session) SetCookies(cookies []Cookie) error {
	pwCookies := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		pwCookies[i] = playwright.OptionalCookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: playwright.String(c.Domain),
			Path:   playwright.String(c.Path),
		}
		if c.Expires != 0 {
			pwCookies[i].Expires = playwright.Float(c.Expires)
		}
		if c.HTTPOnly {
			pwCookies[i].HttpOnly = playwright.Bool(true)
		}
		if c.Secure {
			pwCookies[i].Secure = playwright.Bool(true)
		}
		if c.SameSite != "" {
			sameSite := playwright.SameSiteAttribute(c.SameSite)
			pwCookies[i].SameSite = &sameSite
		}
	}

	if err := s.context.AddCookies(pwCookies); err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	return nil
}

// Close shuts the browser and stops Playwright.
func (s *Session) Close() error {
	var errs []error
	if err := s.context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, err)
	}
	if s.log != nil {
		s.log.Close()
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing session: %v", errs)
	}
	return nil
}
