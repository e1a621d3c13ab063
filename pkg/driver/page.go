package driver

import (
	"fmt"
	"strconv"
	"time"

	"github.com/playwright-community/playwright-go"
)

// pwPage adapts a playwright.Page to the Page interface.
type pwPage struct {
	page           playwright.Page
	defaultTimeout time.Duration
}

func newPWPage(page playwright.Page, defaultTimeout time.Duration) *pwPage {
	return &pwPage{page: page, defaultTimeout: defaultTimeout}
}

func (p *pwPage) timeout(d time.Duration) float64 {
	if d <= 0 {
		d = p.defaultTimeout
	}
	return float64(d.Milliseconds())
}

func (p *pwPage) Navigate(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(p.timeout(timeout)),
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *pwPage) Click(selector string, timeout time.Duration) error {
	err := p.page.Click(selector, playwright.PageClickOptions{
		Timeout: playwright.Float(p.timeout(timeout)),
	})
	if err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *pwPage) Fill(selector, text string, timeout time.Duration) error {
	err := p.page.Fill(selector, text, playwright.PageFillOptions{
		Timeout: playwright.Float(p.timeout(timeout)),
	})
	if err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *pwPage) Type(selector, text string, delay time.Duration) error {
	opts := playwright.PageTypeOptions{
		Timeout: playwright.Float(p.timeout(0)),
	}
	if delay > 0 {
		opts.Delay = playwright.Float(float64(delay.Milliseconds()))
	}
	if err := p.page.Type(selector, text, opts); err != nil {
		return fmt.Errorf("type failed: %w", err)
	}
	return nil
}

func (p *pwPage) Press(selector, key string, timeout time.Duration) error {
	err := p.page.Press(selector, key, playwright.PagePressOptions{
		Timeout: playwright.Float(p.timeout(timeout)),
	})
	if err != nil {
		return fmt.Errorf("press failed: %w", err)
	}
	return nil
}

func (p *pwPage) Focus(selector string, timeout time.Duration) error {
	err := p.page.Focus(selector, playwright.PageFocusOptions{
		Timeout: playwright.Float(p.timeout(timeout)),
	})
	if err != nil {
		return fmt.Errorf("focus failed: %w", err)
	}
	return nil
}

func (p *pwPage) WaitFor(selector string, state WaitState, timeout time.Duration) error {
	opts := playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(p.timeout(timeout)),
	}
	switch state {
	case StateAttached:
		opts.State = playwright.WaitForSelectorStateAttached
	case StateDetached:
		opts.State = playwright.WaitForSelectorStateDetached
	case StateHidden:
		opts.State = playwright.WaitForSelectorStateHidden
	default:
		opts.State = playwright.WaitForSelectorStateVisible
	}

	if _, err := p.page.WaitForSelector(selector, opts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// Exists probes for an attached element within the timeout. A timeout
// is reported as a plain miss so candidate resolution can continue.
func (p *pwPage) Exists(selector string, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	el, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return false, nil
	}
	return el != nil, nil
}

// Visible reports whether the first match is rendered: attached with a
// non-zero layout box, not display:none / visibility:hidden / opacity:0.
func (p *pwPage) Visible(selector string) (bool, error) {
	el, err := p.page.QuerySelector(selector)
	if err != nil || el == nil {
		return false, nil
	}

	visible, err := el.IsVisible()
	if err != nil || !visible {
		return false, nil
	}

	box, err := el.BoundingBox()
	if err != nil || box == nil || box.Width <= 0 || box.Height <= 0 {
		return false, nil
	}

	// IsVisible covers display/visibility but not opacity.
	raw, err := el.Evaluate(`el => getComputedStyle(el).opacity`)
	if err == nil {
		if opacity, ok := toFloat(raw); ok && opacity == 0 {
			return false, nil
		}
	}

	return true, nil
}

func (p *pwPage) Evaluate(script string, args ...interface{}) (interface{}, error) {
	result, err := p.page.Evaluate(script, args...)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

func (p *pwPage) Screenshot(path string, fullPage bool) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(fullPage),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

func (p *pwPage) Content() (string, error) {
	content, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}
	return content, nil
}

func (p *pwPage) Text(selector string) (string, error) {
	if selector == "" {
		selector = "body"
	}
	el, err := p.page.QuerySelector(selector)
	if err != nil {
		return "", fmt.Errorf("selector query failed: %w", err)
	}
	if el == nil {
		return "", fmt.Errorf("no element found matching selector: %s", selector)
	}
	text, err := el.TextContent()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}

func (p *pwPage) Title() (string, error) {
	return p.page.Title()
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) BoundingBox(selector string, timeout time.Duration) (*Box, error) {
	el, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(p.timeout(timeout)),
	})
	if err != nil {
		return nil, fmt.Errorf("element not found: %s: %w", selector, err)
	}
	box, err := el.BoundingBox()
	if err != nil {
		return nil, fmt.Errorf("bounding box query failed: %w", err)
	}
	if box == nil {
		return nil, fmt.Errorf("element has no layout box: %s", selector)
	}
	return &Box{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (p *pwPage) MouseMove(x, y float64) error {
	return p.page.Mouse().Move(x, y)
}

func (p *pwPage) MouseDown() error {
	return p.page.Mouse().Down()
}

func (p *pwPage) MouseUp() error {
	return p.page.Mouse().Up()
}

// WaitForNavigation polls for a URL change. A timeout is not an error:
// many submissions update the page in place.
func (p *pwPage) WaitForNavigation(timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	start := p.page.URL()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if p.page.IsClosed() {
			return false, fmt.Errorf("page closed while waiting for navigation")
		}
		if p.page.URL() != start {
			// Let the new document reach the load event before returning.
			_ = p.page.WaitForLoadState()
			return true, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
