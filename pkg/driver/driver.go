// Package driver defines the browser capability the instruction engine
// consumes, and provides the Playwright-backed implementation of it.
//
// The engine only ever talks to the Page and Browser interfaces; tests
// substitute fakes for both.
package driver

import "time"

// WaitState describes the element state a wait should resolve on.
type WaitState string

const (
	StateAttached WaitState = "attached"
	StateDetached WaitState = "detached"
	StateVisible  WaitState = "visible"
	StateHidden   WaitState = "hidden"
)

// Default values for driver operations.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultProbeTimeout   = 400 * time.Millisecond
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Box is an element's bounding box in page coordinates.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Cookie is one browser cookie record.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Page is the operation surface for a single browsing surface (tab).
// All blocking operations carry their own bounded timeout; a zero
// timeout means the implementation default.
type Page interface {
	// Navigate loads a URL and waits for the load event.
	Navigate(url string, timeout time.Duration) error

	// Click clicks the first element matching the selector.
	Click(selector string, timeout time.Duration) error

	// Fill sets an input's value in one shot.
	Fill(selector, text string, timeout time.Duration) error

	// Type focuses the element and emits per-character key events.
	Type(selector, text string, delay time.Duration) error

	// Press sends a single key (e.g. "Enter") to the element.
	Press(selector, key string, timeout time.Duration) error

	// Focus focuses the first element matching the selector.
	Focus(selector string, timeout time.Duration) error

	// WaitFor blocks until the selector reaches the given state.
	WaitFor(selector string, state WaitState, timeout time.Duration) error

	// Exists reports whether the selector matches any attached element
	// within the timeout. A miss is not an error.
	Exists(selector string, timeout time.Duration) (bool, error)

	// Visible reports whether the first match is currently rendered:
	// attached, non-zero box, not hidden via display/visibility/opacity.
	Visible(selector string) (bool, error)

	// Evaluate runs a script in the page and returns its value.
	Evaluate(script string, args ...interface{}) (interface{}, error)

	// Screenshot writes a screenshot to path.
	Screenshot(path string, fullPage bool) error

	// Content returns the page's full HTML.
	Content() (string, error)

	// Text returns the text content of the first match, or of the body
	// when selector is empty.
	Text(selector string) (string, error)

	// Title returns the page title.
	Title() (string, error)

	// URL returns the page's current URL.
	URL() string

	// BoundingBox returns the first match's layout box.
	BoundingBox(selector string, timeout time.Duration) (*Box, error)

	// Low-level mouse control, used for drag sequences.
	MouseMove(x, y float64) error
	MouseDown() error
	MouseUp() error

	// WaitForNavigation blocks until the page's URL changes, bounded by
	// timeout. Returns false without error when the timeout elapses:
	// many submissions never trigger a full navigation.
	WaitForNavigation(timeout time.Duration) (bool, error)
}

// Browser is the session-level capability: cookie access and the
// process-wide active page.
type Browser interface {
	// ActivePage returns the page the next instruction should act on.
	ActivePage() Page

	// Reconcile resynchronizes the active page against the most
	// recently created page and returns it. The runner calls this
	// before each dispatch to narrow the window in which a newly
	// opened tab has not yet been observed.
	Reconcile() Page

	Cookies() ([]Cookie, error)
	SetCookies(cookies []Cookie) error

	Close() error
}
