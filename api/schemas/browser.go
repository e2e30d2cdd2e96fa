package schemas

import (
	"context"
	"time"
)

// Persona defines the browser characteristics a session presents to the
// platform: user agent, navigator properties, and viewport. A consistent
// persona across navigation and input is part of fingerprint neutralization.
type Persona struct {
	UserAgent string
	Platform  string
	Languages []string
	Timezone  string
	Locale    string
	Width     int64
	Height    int64
}

// DefaultPersona is a realistic desktop Chrome profile.
var DefaultPersona = Persona{
	UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	Platform:  "Win32",
	Languages: []string{"en-US", "en"},
	Timezone:  "America/Los_Angeles",
	Locale:    "en-US",
	Width:     1366,
	Height:    768,
}

// PageDriver is the browser automation capability the engine consumes. The
// chromedp-backed implementation lives in internal/browser; tests substitute
// fakes. Every method suspends on the supplied context and returns promptly
// once it is canceled.
type PageDriver interface {
	// Navigate loads the URL and waits for the document to become ready,
	// bounded by timeout. Exceeding it yields a *NavigationTimeoutError.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// CurrentURL reports the page's current location.
	CurrentURL(ctx context.Context) (string, error)

	// WaitVisible blocks until an element matching selector is visible or
	// the timeout elapses. A missing selector is reported as an error; it is
	// the caller's job to decide whether absence is benign.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// OuterHTMLAll returns the outer HTML of every element matching
	// selector, in document order. An empty slice is not an error.
	OuterHTMLAll(ctx context.Context, selector string) ([]string, error)

	// Click performs a human-paced click on the first element matching
	// selector.
	Click(ctx context.Context, selector string) error

	// Type clears the field matching selector and enters text with
	// human-paced keystrokes.
	Type(ctx context.Context, selector string, text string) error

	// ScrollToBottom scrolls the window to the document's full height to
	// trigger incremental content loading.
	ScrollToBottom(ctx context.Context) error

	// ScrollBy scrolls by the given fraction of the viewport height.
	ScrollBy(ctx context.Context, fraction float64) error

	// Evaluate runs a JavaScript expression in page context, unmarshaling
	// the result into out when out is non-nil.
	Evaluate(ctx context.Context, expression string, out any) error

	// Close tears down the tab and its browsing context.
	Close(ctx context.Context) error
}
