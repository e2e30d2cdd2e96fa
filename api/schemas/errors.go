package schemas

import (
	"fmt"
	"strings"
	"time"
)

// The scraping engine surfaces failures through a small typed taxonomy so
// callers can route on the failure class with errors.As. Authentication
// errors invalidate the stored session; resource-contention errors must not,
// which is why SessionBusyError is distinct from the auth family.

// UnsupportedPlatformError is returned when the requested platform has no
// registry entry. Configuration error: fatal, never retried.
type UnsupportedPlatformError struct {
	Platform  string
	Supported []string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %q (supported: %s)", e.Platform, strings.Join(e.Supported, ", "))
}

// LoginFormNotFoundError indicates the login page rendered without a usable
// credential form within the platform's login timeout.
type LoginFormNotFoundError struct {
	Platform string
	Selector string
}

func (e *LoginFormNotFoundError) Error() string {
	return fmt.Sprintf("%s: login form not found (selector %q)", e.Platform, e.Selector)
}

// TwoFactorRequiredError is returned in unattended contexts when the
// platform demands a second factor that no human is present to supply.
type TwoFactorRequiredError struct {
	Platform string
}

func (e *TwoFactorRequiredError) Error() string {
	return fmt.Sprintf("%s: two-factor verification required", e.Platform)
}

// TwoFactorTimeoutError is returned in interactive contexts when the manual
// verification window elapsed without the logged-in marker appearing.
type TwoFactorTimeoutError struct {
	Platform string
	Waited   time.Duration
}

func (e *TwoFactorTimeoutError) Error() string {
	return fmt.Sprintf("%s: two-factor verification not completed within %s", e.Platform, e.Waited)
}

// VerificationRequiredError indicates the post-submit wait timed out while
// the page URL pointed at a challenge/checkpoint flow.
type VerificationRequiredError struct {
	Platform string
	URL      string
}

func (e *VerificationRequiredError) Error() string {
	return fmt.Sprintf("%s: platform verification challenge at %s", e.Platform, e.URL)
}

// SessionBusyError is returned when another in-flight request already holds
// the lease on the same (platform, account) profile. The stored session is
// healthy; callers must not invalidate it.
type SessionBusyError struct {
	Key string
}

func (e *SessionBusyError) Error() string {
	return fmt.Sprintf("session %s is in use by another request", e.Key)
}

// NavigationTimeoutError wraps a navigation that exceeded its budget.
// Transient: the caller decides whether to retry.
type NavigationTimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("navigation to %s timed out after %s", e.URL, e.Timeout)
}

// LoginFailedError covers a credential submission that neither reached the
// logged-in state nor tripped a recognizable verification flow.
type LoginFailedError struct {
	Platform string
	Reason   string
}

func (e *LoginFailedError) Error() string {
	return fmt.Sprintf("%s: login failed: %s", e.Platform, e.Reason)
}
