// Package auth drives the login flow for one request as an explicit state
// machine: probe an existing session, fall back to credential submission,
// and resolve the post-submit race between the logged-in marker, a
// two-factor prompt, and a timeout.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/platform"
)

// State is the machine's position in the login flow. Authenticated and
// Failed are terminal for the request.
type State int

const (
	StateNoSession State = iota
	StateCheckingExisting
	StateLoggingIn
	StateSubmittingCredentials
	StateAwaitingVerification
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNoSession:
		return "no_session"
	case StateCheckingExisting:
		return "checking_existing"
	case StateLoggingIn:
		return "logging_in"
	case StateSubmittingCredentials:
		return "submitting_credentials"
	case StateAwaitingVerification:
		return "awaiting_verification"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Credentials is the username/password pair submitted during login.
type Credentials struct {
	Email    string
	Password string
}

// Options tune a single run of the machine.
type Options struct {
	// TryExisting enables the existing-session probe before falling back to
	// a fresh login. Callers set it when the stored session is fresh enough
	// to plausibly still be valid.
	TryExisting bool
	// Interactive permits blocking on manual two-factor entry. Unattended
	// runs fail immediately with *schemas.TwoFactorRequiredError instead.
	Interactive bool
	// TwoFactorWait is the interactive verification ceiling.
	TwoFactorWait time.Duration
}

const (
	existingProbeTimeout = 8 * time.Second
	popupProbeTimeout    = 1500 * time.Millisecond
	passwordShortWait    = 2 * time.Second
	submitPollInterval   = 500 * time.Millisecond
	verifyPollInterval   = 2 * time.Second
)

// Result reports a successful terminal state.
type Result struct {
	// SessionReused is true when the existing-session probe succeeded and no
	// credentials were submitted.
	SessionReused bool
}

// Machine executes the login flow against one page.
type Machine struct {
	cfg    *platform.Config
	page   schemas.PageDriver
	opts   Options
	logger *zap.Logger

	state State
}

// NewMachine creates a machine in the NoSession state.
func NewMachine(cfg *platform.Config, page schemas.PageDriver, opts Options, logger *zap.Logger) *Machine {
	return &Machine{
		cfg:    cfg,
		page:   page,
		opts:   opts,
		logger: logger.Named("auth").With(zap.String("platform", cfg.Name)),
		state:  StateNoSession,
	}
}

// State returns the machine's current state.
func (m *Machine) State() State {
	return m.state
}

// Run drives the machine to a terminal state. A nil error means
// Authenticated; any error means Failed, with the error type describing why.
func (m *Machine) Run(ctx context.Context, creds Credentials) (Result, error) {
	if m.opts.TryExisting {
		m.transition(StateCheckingExisting)
		if m.checkExisting(ctx) {
			m.transition(StateAuthenticated)
			return Result{SessionReused: true}, nil
		}
	}

	m.transition(StateLoggingIn)
	if err := m.login(ctx); err != nil {
		m.transition(StateFailed)
		return Result{}, err
	}

	m.transition(StateSubmittingCredentials)
	if err := m.submitCredentials(ctx, creds); err != nil {
		m.transition(StateFailed)
		return Result{}, err
	}

	outcome, err := m.probeSubmitOutcome(ctx)
	if err != nil {
		m.transition(StateFailed)
		return Result{}, err
	}

	if outcome == StateAwaitingVerification {
		m.transition(StateAwaitingVerification)
		if err := m.awaitVerification(ctx); err != nil {
			m.transition(StateFailed)
			return Result{}, err
		}
	}

	m.transition(StateAuthenticated)
	return Result{}, nil
}

func (m *Machine) transition(next State) {
	m.logger.Debug("Auth state transition.",
		zap.Stringer("from", m.state), zap.Stringer("to", next))
	m.state = next
}

// checkExisting probes whether the persisted profile is still logged in.
// Any failure here is benign: it just means a full login is needed.
func (m *Machine) checkExisting(ctx context.Context) bool {
	if err := m.page.Navigate(ctx, m.cfg.LandingURL, m.cfg.Timing.NavigationTimeout); err != nil {
		m.logger.Debug("Landing navigation failed during session probe.", zap.Error(err))
		return false
	}
	if !m.visible(ctx, m.cfg.LoggedInMarker, existingProbeTimeout) {
		m.logger.Debug("Logged-in marker absent, session expired or never existed.")
		return false
	}
	m.logger.Info("Existing session still authenticated, skipping login.")
	return true
}

// login navigates to the login page and clears obstructing popups.
// Navigation errors surface to the caller; popup dismissal is best-effort.
func (m *Machine) login(ctx context.Context) error {
	if err := m.page.Navigate(ctx, m.cfg.LoginURL, m.cfg.Timing.NavigationTimeout); err != nil {
		return err
	}
	m.dismissPopups(ctx)
	return nil
}

// dismissPopups clicks through cookie/consent/app-install banners. None of
// them are required to exist and a failed click is not fatal.
func (m *Machine) dismissPopups(ctx context.Context) {
	for _, selector := range m.cfg.PopupSelectors {
		if ctx.Err() != nil {
			return
		}
		if !m.visible(ctx, selector, popupProbeTimeout) {
			continue
		}
		if err := m.page.Click(ctx, selector); err != nil {
			m.logger.Debug("Popup dismissal click failed.",
				zap.String("selector", selector), zap.Error(err))
			continue
		}
		m.logger.Debug("Dismissed popup.", zap.String("selector", selector))
	}
}

// submitCredentials locates the form, types both fields through the
// human-paced input layer, and submits. Platforms with a two-step flow
// (username first, password on the next screen) are handled by advancing
// once when the password field is not yet present.
func (m *Machine) submitCredentials(ctx context.Context, creds Credentials) error {
	if err := m.page.WaitVisible(ctx, m.cfg.UsernameField, m.cfg.Timing.LoginTimeout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &schemas.LoginFormNotFoundError{Platform: m.cfg.Name, Selector: m.cfg.UsernameField}
	}

	if err := m.page.Type(ctx, m.cfg.UsernameField, creds.Email); err != nil {
		return fmt.Errorf("failed to enter username: %w", err)
	}

	if !m.visible(ctx, m.cfg.PasswordField, passwordShortWait) {
		// Two-step login: advance past the username screen.
		if err := m.page.Click(ctx, m.cfg.SubmitButton); err != nil {
			m.logger.Debug("Advance click after username failed.", zap.Error(err))
		}
		if err := m.page.WaitVisible(ctx, m.cfg.PasswordField, m.cfg.Timing.LoginTimeout); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &schemas.LoginFormNotFoundError{Platform: m.cfg.Name, Selector: m.cfg.PasswordField}
		}
	}

	if err := m.page.Type(ctx, m.cfg.PasswordField, creds.Password); err != nil {
		return fmt.Errorf("failed to enter password: %w", err)
	}
	if err := m.page.Click(ctx, m.cfg.SubmitButton); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}
	return nil
}

// probeSubmitOutcome races three conditions on a shared budget: the
// logged-in marker, the two-factor marker, and the timeout. On timeout the
// current URL decides between a verification challenge and a plain failure.
func (m *Machine) probeSubmitOutcome(ctx context.Context) (State, error) {
	deadline := time.Now().Add(m.cfg.Timing.LoginTimeout)

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return StateFailed, ctx.Err()
		}
		if m.visible(ctx, m.cfg.LoggedInMarker, submitPollInterval) {
			return StateAuthenticated, nil
		}
		if m.visible(ctx, m.cfg.TwoFactorMarker, submitPollInterval) {
			return StateAwaitingVerification, nil
		}
	}

	url, err := m.page.CurrentURL(ctx)
	if err != nil {
		url = ""
	}
	for _, hint := range m.cfg.ChallengePathHints {
		if strings.Contains(url, hint) {
			return StateFailed, &schemas.VerificationRequiredError{Platform: m.cfg.Name, URL: url}
		}
	}
	return StateFailed, &schemas.LoginFailedError{
		Platform: m.cfg.Name,
		Reason:   "no logged-in confirmation before timeout",
	}
}

// awaitVerification handles the two-factor prompt. Interactive runs poll for
// the logged-in marker while a human enters the code; unattended runs fail
// immediately since nobody can satisfy the prompt.
func (m *Machine) awaitVerification(ctx context.Context) error {
	if !m.opts.Interactive {
		return &schemas.TwoFactorRequiredError{Platform: m.cfg.Name}
	}

	m.logger.Info("Two-factor prompt detected, waiting for manual code entry.",
		zap.Duration("ceiling", m.opts.TwoFactorWait))

	deadline := time.Now().Add(m.opts.TwoFactorWait)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if m.visible(ctx, m.cfg.LoggedInMarker, verifyPollInterval) {
			return nil
		}
	}
	return &schemas.TwoFactorTimeoutError{Platform: m.cfg.Name, Waited: m.opts.TwoFactorWait}
}

// visible reports whether selector becomes visible within the wait budget.
// Absence is an expected condition here, not an error.
func (m *Machine) visible(ctx context.Context, selector string, wait time.Duration) bool {
	return m.page.WaitVisible(ctx, selector, wait) == nil
}
