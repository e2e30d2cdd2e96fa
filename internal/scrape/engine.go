package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/auth"
	"github.com/pjkea/social-media-scraper-api/internal/config"
	"github.com/pjkea/social-media-scraper-api/internal/platform"
	"github.com/pjkea/social-media-scraper-api/internal/sessions"
)

// LaunchFunc starts a browser on the given profile directory and returns the
// page driver for it. Decoupling the engine from the concrete browser stack
// keeps the whole request path testable without Chrome.
type LaunchFunc func(ctx context.Context, profileDir string, persona schemas.Persona) (schemas.PageDriver, error)

// Engine is the top-level facade: it owns the session store, the platform
// registry, and the per-request orchestration of authentication and
// acquisition.
type Engine struct {
	cfg      *config.Config
	registry *platform.Registry
	store    *sessions.Store
	launch   LaunchFunc
	logger   *zap.Logger
}

// NewEngine wires the engine from its collaborators.
func NewEngine(cfg *config.Config, registry *platform.Registry, store *sessions.Store, launch LaunchFunc, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		registry: registry,
		store:    store,
		launch:   launch,
		logger:   logger.Named("engine"),
	}
}

// ScrapeWithCredentials runs one full scrape: lease the session, launch the
// browser, authenticate, collect, filter. The session lease is held for the
// entire request and released on every exit path.
func (e *Engine) ScrapeWithCredentials(ctx context.Context, req schemas.ScrapeRequest) (*schemas.ScrapeResult, error) {
	requestID := uuid.NewString()
	logger := e.logger.With(
		zap.String("request_id", requestID),
		zap.String("platform", req.Platform),
		zap.String("target_user", req.TargetUser))

	platformCfg, err := e.registry.Get(req.Platform)
	if err != nil {
		return nil, err
	}

	handle, err := e.store.Resolve(platformCfg.Name, req.Email, req.SessionID)
	if err != nil {
		return nil, err
	}
	defer handle.Release()

	page, err := e.launch(ctx, handle.ProfileDir, schemas.DefaultPersona)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := page.Close(context.Background()); cerr != nil {
			logger.Debug("Browser close failed.", zap.Error(cerr))
		}
	}()

	result, err := e.authenticate(ctx, platformCfg, page, handle, auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}, logger)
	if err != nil {
		return nil, err
	}

	timeframe := NormalizeTimeframe(req.Timeframe)
	now := time.Now().UTC()
	cutoff := CutoffFor(timeframe, now)

	collector := NewCollector(platformCfg, page, logger)
	posts, err := collector.Collect(ctx, platformCfg.ProfileURL(req.TargetUser), cutoff)
	if err != nil {
		return nil, err
	}

	logger.Info("Scrape complete.",
		zap.Int("posts", len(posts)),
		zap.String("timeframe", timeframe),
		zap.Bool("session_reused", result.SessionReused))

	return &schemas.ScrapeResult{
		Platform:      platformCfg.Name,
		TargetUser:    req.TargetUser,
		Timeframe:     timeframe,
		TotalPosts:    len(posts),
		ScrapedAt:     now,
		SessionReused: result.SessionReused,
		Posts:         posts,
	}, nil
}

// TestCredentials probes whether the credentials can complete a login.
// Authentication outcomes, including failure and a pending two-factor
// prompt, are encoded in the returned check; only configuration and
// infrastructure problems (unsupported platform, busy session, browser
// launch) surface as errors.
func (e *Engine) TestCredentials(ctx context.Context, req schemas.CredentialRequest) (*schemas.CredentialCheck, error) {
	logger := e.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("platform", req.Platform))

	platformCfg, err := e.registry.Get(req.Platform)
	if err != nil {
		return nil, err
	}

	handle, err := e.store.Resolve(platformCfg.Name, req.Email, req.SessionID)
	if err != nil {
		return nil, err
	}
	defer handle.Release()

	page, err := e.launch(ctx, handle.ProfileDir, schemas.DefaultPersona)
	if err != nil {
		return nil, err
	}
	defer func() { _ = page.Close(context.Background()) }()

	_, err = e.authenticate(ctx, platformCfg, page, handle, auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}, logger)

	check := &schemas.CredentialCheck{}
	switch {
	case err == nil:
		check.LoginSuccessful = true
		check.SessionSaved = handle.Record != nil
	case isTwoFactorPending(err):
		check.Requires2FA = true
	default:
		logger.Info("Credential probe failed.", zap.Error(err))
	}
	return check, nil
}

// authenticate runs the login state machine and keeps the session metadata in
// step with the outcome: success refreshes the record, an auth-class failure
// wipes the profile so the next attempt starts clean.
func (e *Engine) authenticate(ctx context.Context, platformCfg *platform.Config, page schemas.PageDriver, handle *sessions.Handle, creds auth.Credentials, logger *zap.Logger) (auth.Result, error) {
	machine := auth.NewMachine(platformCfg, page, auth.Options{
		TryExisting:   handle.Fresh(e.cfg.Sessions.FreshnessWindow),
		Interactive:   e.cfg.Scraper.Interactive,
		TwoFactorWait: e.cfg.Scraper.TwoFactorWait,
	}, logger)

	result, err := machine.Run(ctx, creds)
	if err != nil {
		if isAuthFailure(err) {
			if ierr := e.store.Invalidate(handle); ierr != nil {
				logger.Warn("Failed to invalidate session after auth failure.", zap.Error(ierr))
			}
		}
		return auth.Result{}, err
	}

	if merr := e.store.MarkAuthenticated(handle, platformCfg.Name, creds.Email); merr != nil {
		// The login itself worked; a metadata write failure only costs the
		// next request its session-reuse shortcut.
		logger.Warn("Failed to persist session metadata.", zap.Error(merr))
	}
	return result, nil
}

// ListSessions returns the metadata of every stored session.
func (e *Engine) ListSessions() ([]schemas.SessionRecord, error) {
	return e.store.List()
}

// DeleteSession removes one stored session by id.
func (e *Engine) DeleteSession(id string) error {
	return e.store.Remove(id)
}

// PruneSessions deletes sessions whose last login is older than age.
func (e *Engine) PruneSessions(age time.Duration) (schemas.PruneReport, error) {
	return e.store.PruneOlderThan(age)
}

// isAuthFailure reports whether the error means the persisted profile is
// worthless and should be wiped. Transient conditions, a busy lease or a
// navigation timeout, keep the profile for the next attempt.
func isAuthFailure(err error) bool {
	var formErr *schemas.LoginFormNotFoundError
	var twoFactorErr *schemas.TwoFactorRequiredError
	var twoFactorTimeout *schemas.TwoFactorTimeoutError
	var verifyErr *schemas.VerificationRequiredError
	var loginErr *schemas.LoginFailedError
	return errors.As(err, &formErr) ||
		errors.As(err, &twoFactorErr) ||
		errors.As(err, &twoFactorTimeout) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &loginErr)
}

func isTwoFactorPending(err error) bool {
	var required *schemas.TwoFactorRequiredError
	var timedOut *schemas.TwoFactorTimeoutError
	return errors.As(err, &required) || errors.As(err, &timedOut)
}
