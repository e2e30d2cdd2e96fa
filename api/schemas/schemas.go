// Package schemas defines the shared data types exchanged between the
// scraping engine, the HTTP API layer, and the CLI. Types here are wire
// formats: they carry JSON tags and no behavior beyond construction helpers.
package schemas

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// PostStats holds engagement counters for a single post. Fields are pointers
// because platforms expose different subsets; a nil field means the platform
// either does not surface the counter or the stats text did not match. A
// missing counter is never defaulted to zero.
type PostStats struct {
	Likes    *int64 `json:"likes,omitempty"`
	Comments *int64 `json:"comments,omitempty"`
	Shares   *int64 `json:"shares,omitempty"`
	Views    *int64 `json:"views,omitempty"`
}

// Post is the normalized output unit produced by the extraction pipeline.
type Post struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	TimestampMs int64     `json:"timestamp_ms"`
	Stats       PostStats `json:"stats"`
	Platform    string    `json:"platform"`
	SourceURL   string    `json:"source_url,omitempty"`
}

// Fingerprint returns the stable identity used for deduplication across
// acquisition iterations. It deliberately excludes the ordinal so the same
// post harvested twice maps to the same value.
func Fingerprint(platform, author string, timestampMs int64, text string) string {
	if len(text) > 80 {
		text = text[:80]
	}
	sum := sha1.Sum([]byte(platform + "|" + author + "|" + fmt.Sprintf("%d", timestampMs) + "|" + text))
	return hex.EncodeToString(sum[:])
}

// PostID derives the public post identifier from the dedup fingerprint and
// the position at which the post was first seen in this scrape. The ordinal
// guarantees uniqueness within one result set even if two distinct posts
// collide on the fingerprint prefix.
func PostID(fingerprint string, ordinal int) string {
	if len(fingerprint) > 12 {
		fingerprint = fingerprint[:12]
	}
	return fmt.Sprintf("%s-%d", fingerprint, ordinal)
}

// ScrapeResult is the immutable envelope returned for one scrape request.
type ScrapeResult struct {
	Platform      string    `json:"platform"`
	TargetUser    string    `json:"target_user"`
	Timeframe     string    `json:"timeframe"`
	TotalPosts    int       `json:"total_posts"`
	ScrapedAt     time.Time `json:"scraped_at"`
	SessionReused bool      `json:"session_reused"`
	Posts         []Post    `json:"posts"`
}

// SessionRecord is the durable metadata persisted alongside one browser
// profile directory, one record per (platform, account) key.
type SessionRecord struct {
	ID                string    `json:"id"`
	Platform          string    `json:"platform"`
	AccountIdentifier string    `json:"account_identifier"`
	ProfileDir        string    `json:"profile_dir"`
	CreatedAt         time.Time `json:"created_at"`
	LastLoginAt       time.Time `json:"last_login_at"`
}

// CredentialCheck reports the outcome of a login probe. It is always
// returned with a nil error; failures are encoded in the fields so callers
// never have to untangle an error taxonomy for a yes/no question.
type CredentialCheck struct {
	LoginSuccessful bool `json:"login_successful"`
	Requires2FA     bool `json:"requires_2fa"`
	SessionSaved    bool `json:"session_saved"`
}

// ScrapeRequest carries everything the engine needs for one scrape.
type ScrapeRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TargetUser string `json:"target_user"`
	Platform   string `json:"platform"`
	Timeframe  string `json:"timeframe"`
	// SessionID optionally names the persisted session to use instead of the
	// account-derived default, letting callers pin a specific profile.
	SessionID string `json:"session_id,omitempty"`
}

// CredentialRequest is the input for a login probe.
type CredentialRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Platform  string `json:"platform"`
	SessionID string `json:"session_id,omitempty"`
}

// PruneReport summarizes an age-based session cleanup pass.
type PruneReport struct {
	DeletedCount int   `json:"deleted_count"`
	FreedBytes   int64 `json:"freed_bytes"`
}
