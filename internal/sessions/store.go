// Package sessions owns the persistent browser identities: one profile
// directory plus a session.json metadata record per (platform, account)
// key. Chrome corrupts or silently ignores a user-data dir opened twice, so
// the store hands out per-key leases with try-lock semantics; a second
// concurrent request for the same key fails with *schemas.SessionBusyError
// instead of ever sharing the profile.
package sessions

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
)

const metadataFile = "session.json"

// Session ids become directory names under the store root, so anything
// outside this alphabet (path separators, "..", empty) must be rejected
// before it ever touches the filesystem.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}

// Store manages profile directories under a single root.
type Store struct {
	dir    string
	logger *zap.Logger

	mu     sync.Mutex
	leases map[string]struct{}
}

// Handle is a leased reference to one profile. The caller must Release it on
// every exit path; the store never times leases out on its own.
type Handle struct {
	ID         string
	ProfileDir string
	// Record is the persisted metadata, nil when no login has ever succeeded
	// for this key.
	Record *schemas.SessionRecord

	store    *Store
	released sync.Once
}

// NewStore creates the root directory if needed.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create sessions dir %s: %w", dir, err)
	}
	return &Store{
		dir:    dir,
		logger: logger.Named("sessions"),
		leases: map[string]struct{}{},
	}, nil
}

// DeriveID maps a (platform, account) pair to its stable profile identifier.
func DeriveID(platform, account string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(platform) + ":" + strings.ToLower(account)))
	return fmt.Sprintf("%s-%s", strings.ToLower(platform), hex.EncodeToString(sum[:])[:16])
}

// Resolve acquires the lease for the key and ensures its profile directory
// exists. sessionName, when non-empty, overrides the derived identifier so
// callers can pin a named session; it must stay within the id alphabet since
// it names a directory under the root. Idempotent with respect to the on-disk
// layout; not reentrant: a held lease makes a second Resolve fail busy.
func (s *Store) Resolve(platform, account, sessionName string) (*Handle, error) {
	id := sessionName
	if id == "" {
		id = DeriveID(platform, account)
	} else if err := validateID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, held := s.leases[id]; held {
		s.mu.Unlock()
		return nil, &schemas.SessionBusyError{Key: id}
	}
	s.leases[id] = struct{}{}
	s.mu.Unlock()

	profileDir := filepath.Join(s.dir, id)
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		s.release(id)
		return nil, fmt.Errorf("failed to create profile dir %s: %w", profileDir, err)
	}

	h := &Handle{ID: id, ProfileDir: profileDir, store: s}
	if rec, err := readRecord(profileDir); err == nil {
		h.Record = rec
	} else if !os.IsNotExist(err) {
		s.logger.Warn("Unreadable session metadata, treating as absent.",
			zap.String("id", id), zap.Error(err))
	}
	return h, nil
}

// Release frees the lease. Safe to call more than once.
func (h *Handle) Release() {
	h.released.Do(func() {
		h.store.release(h.ID)
	})
}

// Fresh reports whether the stored login is recent enough to attempt session
// reuse before submitting credentials again.
func (h *Handle) Fresh(window time.Duration) bool {
	return h.Record != nil && time.Since(h.Record.LastLoginAt) < window
}

func (s *Store) release(id string) {
	s.mu.Lock()
	delete(s.leases, id)
	s.mu.Unlock()
}

// MarkAuthenticated writes the metadata record with the current timestamp.
// The write is atomic (temp file + rename) so a crash never leaves a
// half-written record next to a valid profile.
func (s *Store) MarkAuthenticated(h *Handle, platform, account string) error {
	now := time.Now().UTC()
	rec := &schemas.SessionRecord{
		ID:                h.ID,
		Platform:          platform,
		AccountIdentifier: account,
		ProfileDir:        h.ProfileDir,
		CreatedAt:         now,
		LastLoginAt:       now,
	}
	if h.Record != nil {
		rec.CreatedAt = h.Record.CreatedAt
	}

	if err := writeRecord(h.ProfileDir, rec); err != nil {
		return fmt.Errorf("failed to persist session metadata for %s: %w", h.ID, err)
	}
	h.Record = rec
	s.logger.Info("Session marked authenticated.",
		zap.String("id", h.ID), zap.String("platform", platform))
	return nil
}

// Invalidate deletes the profile directory and its metadata so the next
// attempt for this key starts from a clean identity. The lease stays held
// until the caller releases it.
func (s *Store) Invalidate(h *Handle) error {
	h.Record = nil
	if err := os.RemoveAll(h.ProfileDir); err != nil {
		return fmt.Errorf("failed to remove profile dir %s: %w", h.ProfileDir, err)
	}
	s.logger.Info("Session invalidated.", zap.String("id", h.ID))
	return nil
}

// List returns the metadata of every stored session that has completed at
// least one login. Profiles without metadata are skipped.
func (s *Store) List() ([]schemas.SessionRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions dir: %w", err)
	}

	records := make([]schemas.SessionRecord, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := readRecord(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Remove deletes a stored session by id. A session currently leased by an
// in-flight request is busy, not removable.
func (s *Store) Remove(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	if _, held := s.leases[id]; held {
		s.mu.Unlock()
		return &schemas.SessionBusyError{Key: id}
	}
	s.mu.Unlock()

	dir := filepath.Join(s.dir, id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("session %s not found", id)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove session %s: %w", id, err)
	}
	s.logger.Info("Session removed.", zap.String("id", id))
	return nil
}

// PruneOlderThan removes sessions whose last successful login is older than
// the given age and reports how much disk space was reclaimed. Leased
// sessions are skipped.
func (s *Store) PruneOlderThan(age time.Duration) (schemas.PruneReport, error) {
	cutoff := time.Now().Add(-age)
	report := schemas.PruneReport{}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return report, fmt.Errorf("failed to read sessions dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()

		s.mu.Lock()
		_, held := s.leases[id]
		s.mu.Unlock()
		if held {
			continue
		}

		dir := filepath.Join(s.dir, id)
		rec, err := readRecord(dir)
		if err != nil || rec.LastLoginAt.After(cutoff) {
			continue
		}

		size := dirSize(dir)
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("Failed to prune session.", zap.String("id", id), zap.Error(err))
			continue
		}
		report.DeletedCount++
		report.FreedBytes += size
	}

	s.logger.Info("Prune pass complete.",
		zap.Int("deleted", report.DeletedCount), zap.Int64("freed_bytes", report.FreedBytes))
	return report, nil
}

func readRecord(profileDir string) (*schemas.SessionRecord, error) {
	data, err := os.ReadFile(filepath.Join(profileDir, metadataFile))
	if err != nil {
		return nil, err
	}
	var rec schemas.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("corrupt session metadata: %w", err)
	}
	return &rec, nil
}

func writeRecord(profileDir string, rec *schemas.SessionRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(profileDir, metadataFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(profileDir, metadataFile))
}

func dirSize(dir string) int64 {
	var total int64
	_ = filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}
