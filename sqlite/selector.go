package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CascadingLabs/yosoi"
)

// Compile-time interface verification.
var _ yosoi.SelectorService = (*SelectorService)(nil)

// SelectorService implements yosoi.SelectorService using SQLite.
// Selector maps are stored as JSON; only the logical shape
// (field -> primary/fallback/tertiary) needs to round-trip.
type SelectorService struct {
	db *DB
}

// NewSelectorService creates a new SelectorService.
func NewSelectorService(db *DB) *SelectorService {
	return &SelectorService{db: db}
}

// LoadSelectors returns the cached selector entry for a domain.
func (s *SelectorService) LoadSelectors(ctx context.Context, domain string) (*yosoi.DomainCacheEntry, error) {
	var raw, savedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT selectors, saved_at FROM selectors WHERE domain = ?
	`, domain).Scan(&raw, &savedAt)

	if err == sql.ErrNoRows {
		return nil, yosoi.Errorf(yosoi.ENOTFOUND, "no cached selectors for %q", domain)
	}
	if err != nil {
		return nil, err
	}

	entry := &yosoi.DomainCacheEntry{Domain: domain}
	if err := json.Unmarshal([]byte(raw), &entry.Selectors); err != nil {
		return nil, fmt.Errorf("failed to decode selectors for %q: %w", domain, err)
	}
	entry.SavedAt, err = time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse saved_at: %w", err)
	}

	return entry, nil
}

// SaveSelectors creates or overwrites the entry for the domain.
func (s *SelectorService) SaveSelectors(ctx context.Context, entry *yosoi.DomainCacheEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	if entry.SavedAt.IsZero() {
		entry.SavedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(entry.Selectors)
	if err != nil {
		return fmt.Errorf("failed to encode selectors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO selectors (domain, selectors, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT (domain) DO UPDATE SET
			selectors = excluded.selectors,
			saved_at = excluded.saved_at
	`, entry.Domain, string(raw), entry.SavedAt.Format(time.RFC3339))

	return err
}

// DeleteSelectors removes the entry for a domain.
func (s *SelectorService) DeleteSelectors(ctx context.Context, domain string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM selectors WHERE domain = ?`, domain)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return yosoi.Errorf(yosoi.ENOTFOUND, "no cached selectors for %q", domain)
	}
	return nil
}

// ListDomains returns all domains with cached selectors, sorted.
func (s *SelectorService) ListDomains(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT domain FROM selectors ORDER BY domain ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, err
		}
		domains = append(domains, domain)
	}
	return domains, rows.Err()
}
