package sqlite

import (
	"context"
	"database/sql"

	"github.com/CascadingLabs/yosoi"
)

// Compile-time interface verification.
var _ yosoi.UsageService = (*UsageService)(nil)

// UsageService implements yosoi.UsageService using SQLite.
// url_count over oracle_calls per domain is what tells you whether the
// selector cache is actually saving oracle spend.
type UsageService struct {
	db *DB
}

// NewUsageService creates a new UsageService.
func NewUsageService(db *DB) *UsageService {
	return &UsageService{db: db}
}

// RecordURL increments the domain's counters in one transaction and
// returns the updated values.
func (s *UsageService) RecordURL(ctx context.Context, url string, usedOracle bool) (*yosoi.DomainUsage, error) {
	domain := yosoi.Domain(url)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	oracleIncrement := 0
	if usedOracle {
		oracleIncrement = 1
	}

	usage := &yosoi.DomainUsage{Domain: domain}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO usage (domain, oracle_calls, url_count)
		VALUES (?, ?, 1)
		ON CONFLICT (domain) DO UPDATE SET
			oracle_calls = oracle_calls + excluded.oracle_calls,
			url_count = url_count + 1
		RETURNING oracle_calls, url_count
	`, domain, oracleIncrement).Scan(&usage.OracleCalls, &usage.URLCount)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return usage, nil
}

// Usage returns counters for one domain. Unseen domains get zero
// counters, not ENOTFOUND.
func (s *UsageService) Usage(ctx context.Context, domain string) (*yosoi.DomainUsage, error) {
	usage := &yosoi.DomainUsage{Domain: domain}

	err := s.db.QueryRowContext(ctx, `
		SELECT oracle_calls, url_count FROM usage WHERE domain = ?
	`, domain).Scan(&usage.OracleCalls, &usage.URLCount)

	if err == sql.ErrNoRows {
		return usage, nil
	}
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// AllUsage returns counters for every tracked domain, sorted by domain.
func (s *UsageService) AllUsage(ctx context.Context) ([]*yosoi.DomainUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, oracle_calls, url_count FROM usage ORDER BY domain ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []*yosoi.DomainUsage
	for rows.Next() {
		usage := &yosoi.DomainUsage{}
		if err := rows.Scan(&usage.Domain, &usage.OracleCalls, &usage.URLCount); err != nil {
			return nil, err
		}
		all = append(all, usage)
	}
	return all, rows.Err()
}

// ResetUsage deletes counters for a domain, or all counters when domain
// is empty.
func (s *UsageService) ResetUsage(ctx context.Context, domain string) error {
	if domain == "" {
		_, err := s.db.ExecContext(ctx, `DELETE FROM usage`)
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM usage WHERE domain = ?`, domain)
	return err
}
