package yosoi

import (
	"context"
	"time"
)

// DomainCacheEntry is the last verified selector set for a domain.
// An entry is only written after a successful verification and is only
// trusted after re-verification against freshly fetched HTML.
type DomainCacheEntry struct {
	Domain    string       `json:"domain"`
	Selectors CandidateMap `json:"selectors"`
	SavedAt   time.Time    `json:"savedAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *DomainCacheEntry) Validate() error {
	if e.Domain == "" {
		return Errorf(EINVALID, "cache entry domain required")
	}
	return e.Selectors.Validate()
}

// SelectorService persists the per-domain selector cache.
type SelectorService interface {
	// LoadSelectors returns the cached entry for a domain.
	// Returns ENOTFOUND if no entry exists.
	LoadSelectors(ctx context.Context, domain string) (*DomainCacheEntry, error)

	// SaveSelectors creates or overwrites the entry for the domain.
	SaveSelectors(ctx context.Context, entry *DomainCacheEntry) error

	// DeleteSelectors removes the entry for a domain.
	// Returns ENOTFOUND if no entry exists.
	DeleteSelectors(ctx context.Context, domain string) error

	// ListDomains returns all domains with cached selectors.
	ListDomains(ctx context.Context) ([]string, error)
}

// DomainUsage holds the cost-efficiency counters for one domain.
// URLCount / OracleCalls is the system's key efficiency metric.
type DomainUsage struct {
	Domain      string `json:"domain"`
	OracleCalls int    `json:"oracleCalls"`
	URLCount    int    `json:"urlCount"`
}

// UsageService tracks oracle calls and processed URLs per domain.
type UsageService interface {
	// RecordURL increments the domain's URL count, and its oracle-call
	// count when usedOracle is true, in one transaction. It returns the
	// updated counters.
	RecordURL(ctx context.Context, url string, usedOracle bool) (*DomainUsage, error)

	// Usage returns counters for one domain. Returns zero counters,
	// not ENOTFOUND, for unseen domains.
	Usage(ctx context.Context, domain string) (*DomainUsage, error)

	// AllUsage returns counters for every tracked domain.
	AllUsage(ctx context.Context) ([]*DomainUsage, error)

	// ResetUsage deletes counters for a domain, or for all domains when
	// domain is empty.
	ResetUsage(ctx context.Context, domain string) error
}

// ContentRecord is a persisted extraction result.
type ContentRecord struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Domain      string            `json:"domain"`
	Content     *ExtractedContent `json:"content"`
	ContentHash string            `json:"contentHash"`
	ExtractedAt time.Time         `json:"extractedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ContentRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "content record URL required")
	}
	if r.Content == nil {
		return Errorf(EINVALID, "content record content required")
	}
	return nil
}

// ContentService persists extracted content.
type ContentService interface {
	// SaveContent stores a record, assigning its ID, hash, and
	// timestamp.
	SaveContent(ctx context.Context, rec *ContentRecord) error

	// FindContentByURL returns the most recent record for a URL.
	// Returns ENOTFOUND if none exists.
	FindContentByURL(ctx context.Context, url string) (*ContentRecord, error)
}
