package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CascadingLabs/yosoi"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ yosoi.ContentService = (*ContentService)(nil)

// ContentService implements yosoi.ContentService using SQLite.
type ContentService struct {
	db *DB
}

// NewContentService creates a new ContentService.
func NewContentService(db *DB) *ContentService {
	return &ContentService{db: db}
}

// hashContent computes xxHash of the extracted body and headline,
// hex-encoded. Used to spot unchanged pages across runs.
func hashContent(content *yosoi.ExtractedContent) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content.Headline+"\x00"+content.Body))
}

// SaveContent stores an extraction record, assigning its ID, hash, and
// timestamp.
func (s *ContentService) SaveContent(ctx context.Context, rec *yosoi.ContentRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.ExtractedAt = time.Now().UTC()
	rec.ContentHash = hashContent(rec.Content)
	if rec.Domain == "" {
		rec.Domain = yosoi.Domain(rec.URL)
	}

	related, err := json.Marshal(rec.Content.Related)
	if err != nil {
		return fmt.Errorf("failed to encode related links: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO content (id, url, domain, headline, author, date, body_text, related, content_hash, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.URL, rec.Domain, rec.Content.Headline, rec.Content.Author, rec.Content.Date,
		rec.Content.Body, string(related), rec.ContentHash, rec.ExtractedAt.Format(time.RFC3339))

	return err
}

// FindContentByURL returns the most recent record for a URL.
func (s *ContentService) FindContentByURL(ctx context.Context, url string) (*yosoi.ContentRecord, error) {
	rec := &yosoi.ContentRecord{Content: &yosoi.ExtractedContent{}}
	var related, extractedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, domain, headline, author, date, body_text, related, content_hash, extracted_at
		FROM content
		WHERE url = ?
		ORDER BY extracted_at DESC
		LIMIT 1
	`, url).Scan(&rec.ID, &rec.URL, &rec.Domain, &rec.Content.Headline, &rec.Content.Author,
		&rec.Content.Date, &rec.Content.Body, &related, &rec.ContentHash, &extractedAt)

	if err == sql.ErrNoRows {
		return nil, yosoi.Errorf(yosoi.ENOTFOUND, "no content for %q", url)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(related), &rec.Content.Related); err != nil {
		return nil, fmt.Errorf("failed to decode related links: %w", err)
	}
	rec.ExtractedAt, err = time.Parse(time.RFC3339, extractedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extracted_at: %w", err)
	}

	return rec, nil
}
