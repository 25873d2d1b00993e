package sqlite_test

import (
	"context"
	"testing"

	"github.com/CascadingLabs/yosoi"
	"github.com/CascadingLabs/yosoi/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageService_RecordURL(t *testing.T) {
	t.Parallel()

	t.Run("increments url_count for every URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewUsageService(db)
		ctx := context.Background()

		usage, err := svc.RecordURL(ctx, "https://example.com/a", false)
		require.NoError(t, err)
		assert.Equal(t, "example.com", usage.Domain)
		assert.Equal(t, 1, usage.URLCount)
		assert.Equal(t, 0, usage.OracleCalls)

		usage, err = svc.RecordURL(ctx, "https://example.com/b", false)
		require.NoError(t, err)
		assert.Equal(t, 2, usage.URLCount)
		assert.Equal(t, 0, usage.OracleCalls)
	})

	t.Run("increments oracle_calls only on real invocations", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewUsageService(db)
		ctx := context.Background()

		_, err := svc.RecordURL(ctx, "https://example.com/a", true)
		require.NoError(t, err)

		// Cache hit: no oracle call.
		usage, err := svc.RecordURL(ctx, "https://example.com/b", false)
		require.NoError(t, err)
		assert.Equal(t, 2, usage.URLCount)
		assert.Equal(t, 1, usage.OracleCalls)
	})

	t.Run("strips www from the domain key", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewUsageService(db)
		ctx := context.Background()

		_, err := svc.RecordURL(ctx, "https://www.example.com/a", false)
		require.NoError(t, err)
		_, err = svc.RecordURL(ctx, "https://example.com/b", false)
		require.NoError(t, err)

		usage, err := svc.Usage(ctx, "example.com")
		require.NoError(t, err)
		assert.Equal(t, 2, usage.URLCount)
	})
}

func TestUsageService_Usage(t *testing.T) {
	t.Parallel()

	t.Run("returns zero counters for unseen domain", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewUsageService(db)

		usage, err := svc.Usage(context.Background(), "unseen.example.com")

		require.NoError(t, err)
		assert.Equal(t, &yosoi.DomainUsage{Domain: "unseen.example.com"}, usage)
	})
}

func TestUsageService_AllUsage(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewUsageService(db)
	ctx := context.Background()

	_, err := svc.RecordURL(ctx, "https://b.example.com/x", true)
	require.NoError(t, err)
	_, err = svc.RecordURL(ctx, "https://a.example.com/y", false)
	require.NoError(t, err)

	all, err := svc.AllUsage(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a.example.com", all[0].Domain)
	assert.Equal(t, "b.example.com", all[1].Domain)
	assert.Equal(t, 1, all[1].OracleCalls)
}

func TestUsageService_ResetUsage(t *testing.T) {
	t.Parallel()

	t.Run("resets one domain", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewUsageService(db)
		ctx := context.Background()

		_, err := svc.RecordURL(ctx, "https://a.example.com/x", false)
		require.NoError(t, err)
		_, err = svc.RecordURL(ctx, "https://b.example.com/y", false)
		require.NoError(t, err)

		require.NoError(t, svc.ResetUsage(ctx, "a.example.com"))

		all, err := svc.AllUsage(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "b.example.com", all[0].Domain)
	})

	t.Run("empty domain resets everything", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewUsageService(db)
		ctx := context.Background()

		_, err := svc.RecordURL(ctx, "https://a.example.com/x", false)
		require.NoError(t, err)
		_, err = svc.RecordURL(ctx, "https://b.example.com/y", false)
		require.NoError(t, err)

		require.NoError(t, svc.ResetUsage(ctx, ""))

		all, err := svc.AllUsage(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
