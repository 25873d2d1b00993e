package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/CascadingLabs/yosoi"
	main "github.com/CascadingLabs/yosoi/cmd/yosoi"
	"github.com/CascadingLabs/yosoi/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists cached domains", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Selectors: &mock.SelectorService{
				ListDomainsFn: func(ctx context.Context) ([]string, error) {
					return []string{"example.com", "news.example.org"}, nil
				},
			},
		}

		err := (&main.SelectorsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "example.com\nnews.example.org\n", stdout.String())
	})

	t.Run("suggests scraping when the cache is empty", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Selectors: &mock.SelectorService{
				ListDomainsFn: func(ctx context.Context) ([]string, error) {
					return nil, nil
				},
			},
		}

		err := (&main.SelectorsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No cached selectors")
	})

	t.Run("shows one domain's selector tiers", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Selectors: &mock.SelectorService{
				LoadSelectorsFn: func(ctx context.Context, domain string) (*yosoi.DomainCacheEntry, error) {
					return &yosoi.DomainCacheEntry{
						Domain: domain,
						Selectors: yosoi.CandidateMap{
							yosoi.FieldHeadline: {Primary: "h1.title", Fallback: "h1", Tertiary: yosoi.NASelector},
							yosoi.FieldBody:     {Primary: "div.article-body", Fallback: yosoi.NASelector, Tertiary: yosoi.NASelector},
						},
						SavedAt: time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC),
					}, nil
				},
			},
		}

		err := (&main.SelectorsCmd{Domain: "example.com"}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "example.com (saved 2026-08-28 10:30)")
		assert.Contains(t, output, `headline         primary="h1.title" fallback="h1" tertiary="NA"`)
		assert.Contains(t, output, `body_text        primary="div.article-body"`)
		assert.NotContains(t, output, "author", "fields without cached selectors are omitted")
	})

	t.Run("reports unknown domains on stderr", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Selectors: &mock.SelectorService{
				LoadSelectorsFn: func(ctx context.Context, domain string) (*yosoi.DomainCacheEntry, error) {
					return nil, yosoi.Errorf(yosoi.ENOTFOUND, "no selectors cached for %s", domain)
				},
			},
		}

		err := (&main.SelectorsCmd{Domain: "unknown.example.com"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, yosoi.ENOTFOUND, yosoi.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no selectors cached for unknown.example.com")
	})
}
