package mock

import (
	"context"

	"github.com/CascadingLabs/yosoi"
)

var _ yosoi.SelectorService = (*SelectorService)(nil)

// SelectorService is a mock implementation of yosoi.SelectorService.
type SelectorService struct {
	LoadSelectorsFn   func(ctx context.Context, domain string) (*yosoi.DomainCacheEntry, error)
	SaveSelectorsFn   func(ctx context.Context, entry *yosoi.DomainCacheEntry) error
	DeleteSelectorsFn func(ctx context.Context, domain string) error
	ListDomainsFn     func(ctx context.Context) ([]string, error)
}

func (s *SelectorService) LoadSelectors(ctx context.Context, domain string) (*yosoi.DomainCacheEntry, error) {
	return s.LoadSelectorsFn(ctx, domain)
}

func (s *SelectorService) SaveSelectors(ctx context.Context, entry *yosoi.DomainCacheEntry) error {
	return s.SaveSelectorsFn(ctx, entry)
}

func (s *SelectorService) DeleteSelectors(ctx context.Context, domain string) error {
	return s.DeleteSelectorsFn(ctx, domain)
}

func (s *SelectorService) ListDomains(ctx context.Context) ([]string, error) {
	return s.ListDomainsFn(ctx)
}

var _ yosoi.UsageService = (*UsageService)(nil)

// UsageService is a mock implementation of yosoi.UsageService.
type UsageService struct {
	RecordURLFn  func(ctx context.Context, url string, usedOracle bool) (*yosoi.DomainUsage, error)
	UsageFn      func(ctx context.Context, domain string) (*yosoi.DomainUsage, error)
	AllUsageFn   func(ctx context.Context) ([]*yosoi.DomainUsage, error)
	ResetUsageFn func(ctx context.Context, domain string) error
}

func (s *UsageService) RecordURL(ctx context.Context, url string, usedOracle bool) (*yosoi.DomainUsage, error) {
	return s.RecordURLFn(ctx, url, usedOracle)
}

func (s *UsageService) Usage(ctx context.Context, domain string) (*yosoi.DomainUsage, error) {
	return s.UsageFn(ctx, domain)
}

func (s *UsageService) AllUsage(ctx context.Context) ([]*yosoi.DomainUsage, error) {
	return s.AllUsageFn(ctx)
}

func (s *UsageService) ResetUsage(ctx context.Context, domain string) error {
	return s.ResetUsageFn(ctx, domain)
}

var _ yosoi.ContentService = (*ContentService)(nil)

// ContentService is a mock implementation of yosoi.ContentService.
type ContentService struct {
	SaveContentFn      func(ctx context.Context, rec *yosoi.ContentRecord) error
	FindContentByURLFn func(ctx context.Context, url string) (*yosoi.ContentRecord, error)
}

func (s *ContentService) SaveContent(ctx context.Context, rec *yosoi.ContentRecord) error {
	return s.SaveContentFn(ctx, rec)
}

func (s *ContentService) FindContentByURL(ctx context.Context, url string) (*yosoi.ContentRecord, error) {
	return s.FindContentByURLFn(ctx, url)
}
