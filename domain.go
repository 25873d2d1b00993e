package yosoi

import (
	"net/url"
	"strings"
)

// Domain extracts the registrable host from a URL, stripping any
// leading "www.". Cache entries and usage counters are keyed by this
// value. Returns "unknown" for unparseable URLs so tracking never
// fails a pipeline run.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
