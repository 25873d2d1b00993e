package yosoi

import (
	"strconv"
	"strings"
)

// blockMarker pairs a literal marker found in block pages with a
// human-readable indicator.
type blockMarker struct {
	marker    string
	indicator string
}

// strictMarkers are checked on 200 responses. They are deliberately
// narrow: a successful response is only treated as blocked when it
// contains an explicit challenge or verification page.
var strictMarkers = []blockMarker{
	{"challenge-form", "Cloudflare challenge"},
	{"cf-captcha", "Cloudflare CAPTCHA"},
	{"access denied</title>", "Access denied page"},
	{"rate limit exceeded", "Rate limit"},
	{"please verify you are human", "Human verification"},
	{"enable javascript to continue", "JavaScript block"},
}

// broadMarkers are checked on other 4xx/5xx responses, where a block is
// already plausible and false positives are cheap.
var broadMarkers = []blockMarker{
	{"captcha", "CAPTCHA required"},
	{"access denied", "Access denied"},
	{"cloudflare", "Cloudflare protection"},
	{"rate limit", "Rate limited"},
	{"too many requests", "Too many requests"},
	{"forbidden", "Forbidden"},
}

// blockScanLimit bounds the marker scan. Block messages appear at the
// top of the page; scanning further only invites false positives from
// article text.
const blockScanLimit = 2000

// CheckBlocked scans a response for bot-detection signals and returns
// the indicators found. An empty slice means no blocking was detected.
// The status check runs before anything else: 403/429/503 block
// regardless of body length, and a short body on a benign status is a
// transient condition for the caller, never a block signal.
func CheckBlocked(html string, statusCode int) []string {
	switch statusCode {
	case 403, 429, 503:
		return []string{"HTTP " + strconv.Itoa(statusCode)}
	}

	head := html
	if len(head) > blockScanLimit {
		head = head[:blockScanLimit]
	}
	head = strings.ToLower(head)

	markers := strictMarkers
	if statusCode >= 400 {
		markers = broadMarkers
	} else if statusCode != 200 {
		return nil
	}

	var found []string
	for _, m := range markers {
		if strings.Contains(head, m.marker) {
			found = append(found, m.indicator)
		}
	}
	return found
}
