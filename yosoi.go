// Package yosoi discovers, verifies, and re-uses CSS selectors for
// extracting named fields (headline, author, date, body text, related
// links) from arbitrary web pages. An LLM proposes candidate selectors
// once per domain; everything downstream is deterministic: defensive
// fetching, HTML reduction, selector verification, content extraction,
// and per-domain caching so the LLM is invoked rarely.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// rod/, gemini/, sqlite/).
package yosoi
