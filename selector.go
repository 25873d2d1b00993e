package yosoi

// NASelector is the sentinel a discoverer returns when it has no
// candidate for a tier. It is never a real selector and verifiers must
// skip it rather than evaluate it.
const NASelector = "NA"

// Extraction field names. Every candidate map is keyed by these.
const (
	FieldHeadline = "headline"
	FieldAuthor   = "author"
	FieldDate     = "date"
	FieldBody     = "body_text"
	FieldRelated  = "related_content"
)

// Fields returns the extraction field names in canonical order.
func Fields() []string {
	return []string{FieldHeadline, FieldAuthor, FieldDate, FieldBody, FieldRelated}
}

// Tier identifies one of the candidate selectors for a field.
// Tiers are always tried in the order primary, fallback, tertiary.
type Tier string

// Selector tiers in priority order.
const (
	TierPrimary  Tier = "primary"
	TierFallback Tier = "fallback"
	TierTertiary Tier = "tertiary"
)

// FieldSelectorSet holds the candidate selectors for a single field.
type FieldSelectorSet struct {
	Primary  string `json:"primary"`
	Fallback string `json:"fallback"`
	Tertiary string `json:"tertiary"`
}

// Tiers returns the selectors paired with their tier, in priority order.
func (s FieldSelectorSet) Tiers() []TierSelector {
	return []TierSelector{
		{Tier: TierPrimary, Selector: s.Primary},
		{Tier: TierFallback, Selector: s.Fallback},
		{Tier: TierTertiary, Selector: s.Tertiary},
	}
}

// IsNA reports whether every tier is the NA sentinel or empty.
func (s FieldSelectorSet) IsNA() bool {
	for _, ts := range s.Tiers() {
		if ts.Selector != "" && ts.Selector != NASelector {
			return false
		}
	}
	return true
}

// TierSelector pairs a tier with its selector value.
type TierSelector struct {
	Tier     Tier
	Selector string
}

// CandidateMap maps field names to their candidate selector tiers.
// It is produced by a Discoverer or by HeuristicSelectors and is
// immutable once verified.
type CandidateMap map[string]FieldSelectorSet

// AllNA reports whether the map contains no usable selector at all.
// A discoverer returning an all-NA map has legitimately found nothing;
// this is distinct from a discovery failure.
func (m CandidateMap) AllNA() bool {
	if len(m) == 0 {
		return true
	}
	for _, set := range m {
		if !set.IsNA() {
			return false
		}
	}
	return true
}

// Validate returns an error if the map is empty or contains selectors
// for unknown fields.
func (m CandidateMap) Validate() error {
	if len(m) == 0 {
		return Errorf(EINVALID, "candidate map requires at least one field")
	}
	known := map[string]bool{}
	for _, f := range Fields() {
		known[f] = true
	}
	for field := range m {
		if !known[field] {
			return Errorf(EINVALID, "unknown field %q in candidate map", field)
		}
	}
	return nil
}

// HeuristicSelectors returns the static default candidate map used when
// discovery is skipped (feed or script-rendered content) or has
// exhausted its retries. The values are deliberately generic: they match
// the structural conventions of most article pages.
func HeuristicSelectors() CandidateMap {
	return CandidateMap{
		FieldHeadline: {Primary: "h1", Fallback: "h2", Tertiary: "h3"},
		FieldAuthor:   {Primary: "a[href*='author']", Fallback: ".author", Tertiary: ".byline"},
		FieldDate:     {Primary: "time", Fallback: ".published", Tertiary: ".date"},
		FieldBody:     {Primary: "article p", Fallback: ".content p", Tertiary: "p"},
		FieldRelated:  {Primary: "aside a", Fallback: ".related a", Tertiary: ".sidebar a"},
	}
}
