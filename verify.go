package yosoi

// Verification statuses.
const (
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

// Reasons a tier failed verification.
const (
	ReasonNASelector    = "na_selector"
	ReasonNoElements    = "no_elements_found"
	ReasonInvalidSyntax = "invalid_syntax"
	ReasonEmptyText     = "empty_text" // strict mode only
)

// TierFailure records why one candidate tier did not verify.
type TierFailure struct {
	Tier     Tier   `json:"tier"`
	Selector string `json:"selector"`
	Reason   string `json:"reason"`
}

// FieldVerification is the verification result for a single field.
type FieldVerification struct {
	Field       string        `json:"field"`
	Status      string        `json:"status"`
	WorkingTier Tier          `json:"working_tier,omitempty"`
	Selector    string        `json:"selector,omitempty"`
	Failures    []TierFailure `json:"failures,omitempty"`
}

// VerificationOutcome aggregates per-field verification results.
// A field's failure never aborts verification of the other fields.
type VerificationOutcome struct {
	TotalFields   int                          `json:"total_fields"`
	VerifiedCount int                          `json:"verified_count"`
	Results       map[string]FieldVerification `json:"results"`
}

// Success reports whether at least one field verified.
func (o *VerificationOutcome) Success() bool {
	return o.VerifiedCount >= 1
}

// FailedCount returns the number of fields with no working tier.
func (o *VerificationOutcome) FailedCount() int {
	return o.TotalFields - o.VerifiedCount
}

// WorkingSelectors returns one selector per verified field: the tier
// verification recorded as working, with the other tiers blanked to
// NA. Extraction after verification uses exactly these, never a tier
// verification did not approve.
func (o *VerificationOutcome) WorkingSelectors(candidates CandidateMap) CandidateMap {
	out := CandidateMap{}
	for field, r := range o.Results {
		if r.Status != StatusVerified || r.Selector == "" {
			continue
		}
		if _, ok := candidates[field]; !ok {
			continue
		}
		out[field] = FieldSelectorSet{
			Primary:  r.Selector,
			Fallback: NASelector,
			Tertiary: NASelector,
		}
	}
	return out
}

// Verified returns the subset of candidates whose field verified.
// This is the map that gets cached for the domain.
func (o *VerificationOutcome) Verified(candidates CandidateMap) CandidateMap {
	out := CandidateMap{}
	for field, r := range o.Results {
		if r.Status == StatusVerified {
			if set, ok := candidates[field]; ok {
				out[field] = set
			}
		}
	}
	return out
}

// Verifier deterministically tests candidate selector tiers against
// HTML. Verifying the same candidates against byte-identical HTML twice
// yields an identical outcome.
type Verifier interface {
	Verify(html string, candidates CandidateMap) (*VerificationOutcome, error)
}
