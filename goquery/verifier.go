package goquery

import (
	"strings"

	"github.com/CascadingLabs/yosoi"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Ensure Verifier implements yosoi.Verifier at compile time.
var _ yosoi.Verifier = (*Verifier)(nil)

// Verifier tests candidate selector tiers against real HTML.
//
// By default a tier works when it is syntactically valid and matches at
// least one node (loose mode). WithStrictText additionally requires the
// first match to have non-empty trimmed text; this rejects selectors
// that land on legitimately empty nodes, at the cost of failing fields
// whose value happens to be empty on the sampled page.
type Verifier struct {
	strictText bool
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithStrictText requires a matched tier to yield non-empty text.
func WithStrictText() VerifierOption {
	return func(v *Verifier) { v.strictText = true }
}

// NewVerifier creates a new Verifier.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify tests each field's tiers in priority order against html.
// The first working tier wins and later tiers are not evaluated. A
// field with no working tier is marked failed without affecting the
// other fields.
func (v *Verifier) Verify(htmlText string, candidates yosoi.CandidateMap) (*yosoi.VerificationOutcome, error) {
	if err := candidates.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, yosoi.Errorf(yosoi.EINVALID, "parsing HTML: %v", err)
	}

	outcome := &yosoi.VerificationOutcome{
		TotalFields: len(candidates),
		Results:     make(map[string]yosoi.FieldVerification, len(candidates)),
	}

	for field, set := range candidates {
		result := v.verifyField(doc, field, set)
		outcome.Results[field] = result
		if result.Status == yosoi.StatusVerified {
			outcome.VerifiedCount++
		}
	}

	return outcome, nil
}

func (v *Verifier) verifyField(doc *goquery.Document, field string, set yosoi.FieldSelectorSet) yosoi.FieldVerification {
	var failures []yosoi.TierFailure

	for _, ts := range set.Tiers() {
		reason := v.testSelector(doc, ts.Selector)
		if reason == "" {
			return yosoi.FieldVerification{
				Field:       field,
				Status:      yosoi.StatusVerified,
				WorkingTier: ts.Tier,
				Selector:    ts.Selector,
				Failures:    failures,
			}
		}
		failures = append(failures, yosoi.TierFailure{
			Tier:     ts.Tier,
			Selector: ts.Selector,
			Reason:   reason,
		})
	}

	return yosoi.FieldVerification{
		Field:    field,
		Status:   yosoi.StatusFailed,
		Failures: failures,
	}
}

// testSelector returns the failure reason, or "" when the selector
// works.
func (v *Verifier) testSelector(doc *goquery.Document, selector string) string {
	if selector == "" || selector == yosoi.NASelector {
		return yosoi.ReasonNASelector
	}

	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return yosoi.ReasonInvalidSyntax
	}

	matches := doc.FindMatcher(matcher)
	if matches.Length() == 0 {
		return yosoi.ReasonNoElements
	}

	if v.strictText && strings.TrimSpace(matches.First().Text()) == "" {
		return yosoi.ReasonEmptyText
	}

	return ""
}
