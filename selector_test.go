package yosoi_test

import (
	"testing"

	"github.com/CascadingLabs/yosoi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSelectorSet_Tiers(t *testing.T) {
	t.Parallel()

	set := yosoi.FieldSelectorSet{Primary: "h1.t", Fallback: "h1", Tertiary: yosoi.NASelector}
	tiers := set.Tiers()

	require.Len(t, tiers, 3)
	assert.Equal(t, yosoi.TierPrimary, tiers[0].Tier)
	assert.Equal(t, "h1.t", tiers[0].Selector)
	assert.Equal(t, yosoi.TierFallback, tiers[1].Tier)
	assert.Equal(t, yosoi.TierTertiary, tiers[2].Tier)
	assert.Equal(t, yosoi.NASelector, tiers[2].Selector)
}

func TestCandidateMap_AllNA(t *testing.T) {
	t.Parallel()

	t.Run("empty map is all NA", func(t *testing.T) {
		t.Parallel()
		assert.True(t, yosoi.CandidateMap{}.AllNA())
	})

	t.Run("map of NA sentinels is all NA", func(t *testing.T) {
		t.Parallel()
		m := yosoi.CandidateMap{
			yosoi.FieldHeadline: {Primary: "NA", Fallback: "NA", Tertiary: "NA"},
			yosoi.FieldAuthor:   {Primary: "NA", Fallback: "NA", Tertiary: "NA"},
		}
		assert.True(t, m.AllNA())
	})

	t.Run("one real selector is enough", func(t *testing.T) {
		t.Parallel()
		m := yosoi.CandidateMap{
			yosoi.FieldHeadline: {Primary: "h1", Fallback: "NA", Tertiary: "NA"},
		}
		assert.False(t, m.AllNA())
	})
}

func TestCandidateMap_Validate(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty map", func(t *testing.T) {
		t.Parallel()
		err := yosoi.CandidateMap{}.Validate()
		assert.Equal(t, yosoi.EINVALID, yosoi.ErrorCode(err))
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		t.Parallel()
		err := yosoi.CandidateMap{"price": {Primary: ".price"}}.Validate()
		assert.Equal(t, yosoi.EINVALID, yosoi.ErrorCode(err))
	})

	t.Run("accepts heuristic defaults", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, yosoi.HeuristicSelectors().Validate())
	})
}

func TestHeuristicSelectors(t *testing.T) {
	t.Parallel()

	m := yosoi.HeuristicSelectors()
	require.Len(t, m, 5)
	for _, field := range yosoi.Fields() {
		set, ok := m[field]
		require.True(t, ok, "missing field %s", field)
		assert.False(t, set.IsNA())
	}
	assert.Equal(t, "h1", m[yosoi.FieldHeadline].Primary)
	assert.Equal(t, "article p", m[yosoi.FieldBody].Primary)
}

func TestVerificationOutcome_Verified(t *testing.T) {
	t.Parallel()

	candidates := yosoi.CandidateMap{
		yosoi.FieldHeadline: {Primary: "h1"},
		yosoi.FieldAuthor:   {Primary: ".author"},
	}
	outcome := &yosoi.VerificationOutcome{
		TotalFields:   2,
		VerifiedCount: 1,
		Results: map[string]yosoi.FieldVerification{
			yosoi.FieldHeadline: {Field: yosoi.FieldHeadline, Status: yosoi.StatusVerified, WorkingTier: yosoi.TierPrimary, Selector: "h1"},
			yosoi.FieldAuthor:   {Field: yosoi.FieldAuthor, Status: yosoi.StatusFailed},
		},
	}

	verified := outcome.Verified(candidates)
	require.Len(t, verified, 1)
	assert.Equal(t, "h1", verified[yosoi.FieldHeadline].Primary)
	assert.True(t, outcome.Success())
	assert.Equal(t, 1, outcome.FailedCount())
}
