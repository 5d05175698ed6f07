package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpulse/substation-pipeline/internal/domain"
)

func pairSet(pairs []PhaseValue) map[domain.Phase]float64 {
	set := make(map[domain.Phase]float64, len(pairs))
	for _, p := range pairs {
		set[p.Phase] = p.Value
	}
	return set
}

func TestClassify_SubjectName(t *testing.T) {
	pairs, outcome := Classify(map[string]any{
		"subjectAssetName": "Phase A",
		"numericValue":     5.2,
		"timestamp":        "2025-08-29T10:00:00Z",
	})

	assert.Equal(t, Matched, outcome)
	require.Len(t, pairs, 1)
	assert.Equal(t, domain.PhaseL1, pairs[0].Phase)
	assert.Equal(t, 5.2, pairs[0].Value)
}

func TestClassify_SubjectTotalAliases(t *testing.T) {
	for _, subject := range []string{"TOTAL", "3-Phase", "3PH", "all"} {
		pairs, outcome := Classify(map[string]any{
			"subject": subject,
			"value":   9.9,
		})

		assert.Equal(t, Matched, outcome)
		require.Len(t, pairs, 1, "subject %q", subject)
		assert.Equal(t, domain.PhaseTotal, pairs[0].Phase)
	}
}

func TestClassify_ExplicitPhaseField(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Phase
	}{
		{"L1", domain.PhaseL1},
		{"l2", domain.PhaseL2},
		{"3", domain.PhaseL3},
		{"b", domain.PhaseL2},
		{"total", domain.PhaseTotal},
	}

	for _, tc := range tests {
		pairs, outcome := Classify(map[string]any{
			"phase": tc.raw,
			"mean":  1.5,
		})

		assert.Equal(t, Matched, outcome, "phase %q", tc.raw)
		require.Len(t, pairs, 1, "phase %q", tc.raw)
		assert.Equal(t, tc.want, pairs[0].Phase)
	}
}

func TestClassify_KeyScanMultiPhase(t *testing.T) {
	pairs, outcome := Classify(map[string]any{
		"voltageL1": 230.1,
		"voltageL2": 229.8,
		"voltageL3": 231.0,
		"timestamp": "2025-08-29T10:00:00Z",
	})

	assert.Equal(t, Matched, outcome)
	assert.Equal(t, map[domain.Phase]float64{
		domain.PhaseL1: 230.1,
		domain.PhaseL2: 229.8,
		domain.PhaseL3: 231.0,
	}, pairSet(pairs))
}

func TestClassify_KeyScanDelimitedTokens(t *testing.T) {
	pairs, _ := Classify(map[string]any{
		"current_a": 4.1,
		"current_b": 4.2,
		"current_c": 4.3,
	})

	assert.Equal(t, map[domain.Phase]float64{
		domain.PhaseL1: 4.1,
		domain.PhaseL2: 4.2,
		domain.PhaseL3: 4.3,
	}, pairSet(pairs))
}

func TestClassify_AmbiguousKeyYieldsSinglePair(t *testing.T) {
	// "a_b" satisfies both the L1 and L2 token matchers; the first phase
	// whose matcher accepts a key wins and the key is not re-examined.
	pairs, outcome := Classify(map[string]any{
		"a_b":       5.0,
		"timestamp": "2025-08-29T10:00:00Z",
	})

	assert.Equal(t, Matched, outcome)
	require.Len(t, pairs, 1)
	assert.Equal(t, domain.PhaseL1, pairs[0].Phase)
	assert.Equal(t, 5.0, pairs[0].Value)
}

func TestClassify_KeyScanIgnoresNonNumericAndReservedKeys(t *testing.T) {
	pairs, outcome := Classify(map[string]any{
		"instrumentId": 7,
		"timestamp":    "2025-08-29T10:00:00Z",
		"label_a":      "not a number",
	})

	assert.Empty(t, pairs)
	assert.Equal(t, NoSignal, outcome)
}

func TestClassify_TotalFallback(t *testing.T) {
	pairs, outcome := Classify(map[string]any{
		"value":     12.3,
		"timestamp": "2025-08-29T10:00:00Z",
	})

	assert.Equal(t, Matched, outcome)
	require.Len(t, pairs, 1)
	assert.Equal(t, domain.PhaseTotal, pairs[0].Phase)
	assert.Equal(t, 12.3, pairs[0].Value)
}

func TestClassify_UnmappedSubjectFallsThroughToKeyScan(t *testing.T) {
	pairs, outcome := Classify(map[string]any{
		"subject":   "Neutral",
		"voltageL1": 230.0,
	})

	assert.Equal(t, Matched, outcome)
	require.Len(t, pairs, 1)
	assert.Equal(t, domain.PhaseL1, pairs[0].Phase)
}

func TestClassify_UnmappedOutcomeDistinctFromNoSignal(t *testing.T) {
	_, outcome := Classify(map[string]any{
		"subject":   "Neutral",
		"timestamp": "2025-08-29T10:00:00Z",
	})
	assert.Equal(t, Unmapped, outcome)

	_, outcome = Classify(map[string]any{
		"timestamp": "2025-08-29T10:00:00Z",
		"quality":   "GOOD",
	})
	assert.Equal(t, NoSignal, outcome)
}

func TestClassify_NumericStringsAndRejectedNonFinite(t *testing.T) {
	pairs, _ := Classify(map[string]any{"value": "17.5"})
	require.Len(t, pairs, 1)
	assert.Equal(t, 17.5, pairs[0].Value)

	pairs, outcome := Classify(map[string]any{"value": "NaN"})
	assert.Empty(t, pairs)
	assert.Equal(t, NoSignal, outcome)
}

func TestClassify_NumericPriorityOrder(t *testing.T) {
	pairs, _ := Classify(map[string]any{
		"subject":      "A",
		"numericData":  1.0,
		"numericValue": 2.0,
		"value":        3.0,
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, 1.0, pairs[0].Value)
}

func TestParsePhase_ClosedEnum(t *testing.T) {
	_, ok := domain.ParsePhase("N")
	assert.False(t, ok)

	phase, ok := domain.ParsePhase("3PH")
	assert.True(t, ok)
	assert.Equal(t, domain.PhaseTotal, phase)
}
