package petrag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		average  float64
		expected Verdict
	}{
		{1, VerdictAccept},
		{0.75, VerdictAccept},
		{0.7499, VerdictRewrite},
		{0.60, VerdictRewrite},
		{0.50, VerdictRewrite},
		{0.4999, VerdictEscalate},
		{0, VerdictEscalate},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, VerdictFor(tc.average, DefaultAcceptThreshold, DefaultRewriteThreshold), "average %v", tc.average)
	}
}

func TestQualityEvaluator_Evaluate(t *testing.T) {
	t.Parallel()

	e := testEvaluator()

	t.Run("grounded complete answer is accepted", func(t *testing.T) {
		t.Parallel()

		score := e.Evaluate(goodAnswer, coughQuestion, DomainMedical, coughEvidence())
		assert.Equal(t, VerdictAccept, score.Verdict)
		assert.InDelta(t, 0.92, score.Accuracy, 1e-9)
		assert.Equal(t, 1.0, score.Clarity)
		assert.Equal(t, 1.0, score.Completeness)
		assert.Equal(t, 1.0, score.Safety)
	})

	t.Run("uncited answer without safety guidance is rewritten", func(t *testing.T) {
		t.Parallel()

		score := e.Evaluate(mediocreAnswer, coughQuestion, DomainMedical, coughEvidence())
		assert.Equal(t, VerdictRewrite, score.Verdict)
		assert.InDelta(t, 0.2, score.Safety, 1e-9)
		assert.Equal(t, 0.5, score.Completeness)
		assert.Contains(t, score.Issues, "answer does not cite its sources")
		assert.Contains(t, score.Issues, "missing advice to consult a veterinarian")
		assert.Contains(t, score.Issues, "symptoms mentioned without urgent care guidance")
		assert.Contains(t, score.Issues, "missing section: summary")
		assert.Equal(t, []Dimension{DimensionAccuracy, DimensionCompleteness, DimensionSafety}, score.LowDimensions(DefaultAcceptThreshold))
	})

	t.Run("unhelpful answer is escalated", func(t *testing.T) {
		t.Parallel()

		score := e.Evaluate(poorAnswer, coughQuestion, DomainMedical, coughEvidence())
		assert.Equal(t, VerdictEscalate, score.Verdict)
	})

	t.Run("answer without evidence loses accuracy", func(t *testing.T) {
		t.Parallel()

		score := e.Evaluate(goodAnswer, coughQuestion, DomainMedical, nil)
		assert.Less(t, score.Accuracy, 0.3+1e-9)
		assert.Contains(t, score.Issues, "no evidence available to verify the answer")
	})

	t.Run("unknown citations are flagged", func(t *testing.T) {
		t.Parallel()

		score := e.Evaluate("요약: 기침 원인 [internal:nowhere].", coughQuestion, DomainMedical, coughEvidence())
		assert.Contains(t, score.Issues, "answer cites unknown sources: [internal:nowhere]")
	})

	t.Run("general answers are scored on length", func(t *testing.T) {
		t.Parallel()

		score := e.Evaluate("사료는 하루 두 번 나눠 주세요.", "사료 급여 횟수", DomainGeneral, nil)
		assert.Less(t, score.Completeness, 1.0)
		assert.Greater(t, score.Completeness, 0.0)
	})

	t.Run("scoring is deterministic", func(t *testing.T) {
		t.Parallel()

		first := e.Evaluate(mediocreAnswer, coughQuestion, DomainMedical, coughEvidence())
		second := e.Evaluate(mediocreAnswer, coughQuestion, DomainMedical, coughEvidence())
		assert.Equal(t, first, second)
	})
}

func TestQualityEvaluator_AverageWithinBounds(t *testing.T) {
	t.Parallel()

	e := testEvaluator()
	for _, answer := range []string{"", poorAnswer, mediocreAnswer, goodAnswer} {
		score := e.Evaluate(answer, coughQuestion, DomainMedical, coughEvidence())
		for d, v := range score.Dimensions() {
			assert.True(t, v >= 0 && v <= 1, "%s out of range: %v", d, v)
		}
		assert.Equal(t, VerdictFor(score.Average, DefaultAcceptThreshold, DefaultRewriteThreshold), score.Verdict)
	}
}

func TestSplitOnPunctuation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"첫 문장.", "둘째 문장?", "셋째"}, splitOnPunctuation("첫 문장. 둘째 문장?\n셋째"))
	assert.Empty(t, splitOnPunctuation("   "))
}
