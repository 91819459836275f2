package petrag

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewGradeResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		scores     []float64
		aggregate  float64
		sufficient bool
	}{
		{"no grades are insufficient", nil, 0, false},
		{"mean exactly at threshold is sufficient", []float64{0.6, 0.6}, 0.6, true},
		{"mean below threshold", []float64{0.9, 0.2}, 0.55, false},
		{"mean above threshold", []float64{0.9, 0.5, 0.7}, 0.7, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var grades []DocumentGrade
			for _, s := range tc.scores {
				grades = append(grades, DocumentGrade{Score: s})
			}

			result := NewGradeResult(grades, DefaultRelevanceThreshold)
			assert.InDelta(t, tc.aggregate, result.Aggregate, 1e-9)
			assert.Equal(t, tc.sufficient, result.Sufficient)
			assert.Equal(t, result.Aggregate >= DefaultRelevanceThreshold, result.Sufficient)
		})
	}
}

func TestRelevanceGrader_Grade(t *testing.T) {
	t.Parallel()

	results := []RetrievalResult{
		{Document: Document{ID: "1", Content: "강아지 기침은 켄넬코프가 원인일 수 있습니다"}, Score: 0.9},
		{Document: Document{ID: "2", Content: "고양이 사료 급여량 안내"}, Score: 0.8},
		{Document: Document{ID: "3", Content: "judge fails on this one"}, Score: 0.7},
	}

	judge := &stubModel{score: func(_, document string) (float64, string, error) {
		switch {
		case strings.HasPrefix(document, "강아지"):
			return 0.9, "matches the symptom", nil
		case strings.HasPrefix(document, "고양이"):
			return 1.5, "", nil
		}
		return 0, "", errUnavailable
	}}

	g := &RelevanceGrader{
		judge:       judge,
		threshold:   DefaultRelevanceThreshold,
		concurrency: 2,
		callTimeout: time.Second,
		logger:      zap.NewNop(),
	}

	graded := g.Grade(context.Background(), "강아지가 기침을 해요", results)
	require.Len(t, graded.Grades, 3)

	assert.Equal(t, "1", graded.Grades[0].Result.Document.ID)
	assert.Equal(t, 0.9, graded.Grades[0].Score)
	assert.Equal(t, TierService, graded.Grades[0].Tier)

	// out of range score falls back to lexical overlap, no shared keywords
	assert.Equal(t, TierDegraded, graded.Grades[1].Tier)
	assert.Equal(t, 0.0, graded.Grades[1].Score)

	assert.Equal(t, TierDegraded, graded.Grades[2].Tier)
	assert.Contains(t, graded.Grades[2].Reason, "lexical overlap")

	assert.InDelta(t, 0.3, graded.Aggregate, 1e-9)
	assert.False(t, graded.Sufficient)
}

func TestRelevanceGrader_GradeEmpty(t *testing.T) {
	t.Parallel()

	g := &RelevanceGrader{threshold: DefaultRelevanceThreshold, concurrency: 1, callTimeout: time.Second, logger: zap.NewNop()}

	graded := g.Grade(context.Background(), "강아지가 기침을 해요", nil)
	assert.Empty(t, graded.Grades)
	assert.False(t, graded.Sufficient)
}

func TestLexicalOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		question string
		document string
		expected float64
	}{
		{"no domain keywords in question", "안녕하세요", "강아지 기침", 0},
		{"all question keywords in document", "강아지 기침", "강아지가 기침을 하면 병원에 가세요", 1},
		{"half of question keywords in document", "고양이 구토", "고양이 예방접종 일정", 0.5},
		{"nothing shared", "고양이 구토", "사료 보관 방법", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.expected, lexicalOverlap(tc.question, tc.document), 1e-9)
		})
	}
}
