package petrag

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAnswerGenerator_Generate(t *testing.T) {
	t.Parallel()

	evidence := EvidenceSet{
		{Content: "1", Source: "a"},
		{Content: "2", Source: "b"},
		{Content: "3", Source: "c"},
		{Content: "4", Source: "d"},
	}

	tests := []struct {
		name     string
		model    *stubModel
		evidence EvidenceSet
		expected string
		used     int
		calls    int32
	}{
		{"empty evidence skips the model", &stubModel{answers: []string{"답변"}}, nil, InsufficientEvidence, 0, 0},
		{"caps evidence", &stubModel{answers: []string{" 답변 "}}, evidence, "답변", DefaultMaxEvidence, 1},
		{"model error", &stubModel{answerErr: errUnavailable}, evidence, InsufficientEvidence, DefaultMaxEvidence, 1},
		{"blank answer", &stubModel{answers: []string{"  "}}, evidence, InsufficientEvidence, DefaultMaxEvidence, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g := &AnswerGenerator{generator: tc.model, maxEvidence: DefaultMaxEvidence, callTimeout: time.Second, logger: zap.NewNop()}

			answer, used := g.Generate(context.Background(), "강아지가 기침을 해요", tc.evidence, "")
			assert.Equal(t, tc.expected, answer)
			assert.Len(t, used, tc.used)
			assert.Equal(t, tc.calls, tc.model.calls.Load())
		})
	}
}

func TestAnswerGenerator_PassesFeedback(t *testing.T) {
	t.Parallel()

	model := &stubModel{answers: []string{"답변"}}
	g := &AnswerGenerator{generator: model, maxEvidence: DefaultMaxEvidence, callTimeout: time.Second, logger: zap.NewNop()}

	g.Generate(context.Background(), "질문", EvidenceSet{{Content: "근거"}}, "이전 답변: ...")
	assert.Equal(t, []string{"이전 답변: ..."}, model.feedbacks)
}

func TestAnswerGenerator_Converse(t *testing.T) {
	t.Parallel()

	g := &AnswerGenerator{generator: &stubModel{converse: "안녕하세요!"}, callTimeout: time.Second, logger: zap.NewNop()}
	assert.Equal(t, "안녕하세요!", g.Converse(context.Background(), "안녕"))

	g = &AnswerGenerator{generator: &stubModel{}, callTimeout: time.Second, logger: zap.NewNop()}
	assert.Equal(t, generalFallbackAnswer, g.Converse(context.Background(), "안녕"))
}

func TestIsInsufficient(t *testing.T) {
	t.Parallel()

	assert.True(t, IsInsufficient(" "+InsufficientEvidence+"\n"))
	assert.False(t, IsInsufficient("강아지 기침은 켄넬코프가 흔한 원인입니다."))
}
