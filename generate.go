package petrag

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// InsufficientEvidence is answered when there is nothing to ground an answer on.
const InsufficientEvidence = "제공된 근거 자료만으로는 정확한 답변을 드리기 어렵습니다. 정확한 진단을 위해 가까운 동물병원에서 수의사와 상담해 주세요."

const generalFallbackAnswer = "지금은 답변을 드리기 어렵습니다. 잠시 후 다시 질문해 주세요. 반려동물의 건강이 걱정된다면 수의사와 상담해 주세요."

// IsInsufficient reports whether answer is the insufficient evidence response.
func IsInsufficient(answer string) bool {
	return strings.TrimSpace(answer) == InsufficientEvidence
}

// AnswerGenerator grounds answers in the highest ranked evidence.
type AnswerGenerator struct {
	generator   Generator
	maxEvidence int
	callTimeout time.Duration
	logger      *zap.Logger
}

// Generate returns the answer and the evidence items it was given.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, evidence EvidenceSet, feedback string) (string, EvidenceSet) {
	used := evidence.Top(g.maxEvidence)
	if len(used) == 0 {
		g.logger.Debug("no evidence, answering insufficient")
		return InsufficientEvidence, nil
	}
	if g.generator == nil {
		g.logger.Warn("no generator configured, answering insufficient")
		return InsufficientEvidence, used
	}

	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	answer, err := g.generator.Answer(ctx, question, used, feedback)
	if err != nil {
		g.logger.Sugar().With("error", err).Warn("generate answer failed")
		return InsufficientEvidence, used
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		g.logger.Warn("generator returned an empty answer")
		return InsufficientEvidence, used
	}

	return answer, used
}

// Converse answers a general question without evidence.
func (g *AnswerGenerator) Converse(ctx context.Context, question string) string {
	if g.generator == nil {
		return generalFallbackAnswer
	}

	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	answer, err := g.generator.Converse(ctx, question)
	if err != nil || strings.TrimSpace(answer) == "" {
		g.logger.Sugar().With("error", err).Warn("general answer failed")
		return generalFallbackAnswer
	}

	return strings.TrimSpace(answer)
}
