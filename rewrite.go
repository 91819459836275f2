package petrag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type RewriteState string

const (
	RewriteInitial   RewriteState = "INITIAL"
	Rewrite1         RewriteState = "REWRITE_1"
	Rewrite2         RewriteState = "REWRITE_2"
	RewriteEscalated RewriteState = "ESCALATED"
	RewriteAccepted  RewriteState = "ACCEPTED"
)

// BestEffortMarker prefixes answers that never passed the quality gate.
const BestEffortMarker = "[best-effort, could not fully validate] 자동 품질 검증을 통과하지 못한 답변입니다. 참고용으로만 활용하시고 반드시 수의사와 상담해 주세요."

func (s RewriteState) Terminal() bool {
	return s == RewriteAccepted || s == RewriteEscalated
}

// nextRewriteState is the transition function of the rewrite loop. Escalate
// verdicts end the loop immediately, rewrite verdicts advance one attempt
// until maxRewrites is used up.
func nextRewriteState(current RewriteState, verdict Verdict, maxRewrites int) RewriteState {
	if current.Terminal() {
		return current
	}

	switch verdict {
	case VerdictAccept:
		return RewriteAccepted
	case VerdictRewrite:
		switch {
		case current == RewriteInitial && maxRewrites >= 1:
			return Rewrite1
		case current == Rewrite1 && maxRewrites >= 2:
			return Rewrite2
		}
	}

	return RewriteEscalated
}

type Attempt struct {
	State  RewriteState
	Answer string
	Used   EvidenceSet
	Score  QualityScore
}

type RewriteOutcome struct {
	State      RewriteState
	Answer     string
	Score      QualityScore
	Rewrites   int
	BestEffort bool
	Attempts   []Attempt
}

// RewriteController regenerates answers the quality gate did not accept.
type RewriteController struct {
	generator   *AnswerGenerator
	evaluator   *QualityEvaluator
	maxRewrites int
	logger      *zap.Logger
}

// Run drives the rewrite loop starting from an already evaluated first answer.
// When no attempt is accepted the best scoring one is returned as best effort.
func (c *RewriteController) Run(ctx context.Context, question string, domain Domain, evidence EvidenceSet, initial Attempt) RewriteOutcome {
	initial.State = RewriteInitial
	attempts := []Attempt{initial}

	state := nextRewriteState(RewriteInitial, initial.Score.Verdict, c.maxRewrites)
	for !state.Terminal() {
		if err := ctx.Err(); err != nil {
			c.logger.Sugar().With("error", err, "state", state).Warn("rewrite loop cancelled")
			state = RewriteEscalated
			break
		}

		previous := attempts[len(attempts)-1]
		feedback := BuildFeedback(previous, c.evaluator.acceptThreshold)

		// A started attempt runs to completion even if the caller goes away,
		// the generator still bounds it with its own timeout.
		answer, used := c.generator.Generate(context.WithoutCancel(ctx), question, evidence, feedback)
		score := c.evaluator.Evaluate(answer, question, domain, used)
		attempts = append(attempts, Attempt{State: state, Answer: answer, Used: used, Score: score})

		c.logger.Sugar().With(
			"state", state,
			"average", score.Average,
			"verdict", score.Verdict,
		).Info("rewrite attempt evaluated")

		state = nextRewriteState(state, score.Verdict, c.maxRewrites)
	}

	outcome := RewriteOutcome{
		State:    state,
		Rewrites: len(attempts) - 1,
		Attempts: attempts,
	}

	final := attempts[len(attempts)-1]
	if state == RewriteEscalated {
		final = bestAttempt(attempts)
		outcome.BestEffort = true
	}
	outcome.Answer = final.Answer
	outcome.Score = final.Score

	return outcome
}

// bestAttempt picks the highest average, the earliest one wins ties.
func bestAttempt(attempts []Attempt) Attempt {
	best := attempts[0]
	for _, a := range attempts[1:] {
		if a.Score.Average > best.Score.Average {
			best = a
		}
	}
	return best
}

var dimensionInstructions = map[Dimension]string{
	DimensionAccuracy:     "제공된 근거 자료에 있는 내용만 사용하고 각 주장 뒤에 출처 태그를 붙이세요.",
	DimensionClarity:      "짧고 명확한 문장으로 다시 작성하세요.",
	DimensionCompleteness: "요약, 가능한 원인, 가정에서의 관리 방법, 병원 내원이 필요한 경우를 모두 포함하세요.",
	DimensionSafety:       "수의사와 상담하라는 안내와 응급 상황에서 즉시 동물병원에 가야 하는 경우를 포함하세요.",
}

// BuildFeedback tells the generator what was wrong with the previous answer.
func BuildFeedback(previous Attempt, threshold float64) string {
	var b strings.Builder

	b.WriteString("이전 답변:\n")
	b.WriteString(previous.Answer)
	b.WriteString("\n\n보완할 점:\n")
	for _, d := range previous.Score.LowDimensions(threshold) {
		fmt.Fprintf(&b, "- %s (%.2f): %s\n", d, previous.Score.Dimensions()[d], dimensionInstructions[d])
	}
	for _, issue := range previous.Score.Issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}

	return b.String()
}
