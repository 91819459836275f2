package petrag

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DocumentGrade struct {
	Result RetrievalResult
	Score  float64
	Reason string
	Tier   Tier
}

// GradeResult holds per document relevance and whether the documents as a
// whole are good enough to answer from.
type GradeResult struct {
	Grades     []DocumentGrade
	Aggregate  float64
	Sufficient bool
}

// NewGradeResult aggregates grades as their mean. No grades are never sufficient.
func NewGradeResult(grades []DocumentGrade, threshold float64) GradeResult {
	if len(grades) == 0 {
		return GradeResult{}
	}

	var sum float64
	for _, g := range grades {
		sum += g.Score
	}
	aggregate := sum / float64(len(grades))

	return GradeResult{
		Grades:     grades,
		Aggregate:  aggregate,
		Sufficient: aggregate >= threshold,
	}
}

// RelevanceGrader scores retrieved documents against the question.
type RelevanceGrader struct {
	judge       Judge
	threshold   float64
	concurrency int
	callTimeout time.Duration
	logger      *zap.Logger
}

// Grade scores every document independently, a failed judgement falls back
// to lexical overlap for that document only.
func (g *RelevanceGrader) Grade(ctx context.Context, question string, results []RetrievalResult) GradeResult {
	grades := make([]DocumentGrade, len(results))

	eg := new(errgroup.Group)
	eg.SetLimit(g.concurrency)
	for i, result := range results {
		eg.Go(func() error {
			grades[i] = g.gradeOne(ctx, question, result)
			return nil
		})
	}
	_ = eg.Wait()

	graded := NewGradeResult(grades, g.threshold)
	g.logger.Sugar().With(
		"documents", len(grades),
		"aggregate", graded.Aggregate,
		"sufficient", graded.Sufficient,
	).Debug("graded documents")

	return graded
}

func (g *RelevanceGrader) gradeOne(ctx context.Context, question string, result RetrievalResult) DocumentGrade {
	type judgement struct {
		score  float64
		reason string
	}

	ch := chain[judgement]{
		degrade: func(_ context.Context, cause error) judgement {
			return judgement{
				score:  lexicalOverlap(question, result.Document.Content),
				reason: fmt.Sprintf("lexical overlap, judge unavailable: %v", cause),
			}
		},
	}
	if g.judge != nil {
		ch.service = func(ctx context.Context) (judgement, error) {
			ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
			defer cancel()

			score, reason, err := g.judge.Score(ctx, question, result.Document.Content)
			if err != nil {
				return judgement{}, err
			}
			if math.IsNaN(score) || score < 0 || score > 1 {
				return judgement{}, fmt.Errorf("relevance score %v out of range", score)
			}
			return judgement{score: score, reason: reason}, nil
		}
	}

	j, tier, err := ch.resolve(ctx)
	if err != nil {
		g.logger.Sugar().With("error", err, "document", result.Document.ID).Warn("relevance judge degraded")
	}

	return DocumentGrade{
		Result: result,
		Score:  j.score,
		Reason: j.reason,
		Tier:   tier,
	}
}

// lexicalOverlap is the fraction of domain keywords present in the question
// that also appear in the document. Questions without domain keywords score zero.
func lexicalOverlap(question, document string) float64 {
	inQuestion := keywordsIn(question, domainKeywords)
	if len(inQuestion) == 0 {
		return 0
	}

	inDocument := keywordsIn(document, domainKeywords)
	var shared int
	for k := range inQuestion {
		if _, ok := inDocument[k]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(inQuestion))
}
