package petrag

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Intent string

const (
	IntentMedical        Intent = "MEDICAL"
	IntentFacilitySearch Intent = "FACILITY_SEARCH"
	IntentGeneral        Intent = "GENERAL"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentMedical, IntentFacilitySearch, IntentGeneral:
		return true
	}
	return false
}

const degradedIntentConfidence = 0.5

type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Tier       Tier    `json:"tier"`
}

// valid reports whether a model classification is usable. A result without a
// reason is malformed.
func (r IntentResult) valid() bool {
	return r.Intent.Valid() &&
		!math.IsNaN(r.Confidence) && r.Confidence >= 0 && r.Confidence <= 1 &&
		strings.TrimSpace(r.Reason) != ""
}

// IntentClassifier routes a question to the medical, facility or general
// branch of the pipeline.
type IntentClassifier struct {
	model       IntentModel
	minRatio    float64
	callTimeout time.Duration
	logger      *zap.Logger
}

// Classify never fails, when neither the keywords nor the model can decide
// the question is treated as general conversation.
func (c *IntentClassifier) Classify(ctx context.Context, question string) IntentResult {
	ch := chain[IntentResult]{
		heuristic: func(context.Context) (IntentResult, bool) {
			return classifyByKeywords(question, c.minRatio)
		},
		degrade: func(_ context.Context, cause error) IntentResult {
			return IntentResult{
				Intent:     IntentGeneral,
				Confidence: degradedIntentConfidence,
				Reason:     fmt.Sprintf("classification unavailable: %v", cause),
			}
		},
	}
	if c.model != nil {
		ch.service = func(ctx context.Context) (IntentResult, error) {
			ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
			defer cancel()

			result, err := c.model.ClassifyIntent(ctx, question)
			if err != nil {
				return IntentResult{}, err
			}
			if !result.valid() {
				return IntentResult{}, fmt.Errorf("malformed classification: intent=%q confidence=%v reason=%q", result.Intent, result.Confidence, result.Reason)
			}
			return result, nil
		}
	}

	result, tier, err := ch.resolve(ctx)
	result.Tier = tier
	if err != nil {
		c.logger.Sugar().With("error", err).Warn("intent classification degraded")
	}
	c.logger.Sugar().With(
		"intent", result.Intent,
		"confidence", result.Confidence,
		"tier", tier,
	).Debug("classified question")

	return result
}

func classifyByKeywords(question string, minRatio float64) (IntentResult, bool) {
	facility := keywordRatio(question, facilityKeywords)
	symptom := keywordRatio(question, symptomKeywords)

	switch {
	case facility >= minRatio && facility > symptom:
		return IntentResult{
			Intent:     IntentFacilitySearch,
			Confidence: facility,
			Reason:     fmt.Sprintf("facility keyword ratio %.2f", facility),
		}, true
	case symptom >= minRatio && symptom > facility:
		return IntentResult{
			Intent:     IntentMedical,
			Confidence: symptom,
			Reason:     fmt.Sprintf("symptom keyword ratio %.2f", symptom),
		}, true
	}

	return IntentResult{}, false
}
