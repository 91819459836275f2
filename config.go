package petrag

import "time"

const (
	DefaultTopK               = 5
	DefaultRelevanceThreshold = 0.6
	DefaultAcceptThreshold    = 0.75
	DefaultRewriteThreshold   = 0.50
	DefaultMaxRewrites        = 2
	DefaultMaxEvidence        = 3
	DefaultFallbackMaxResults = 3
	DefaultFallbackTimeout    = 10 * time.Second
	DefaultFacilityRadius     = 3000
	DefaultFacilityLimit      = 10
	DefaultGradeConcurrency   = 4
	DefaultCallTimeout        = 20 * time.Second
	DefaultKeywordRatio       = 0.3
	DefaultMinDocumentScore   = 0.3
)

// Config holds the tunable thresholds and limits of the pipeline.
// Zero values are replaced with defaults, a negative MaxRewrites disables rewriting.
type Config struct {
	TopK               int
	RelevanceThreshold float64
	AcceptThreshold    float64
	RewriteThreshold   float64
	// MaxRewrites is capped at 2, the rewrite state machine has no further states.
	MaxRewrites        int
	MaxEvidence        int
	FallbackMaxResults int
	FallbackTimeout    time.Duration
	FacilityRadius     int
	FacilityLimit      int
	GradeConcurrency   int
	CallTimeout        time.Duration
	KeywordRatio       float64
	MinDocumentScore   float64
}

func DefaultConfig() Config {
	return Config{
		TopK:               DefaultTopK,
		RelevanceThreshold: DefaultRelevanceThreshold,
		AcceptThreshold:    DefaultAcceptThreshold,
		RewriteThreshold:   DefaultRewriteThreshold,
		MaxRewrites:        DefaultMaxRewrites,
		MaxEvidence:        DefaultMaxEvidence,
		FallbackMaxResults: DefaultFallbackMaxResults,
		FallbackTimeout:    DefaultFallbackTimeout,
		FacilityRadius:     DefaultFacilityRadius,
		FacilityLimit:      DefaultFacilityLimit,
		GradeConcurrency:   DefaultGradeConcurrency,
		CallTimeout:        DefaultCallTimeout,
		KeywordRatio:       DefaultKeywordRatio,
		MinDocumentScore:   DefaultMinDocumentScore,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.RelevanceThreshold <= 0 {
		c.RelevanceThreshold = d.RelevanceThreshold
	}
	if c.AcceptThreshold <= 0 {
		c.AcceptThreshold = d.AcceptThreshold
	}
	if c.RewriteThreshold <= 0 {
		c.RewriteThreshold = d.RewriteThreshold
	}
	if c.RewriteThreshold > c.AcceptThreshold {
		c.RewriteThreshold = c.AcceptThreshold
	}
	switch {
	case c.MaxRewrites == 0:
		c.MaxRewrites = d.MaxRewrites
	case c.MaxRewrites < 0:
		c.MaxRewrites = 0
	case c.MaxRewrites > DefaultMaxRewrites:
		c.MaxRewrites = DefaultMaxRewrites
	}
	if c.MaxEvidence <= 0 {
		c.MaxEvidence = d.MaxEvidence
	}
	if c.FallbackMaxResults <= 0 {
		c.FallbackMaxResults = d.FallbackMaxResults
	}
	if c.FallbackTimeout <= 0 {
		c.FallbackTimeout = d.FallbackTimeout
	}
	if c.FacilityRadius <= 0 {
		c.FacilityRadius = d.FacilityRadius
	}
	if c.FacilityLimit <= 0 {
		c.FacilityLimit = d.FacilityLimit
	}
	if c.GradeConcurrency <= 0 {
		c.GradeConcurrency = d.GradeConcurrency
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = d.CallTimeout
	}
	if c.KeywordRatio <= 0 {
		c.KeywordRatio = d.KeywordRatio
	}
	if c.MinDocumentScore <= 0 {
		c.MinDocumentScore = d.MinDocumentScore
	}
	return c
}
