package petrag

import (
	"errors"
	"strings"
	"time"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrMissingCredentials = errors.New("missing credentials")
)

type clock func() time.Time

// Service answers pet health questions by running the question through
// the pipeline stages and the adapters plugged into them.
type Service struct {
	cfg        Config
	embedder   Embedder
	index      VectorIndex
	model      LanguageModel
	judge      Judge
	web        WebSearcher
	geocoder   Geocoder
	facilities FacilitySearcher
	store      Store
	training   *sentences.Storage
	logger     *zap.Logger
	now        clock

	classifier *IntentClassifier
	retriever  *EvidenceRetriever
	grader     *RelevanceGrader
	fallback   *FallbackSearcher
	generator  *AnswerGenerator
	evaluator  *QualityEvaluator
	rewriter   *RewriteController
	locator    *FacilityLocator
}

type Option func(*Service)

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithJudge overrides the relevance judge, which defaults to the language model.
func WithJudge(judge Judge) Option {
	return func(s *Service) {
		s.judge = judge
	}
}

func WithWebSearcher(web WebSearcher) Option {
	return func(s *Service) {
		s.web = web
	}
}

func WithGeocoder(geocoder Geocoder) Option {
	return func(s *Service) {
		s.geocoder = geocoder
	}
}

func WithFacilitySearcher(facilities FacilitySearcher) Option {
	return func(s *Service) {
		s.facilities = facilities
	}
}

func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSentenceTraining replaces the english punkt training data used to
// split answers into sentences.
func WithSentenceTraining(training *sentences.Storage) Option {
	return func(s *Service) {
		s.training = training
	}
}

func withClock(now clock) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(embedder Embedder, index VectorIndex, model LanguageModel, options ...Option) *Service {
	s := &Service{
		cfg:      DefaultConfig(),
		embedder: embedder,
		index:    index,
		model:    model,
		logger:   zap.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	if model != nil {
		s.judge = model
	}

	for _, o := range options {
		o(s)
	}

	s.cfg = s.cfg.withDefaults()

	s.classifier = &IntentClassifier{
		model:       s.model,
		minRatio:    s.cfg.KeywordRatio,
		callTimeout: s.cfg.CallTimeout,
		logger:      s.logger,
	}
	s.retriever = &EvidenceRetriever{
		embedder:    s.embedder,
		index:       s.index,
		callTimeout: s.cfg.CallTimeout,
		logger:      s.logger,
	}
	s.grader = &RelevanceGrader{
		judge:       s.judge,
		threshold:   s.cfg.RelevanceThreshold,
		concurrency: s.cfg.GradeConcurrency,
		callTimeout: s.cfg.CallTimeout,
		logger:      s.logger,
	}
	s.fallback = &FallbackSearcher{
		web:        s.web,
		maxResults: s.cfg.FallbackMaxResults,
		timeout:    s.cfg.FallbackTimeout,
		logger:     s.logger,
	}
	s.generator = &AnswerGenerator{
		generator:   s.model,
		maxEvidence: s.cfg.MaxEvidence,
		callTimeout: s.cfg.CallTimeout,
		logger:      s.logger,
	}
	s.evaluator = newQualityEvaluator(s.cfg, s.sentenceSplitter())
	s.rewriter = &RewriteController{
		generator:   s.generator,
		evaluator:   s.evaluator,
		maxRewrites: s.cfg.MaxRewrites,
		logger:      s.logger,
	}
	s.locator = &FacilityLocator{
		geocoder:      s.geocoder,
		facilities:    s.facilities,
		defaultRadius: s.cfg.FacilityRadius,
		limit:         s.cfg.FacilityLimit,
		callTimeout:   s.cfg.CallTimeout,
		logger:        s.logger,
	}

	s.logger.Sugar().With(
		"embedder", adapterName(s.embedder),
		"index", adapterName(s.index),
		"web_search", s.web != nil,
		"facilities", s.facilities != nil,
		"store", s.store != nil,
	).Info("init pet rag service")

	return s
}

func (s *Service) sentenceSplitter() func(string) []string {
	var (
		tokenizer *sentences.DefaultSentenceTokenizer
		err       error
	)
	if s.training != nil {
		tokenizer = sentences.NewSentenceTokenizer(s.training)
	} else {
		tokenizer, err = english.NewSentenceTokenizer(nil)
	}
	if err != nil {
		s.logger.Sugar().With("error", err).Warn("sentence tokenizer unavailable, splitting on punctuation")
		return splitOnPunctuation
	}

	return func(text string) []string {
		var out []string
		for _, line := range strings.Split(text, "\n") {
			for _, sentence := range tokenizer.Tokenize(line) {
				out = append(out, sentence.Text)
			}
		}
		return out
	}
}

func adapterName(a any) string {
	if named, ok := a.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "none"
}
