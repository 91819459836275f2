package googlegenai

import (
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type Adapter struct {
	client          *genai.Client
	embeddingModel  string
	generativeModel string
	thinkingBudget  *int32
	templatesDir    string
	templates       *templates
	logger          *zap.Logger
}

type Option func(*Adapter)

func WithEmbeddingModel(model string) Option {
	return func(a *Adapter) {
		a.embeddingModel = model
	}
}

func WithGenerativeModel(model string) Option {
	return func(a *Adapter) {
		a.generativeModel = model
	}
}

// WithThinkingBudget sets the thinking token budget of generation calls.
// Zero turns thinking off, a negative budget leaves the model default.
func WithThinkingBudget(budget int32) Option {
	return func(a *Adapter) {
		if budget < 0 {
			a.thinkingBudget = nil
			return
		}
		a.thinkingBudget = genai.Ptr(budget)
	}
}

// WithTemplatesDir loads prompt templates from dir instead of the built in ones.
func WithTemplatesDir(dir string) Option {
	return func(a *Adapter) {
		a.templatesDir = dir
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

const (
	defaultEmbeddingModel  = "text-embedding-004"
	defaultGenerativeModel = "gemini-2.5-flash"
)

func New(client *genai.Client, options ...Option) (*Adapter, error) {
	a := &Adapter{
		client:          client,
		embeddingModel:  defaultEmbeddingModel,
		generativeModel: defaultGenerativeModel,
		thinkingBudget:  genai.Ptr[int32](0),
		logger:          zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	tmpls, err := loadTemplates(a.templatesDir)
	if err != nil {
		return nil, err
	}
	a.templates = tmpls

	a.logger.Sugar().With(
		"embedding model", a.embeddingModel,
		"generative model", a.generativeModel,
		"thinking budget", a.thinkingBudget,
		"templates dir", a.templatesDir,
	).Info("init google genai adapter")

	return a, nil
}

const adapterName = "google-genai"

func (a *Adapter) Name() string {
	return adapterName
}
