package hugot

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"go.uber.org/zap"
)

// Adapter embeds text locally with an ONNX sentence transformer.
type Adapter struct {
	session   *hugot.Session
	embedding *pipelines.FeatureExtractionPipeline
	modelName string
	onnxFile  string
	modelsDir string
	logger    *zap.Logger
}

type Option func(*Adapter)

func WithModel(name string) Option {
	return func(a *Adapter) {
		a.modelName = name
	}
}

func WithOnnxFilePath(path string) Option {
	return func(a *Adapter) {
		a.onnxFile = path
	}
}

func WithModelsDir(path string) Option {
	return func(a *Adapter) {
		a.modelsDir = path
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

const (
	defaultModelsDir  = "/models"
	defaultOnnxFile   = "onnx/model.onnx"
	defaultModelName  = "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2"
	embeddingPipeline = "embeddingPipeline"
)

func New(session *hugot.Session, options ...Option) (*Adapter, error) {
	a := &Adapter{
		session:   session,
		modelName: defaultModelName,
		onnxFile:  defaultOnnxFile,
		modelsDir: defaultModelsDir,
		logger:    zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().With(
		"model", a.modelName,
		"onnx file", a.onnxFile,
		"models dir", a.modelsDir,
	).Info("init hugot adapter")

	if err := a.init(); err != nil {
		return nil, err
	}

	return a, nil
}

const adapterName = "hugot"

func (a *Adapter) Name() string {
	return adapterName
}

func (a *Adapter) init() error {
	if a.modelName == "" {
		return errors.New("embedding model must be specified")
	}

	modelPath, err := checkModelExists(a.modelsDir, a.modelName)
	if err != nil {
		return fmt.Errorf("failed to check embedding model: %w", err)
	}

	if modelPath == "" {
		a.logger.Sugar().With("model", a.modelName).Info("start downloading embedding model")

		downloadOptions := hugot.NewDownloadOptions()
		downloadOptions.OnnxFilePath = a.onnxFile
		modelPath, err = hugot.DownloadModel(a.modelName, a.modelsDir, downloadOptions)
		if err != nil {
			return fmt.Errorf("failed to download embedding model: %w", err)
		}

		a.logger.Sugar().With("model", a.modelName).Info("downloaded embedding model")
	} else {
		a.logger.Sugar().With("path", modelPath).Info("embedding model already exists, skipping download")
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      embeddingPipeline,
	}

	a.embedding, err = hugot.NewPipeline(a.session, config)
	if err != nil {
		return fmt.Errorf("failed to create embedding pipeline: %w", err)
	}

	return nil
}

// modelDir is where DownloadModel stores a model, tags after a colon are dropped.
func modelDir(destination, modelName string) string {
	name, _, _ := strings.Cut(modelName, ":")
	return path.Join(destination, strings.ReplaceAll(name, "/", "_"))
}

func checkModelExists(destination, modelName string) (string, error) {
	modelPath := modelDir(destination, modelName)

	_, err := os.Stat(modelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return modelPath, nil
}
