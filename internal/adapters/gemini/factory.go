package gemini

import (
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/core"
)

// Factory creates new Extractor instances
type Factory struct {
	apiKey      string
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewFactory creates a new factory for Gemini extractors
func NewFactory(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Factory {
	return &Factory{
		apiKey:      apiKey,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// CreateExtractor creates a new Gemini extractor
func (f *Factory) CreateExtractor() (core.Extractor, error) {
	return NewExtractor(
		f.apiKey,
		f.modelName,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.logger,
	)
}
