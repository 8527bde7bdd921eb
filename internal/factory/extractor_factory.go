package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/adapters/bedrock"
	"github.com/alto-labs/alto-triage/internal/adapters/gemini"
	"github.com/alto-labs/alto-triage/internal/adapters/openai"
	"github.com/alto-labs/alto-triage/internal/config"
	"github.com/alto-labs/alto-triage/internal/core"
)

// ExtractorFactory creates content-extraction clients
type ExtractorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewExtractorFactory creates a new extractor factory
func NewExtractorFactory(cfg *config.Config, logger *zap.Logger) *ExtractorFactory {
	return &ExtractorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateExtractor creates a new extractor based on the configuration
func (f *ExtractorFactory) CreateExtractor() (core.Extractor, error) {
	switch f.cfg.GetExtractor().Provider {
	case "gemini":
		c := f.cfg.GetGemini()
		return gemini.NewFactory(c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP, f.logger).CreateExtractor()
	case "openai":
		c := f.cfg.GetOpenAI()
		return openai.NewFactory(c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP, f.logger).CreateExtractor()
	case "bedrock":
		c := f.cfg.GetBedrock()
		return bedrock.NewFactory(c.Region, c.ModelID, c.MaxTokens, c.Temperature, c.TopP, f.logger).CreateExtractor()
	default:
		return nil, fmt.Errorf("unsupported extraction provider: %s", f.cfg.GetExtractor().Provider)
	}
}

// MaxBodySize returns the configured body limit for the active provider
func (f *ExtractorFactory) MaxBodySize() int {
	switch f.cfg.GetExtractor().Provider {
	case "openai":
		return f.cfg.GetOpenAI().MaxBodySize
	case "bedrock":
		return f.cfg.GetBedrock().MaxBodySize
	default:
		return f.cfg.GetGemini().MaxBodySize
	}
}
