package factory

import (
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/adapters/gmail"
	"github.com/alto-labs/alto-triage/internal/config"
	"github.com/alto-labs/alto-triage/internal/core"
)

// SourceFactory creates mailbox message sources
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new message source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMessageSource creates the Gmail message source
func (f *SourceFactory) CreateMessageSource() core.MessageSource {
	return gmail.NewSource(
		f.cfg.GetString("gmail.credentials_path"),
		f.cfg.GetString("gmail.token_path"),
		f.logger,
	)
}
