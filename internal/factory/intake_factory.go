package factory

import (
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/adapters/intake"
	"github.com/alto-labs/alto-triage/internal/config"
	"github.com/alto-labs/alto-triage/internal/core"
	"github.com/alto-labs/alto-triage/internal/ports"
)

// IntakeFactory creates the mail intake listener
type IntakeFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(cfg *config.Config, logger *zap.Logger) *IntakeFactory {
	return &IntakeFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateIntake creates the SMTP intake listener for the triage service
func (f *IntakeFactory) CreateIntake(service *core.TriageService) ports.Intake {
	return intake.NewSMTPIntake(
		service,
		f.logger,
		f.cfg.GetString("intake.listen_address"),
		f.cfg.GetString("intake.domain"),
		int64(f.cfg.GetInt("intake.max_message_bytes")),
		f.cfg.GetString("profile.family_id"),
		f.cfg.GetInt("scoring.auto_analyze_threshold"),
	)
}
