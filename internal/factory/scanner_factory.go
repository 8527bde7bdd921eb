package factory

import (
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/adapters/scanner"
	"github.com/alto-labs/alto-triage/internal/config"
	"github.com/alto-labs/alto-triage/internal/core"
)

// ScannerFactory creates the periodic inbox scanner
type ScannerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewScannerFactory creates a new scanner factory
func NewScannerFactory(cfg *config.Config, logger *zap.Logger) *ScannerFactory {
	return &ScannerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateScanner creates the inbox scanner for the triage service
func (f *ScannerFactory) CreateScanner(service *core.TriageService) *scanner.Scanner {
	return scanner.NewScanner(
		service,
		f.logger,
		f.cfg.GetString("profile.family_id"),
		f.cfg.GetDuration("scanner.interval"),
		f.cfg.GetInt("scoring.max_results"),
		f.cfg.GetInt("scoring.lookback_days"),
		f.cfg.GetInt("scoring.auto_analyze_threshold"),
	)
}
