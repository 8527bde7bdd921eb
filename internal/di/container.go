package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/adapters/scanner"
	"github.com/alto-labs/alto-triage/internal/config"
	"github.com/alto-labs/alto-triage/internal/core"
	"github.com/alto-labs/alto-triage/internal/factory"
	"github.com/alto-labs/alto-triage/internal/logging"
	"github.com/alto-labs/alto-triage/internal/ports"
	"github.com/alto-labs/alto-triage/internal/retry"
	"github.com/alto-labs/alto-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewExtractorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewProfileStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register extractor
	if err := container.Provide(func(f *factory.ExtractorFactory) (core.Extractor, error) {
		return f.CreateExtractor()
	}); err != nil {
		return nil, err
	}

	// Register profile repository
	if err := container.Provide(func(f *factory.ProfileStoreFactory) (core.ProfileRepository, error) {
		return f.CreateProfileRepository()
	}); err != nil {
		return nil, err
	}

	// Register message source
	if err := container.Provide(func(f *factory.SourceFactory) core.MessageSource {
		return f.CreateMessageSource()
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(func(
		source core.MessageSource,
		extractor core.Extractor,
		profiles core.ProfileRepository,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
		cfg *config.Config,
		ef *factory.ExtractorFactory,
	) *core.TriageService {
		policy := retry.Policy{
			MaxAttempts:  cfg.GetInt("retry.max_attempts"),
			InitialDelay: cfg.GetDuration("retry.initial_delay"),
			MaxDelay:     cfg.GetDuration("retry.max_delay"),
			Multiplier:   2.0,
		}
		return core.NewTriageService(
			source,
			extractor,
			profiles,
			textProcessor,
			logger,
			policy,
			cfg.GetBool("learning.enabled"),
			cfg.GetInt("scoring.min_score"),
			ef.MaxBodySize(),
		)
	}); err != nil {
		return nil, err
	}

	// Register mail intake
	if err := container.Provide(func(f *factory.IntakeFactory, service *core.TriageService) ports.Intake {
		return f.CreateIntake(service)
	}); err != nil {
		return nil, err
	}

	// Register inbox scanner
	if err := container.Provide(factory.NewScannerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ScannerFactory, service *core.TriageService) *scanner.Scanner {
		return f.CreateScanner(service)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
