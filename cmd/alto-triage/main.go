package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/adapters/scanner"
	"github.com/alto-labs/alto-triage/internal/config"
	"github.com/alto-labs/alto-triage/internal/core"
	"github.com/alto-labs/alto-triage/internal/di"
	"github.com/alto-labs/alto-triage/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	intake ports.Intake,
	inboxScanner *scanner.Scanner,
	extractor core.Extractor,
	profiles core.ProfileRepository,
) error {
	defer logger.Sync()

	intakeEnabled := cfg.GetBool("intake.enabled")
	scannerEnabled := cfg.GetBool("scanner.enabled")
	if !intakeEnabled && !scannerEnabled {
		logger.Warn("Both the SMTP intake and the inbox scanner are disabled")
	}

	// Start the mail intake
	if intakeEnabled {
		if err := intake.Start(); err != nil {
			logger.Fatal("Failed to start intake", zap.Error(err))
			return err
		}
	}

	// Start the inbox scanner
	if scannerEnabled {
		if err := inboxScanner.Start(); err != nil {
			logger.Fatal("Failed to start inbox scanner", zap.Error(err))
			return err
		}
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if scannerEnabled {
		if err := inboxScanner.Stop(); err != nil {
			logger.Error("Failed to stop inbox scanner", zap.Error(err))
		}
	}
	if intakeEnabled {
		if err := intake.Stop(); err != nil {
			logger.Error("Failed to stop intake", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := extractor.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close extractor", zap.Error(err))
		}
	}

	// Stop the profile store if needed
	if stopper, ok := profiles.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
