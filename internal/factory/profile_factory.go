package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/adapters/profilestore"
	"github.com/alto-labs/alto-triage/internal/config"
	"github.com/alto-labs/alto-triage/internal/core"
)

// ProfileStoreFactory creates family profile repositories
type ProfileStoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewProfileStoreFactory creates a new profile store factory
func NewProfileStoreFactory(cfg *config.Config, logger *zap.Logger) *ProfileStoreFactory {
	return &ProfileStoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateProfileRepository creates a profile repository based on the
// configuration
func (f *ProfileStoreFactory) CreateProfileRepository() (core.ProfileRepository, error) {
	switch f.cfg.GetString("profile.store") {
	case "memory":
		return profilestore.NewMemoryStore(f.logger), nil
	case "sqlite":
		dbPath := f.cfg.GetString("profile.sqlite_path")
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create profile store directory: %w", err)
		}
		return profilestore.NewSQLiteStore(dbPath, f.logger)
	case "mysql":
		return profilestore.NewMySQLStore(f.cfg.GetString("profile.mysql_dsn"), f.logger)
	default:
		return nil, fmt.Errorf("unsupported profile store: %s", f.cfg.GetString("profile.store"))
	}
}
