package profilestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/core"
)

// MySQLStore is a MySQL implementation of the ProfileRepository interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL profile store
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS family_profiles (
			family_id VARCHAR(128) PRIMARY KEY,
			parents JSON,
			children JSON,
			trusted_senders JSON,
			learned_keywords JSON,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// Get returns the profile for a family, or (nil, nil) when none exists
func (s *MySQLStore) Get(ctx context.Context, familyID string) (*core.FamilyProfile, error) {
	var parents, children, trusted, keywords string
	var updatedAt time.Time

	err := s.db.QueryRowContext(ctx, `
		SELECT parents, children, trusted_senders, learned_keywords, updated_at
		FROM family_profiles
		WHERE family_id = ?
	`, familyID).Scan(&parents, &children, &trusted, &keywords, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	profile := &core.FamilyProfile{FamilyID: familyID, UpdatedAt: updatedAt}
	if err := decodeColumns(profile, parents, children, trusted, keywords); err != nil {
		return nil, err
	}
	return profile, nil
}

// Save persists a profile, replacing any previous version
func (s *MySQLStore) Save(ctx context.Context, profile *core.FamilyProfile) error {
	parents, children, trusted, keywords, err := encodeColumns(profile)
	if err != nil {
		return err
	}

	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO family_profiles
			(family_id, parents, children, trusted_senders, learned_keywords, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			parents = VALUES(parents),
			children = VALUES(children),
			trusted_senders = VALUES(trusted_senders),
			learned_keywords = VALUES(learned_keywords),
			updated_at = VALUES(updated_at)
	`, profile.FamilyID, parents, children, trusted, keywords, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Stop closes the database connection
func (s *MySQLStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL connection", zap.Error(err))
	}
}
