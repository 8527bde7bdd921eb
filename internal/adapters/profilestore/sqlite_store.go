package profilestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/core"
)

// SQLiteStore is a SQLite implementation of the ProfileRepository interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite profile store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS family_profiles (
			family_id TEXT PRIMARY KEY,
			parents TEXT,
			children TEXT,
			trusted_senders TEXT,
			learned_keywords TEXT,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Get returns the profile for a family, or (nil, nil) when none exists
func (s *SQLiteStore) Get(ctx context.Context, familyID string) (*core.FamilyProfile, error) {
	var parents, children, trusted, keywords string
	var updatedAt string

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

	profile := &core.FamilyProfile{FamilyID: familyID}
	if err := decodeColumns(profile, parents, children, trusted, keywords); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		profile.UpdatedAt = t
	}
	return profile, nil
}

// Save persists a profile, replacing any previous version
func (s *SQLiteStore) Save(ctx context.Context, profile *core.FamilyProfile) error {
	parents, children, trusted, keywords, err := encodeColumns(profile)
	if err != nil {
		return err
	}

	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO family_profiles
			(family_id, parents, children, trusted_senders, learned_keywords, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, profile.FamilyID, parents, children, trusted, keywords, updatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Stop closes the database connection
func (s *SQLiteStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}

// encodeColumns serializes the profile's list fields to JSON columns
func encodeColumns(profile *core.FamilyProfile) (parents, children, trusted, keywords string, err error) {
	enc := func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode profile field: %w", err)
		}
		return string(b), nil
	}

	if parents, err = enc(profile.Parents); err != nil {
		return
	}
	if children, err = enc(profile.Children); err != nil {
		return
	}
	if trusted, err = enc(profile.TrustedSenders); err != nil {
		return
	}
	keywords, err = enc(profile.LearnedKeywords)
	return
}

// decodeColumns restores the profile's list fields from JSON columns
func decodeColumns(profile *core.FamilyProfile, parents, children, trusted, keywords string) error {
	dec := func(s string, v interface{}) error {
		if s == "" || s == "null" {
			return nil
		}
		if err := json.Unmarshal([]byte(s), v); err != nil {
			return fmt.Errorf("failed to decode profile field: %w", err)
		}
		return nil
	}

	if err := dec(parents, &profile.Parents); err != nil {
		return err
	}
	if err := dec(children, &profile.Children); err != nil {
		return err
	}
	if err := dec(trusted, &profile.TrustedSenders); err != nil {
		return err
	}
	return dec(keywords, &profile.LearnedKeywords)
}
