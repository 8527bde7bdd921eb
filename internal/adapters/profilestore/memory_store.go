package profilestore

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/core"
)

// MemoryStore is an in-memory implementation of the ProfileRepository
// interface, suitable for single-process demo use
type MemoryStore struct {
	profiles map[string]*core.FamilyProfile
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewMemoryStore creates a new in-memory profile store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*core.FamilyProfile),
		logger:   logger,
	}
}

// Get returns the profile for a family, or (nil, nil) when none exists
func (s *MemoryStore) Get(ctx context.Context, familyID string) (*core.FamilyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[familyID]
	if !ok {
		return nil, nil
	}
	return copyProfile(profile), nil
}

// Save persists a profile, replacing any previous version
func (s *MemoryStore) Save(ctx context.Context, profile *core.FamilyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.FamilyID] = copyProfile(profile)
	return nil
}

// copyProfile detaches the slice fields so neither callers nor the store
// can mutate the other's state
func copyProfile(profile *core.FamilyProfile) *core.FamilyProfile {
	copied := *profile
	copied.Parents = append([]string(nil), profile.Parents...)
	copied.Children = append([]core.Child(nil), profile.Children...)
	copied.TrustedSenders = append([]string(nil), profile.TrustedSenders...)
	copied.LearnedKeywords = append([]string(nil), profile.LearnedKeywords...)
	return &copied
}
