package core

import (
	"context"
	"time"
)

// Extractor turns free text into structured events, tasks and a summary.
// Implementations wrap a remote generative model and are treated as opaque.
type Extractor interface {
	Analyze(ctx context.Context, text string, profile *FamilyProfile) (*Analysis, error)
}

// ProfileRepository stores family profiles
type ProfileRepository interface {
	// Get returns the profile for a family, or (nil, nil) when none exists
	Get(ctx context.Context, familyID string) (*FamilyProfile, error)

	// Save persists a profile, replacing any previous version
	Save(ctx context.Context, profile *FamilyProfile) error
}

// FetchOptions configures a message fetch
type FetchOptions struct {
	MaxResults int
	After      *time.Time
	Before     *time.Time
}

// MessageSource supplies candidate messages from an inbox
type MessageSource interface {
	Fetch(ctx context.Context, opts FetchOptions) ([]Message, error)
}
