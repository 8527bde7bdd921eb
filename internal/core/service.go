package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/retry"
	"github.com/alto-labs/alto-triage/internal/utils"
)

// TriageService is the fetch-score-rank-extract pipeline around the scorer
type TriageService struct {
	source          MessageSource
	extractor       Extractor
	profiles        ProfileRepository
	textProcessor   *utils.TextProcessor
	logger          *zap.Logger
	retryPolicy     retry.Policy
	learningEnabled bool
	minScore        int
	maxBodySize     int
}

// NewTriageService creates a new triage service
func NewTriageService(
	source MessageSource,
	extractor Extractor,
	profiles ProfileRepository,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	retryPolicy retry.Policy,
	learningEnabled bool,
	minScore int,
	maxBodySize int,
) *TriageService {
	return &TriageService{
		source:          source,
		extractor:       extractor,
		profiles:        profiles,
		textProcessor:   textProcessor,
		logger:          logger,
		retryPolicy:     retryPolicy,
		learningEnabled: learningEnabled,
		minScore:        minScore,
		maxBodySize:     maxBodySize,
	}
}

// ScanInbox fetches candidate messages, scores them against the family
// profile and returns them ranked by descending relevance. Messages below
// the configured minimum score are dropped.
func (s *TriageService) ScanInbox(ctx context.Context, familyID string, opts FetchOptions) ([]Message, error) {
	profile, err := s.profiles.Get(ctx, familyID)
	if err != nil {
		s.logger.Warn("Failed to load family profile, scoring without it",
			zap.String("family_id", familyID),
			zap.Error(err))
		profile = nil
	}

	messages, err := s.source.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}

	scored := messages[:0]
	for _, msg := range messages {
		result := ScoreMessage(msg.Subject, msg.Body, msg.From, msg.HasAttachments, profile)
		msg.RelevanceScore = result.Score
		msg.Breakdown = result.Breakdown
		if msg.RelevanceScore >= s.minScore {
			scored = append(scored, msg)
		}
	}

	RankMessages(scored)

	s.logger.Debug("Inbox scan complete",
		zap.String("family_id", familyID),
		zap.Int("fetched", len(messages)),
		zap.Int("kept", len(scored)))

	return scored, nil
}

// ScoreOne scores a single message against the stored family profile
func (s *TriageService) ScoreOne(ctx context.Context, familyID string, msg *Message) error {
	profile, err := s.profiles.Get(ctx, familyID)
	if err != nil {
		return err
	}
	result := ScoreMessage(msg.Subject, msg.Body, msg.From, msg.HasAttachments, profile)
	msg.RelevanceScore = result.Score
	msg.Breakdown = result.Breakdown
	if msg.SenderEmail == "" {
		msg.SenderEmail = ParseSenderEmail(msg.From)
	}
	return nil
}

// Analyze runs content extraction on a selected message and, when learning
// is enabled, folds the extractor's suggestions and the sender back into the
// family profile. A profile save failure is logged but does not discard the
// extraction result.
func (s *TriageService) Analyze(ctx context.Context, familyID string, msg *Message) (*Analysis, error) {
	profile, profileErr := s.profiles.Get(ctx, familyID)
	if profileErr != nil {
		s.logger.Warn("Failed to load family profile before analysis",
			zap.String("family_id", familyID),
			zap.Error(profileErr))
		profile = nil
	}

	text := msg.Subject + "\n\n" + s.textProcessor.ProcessText(msg.Body, s.maxBodySize)

	var analysis *Analysis
	err := retry.Do(ctx, s.retryPolicy, s.logger, func(ctx context.Context) error {
		var callErr error
		analysis, callErr = s.extractor.Analyze(ctx, text, profile)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	if analysis.AnalyzedAt.IsZero() {
		analysis.AnalyzedAt = time.Now()
	}

	// Merging into a profile that failed to load would save a near-empty
	// replacement over the stored one, so learning requires a clean read.
	if s.learningEnabled && profileErr == nil {
		s.learnFrom(ctx, familyID, profile, msg, analysis)
	}

	return analysis, nil
}

// learnFrom applies the continuous-learning merge and persists it when the
// profile actually changed
func (s *TriageService) learnFrom(ctx context.Context, familyID string, profile *FamilyProfile, msg *Message, analysis *Analysis) {
	sender := msg.SenderEmail
	if sender == "" {
		sender = ParseSenderEmail(msg.From)
	}

	var keywords []string
	if analysis.Learning != nil {
		keywords = analysis.Learning.NewKeywords
	}

	updated := MergeLearning(profile, sender, keywords)
	if updated.FamilyID == "" {
		updated.FamilyID = familyID
	}

	if profile != nil &&
		len(updated.TrustedSenders) == len(profile.TrustedSenders) &&
		len(updated.LearnedKeywords) == len(profile.LearnedKeywords) {
		return
	}

	if err := s.profiles.Save(ctx, updated); err != nil {
		s.logger.Error("Failed to persist learned profile updates",
			zap.String("family_id", familyID),
			zap.Error(err))
		return
	}

	s.logger.Info("Profile updated from analysis",
		zap.String("family_id", familyID),
		zap.String("sender", sender),
		zap.Int("trusted_senders", len(updated.TrustedSenders)),
		zap.Int("learned_keywords", len(updated.LearnedKeywords)))
}
