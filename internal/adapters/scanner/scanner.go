package scanner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/core"
)

// Scanner polls the configured mailbox on an interval, ranks what it finds
// and runs content extraction on messages above the auto-analyze threshold
type Scanner struct {
	service          *core.TriageService
	logger           *zap.Logger
	familyID         string
	interval         time.Duration
	maxResults       int
	lookbackDays     int
	analyzeThreshold int
	stopCh           chan struct{}
	doneCh           chan struct{}
}

// NewScanner creates a new inbox scanner
func NewScanner(
	service *core.TriageService,
	logger *zap.Logger,
	familyID string,
	interval time.Duration,
	maxResults int,
	lookbackDays int,
	analyzeThreshold int,
) *Scanner {
	return &Scanner{
		service:          service,
		logger:           logger,
		familyID:         familyID,
		interval:         interval,
		maxResults:       maxResults,
		lookbackDays:     lookbackDays,
		analyzeThreshold: analyzeThreshold,
	}
}

// Start begins the polling loop. The first scan runs immediately.
func (s *Scanner) Start() error {
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	s.logger.Info("Inbox scanner starting",
		zap.Duration("interval", s.interval),
		zap.Int("max_results", s.maxResults),
		zap.Int("lookback_days", s.lookbackDays))

	go s.loop()
	return nil
}

// Stop ends the polling loop and waits for an in-flight scan to finish
func (s *Scanner) Stop() error {
	if s.stopCh == nil {
		return nil
	}
	close(s.stopCh)
	<-s.doneCh
	return nil
}

func (s *Scanner) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.scanOnce()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.scanOnce()
		}
	}
}

// scanOnce runs one fetch-score-rank pass and analyzes the messages that
// cleared the threshold
func (s *Scanner) scanOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	after := time.Now().AddDate(0, 0, -s.lookbackDays)
	ranked, err := s.service.ScanInbox(ctx, s.familyID, core.FetchOptions{
		MaxResults: s.maxResults,
		After:      &after,
	})
	if err != nil {
		s.logger.Error("Inbox scan failed", zap.Error(err))
		return
	}

	s.logger.Info("Inbox scan complete", zap.Int("messages", len(ranked)))

	for i := range ranked {
		msg := &ranked[i]
		s.logger.Info("Ranked message",
			zap.String("id", msg.ID),
			zap.String("sender", msg.SenderEmail),
			zap.String("subject", msg.Subject),
			zap.Int("score", msg.RelevanceScore),
			zap.Strings("breakdown", msg.Breakdown))

		if msg.RelevanceScore < s.analyzeThreshold {
			continue
		}

		analysis, err := s.service.Analyze(ctx, s.familyID, msg)
		if err != nil {
			s.logger.Error("Failed to analyze message",
				zap.String("id", msg.ID),
				zap.Error(err))
			continue
		}
		s.logger.Info("Message analyzed",
			zap.String("id", msg.ID),
			zap.String("summary", analysis.Summary),
			zap.Int("events", len(analysis.Events)),
			zap.Int("tasks", len(analysis.Tasks)))
	}
}
