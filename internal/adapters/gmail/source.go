package gmail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/alto-labs/alto-triage/internal/core"
)

// Source implements core.MessageSource against the Gmail REST API
type Source struct {
	credPath  string
	tokenPath string
	service   *gmailapi.Service
	logger    *zap.Logger
}

// NewSource creates a new Gmail message source
func NewSource(credPath, tokenPath string, logger *zap.Logger) *Source {
	return &Source{
		credPath:  credPath,
		tokenPath: tokenPath,
		logger:    logger,
	}
}

// Connect authenticates with the stored token and builds the Gmail service
func (s *Source) Connect(ctx context.Context) error {
	client, err := httpClient(ctx, s.credPath, s.tokenPath)
	if err != nil {
		return err
	}

	service, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("failed to create Gmail service: %w", err)
	}

	s.service = service
	return nil
}

// Fetch retrieves candidate messages matching the options
func (s *Source) Fetch(ctx context.Context, opts core.FetchOptions) ([]core.Message, error) {
	if s.service == nil {
		if err := s.Connect(ctx); err != nil {
			return nil, err
		}
	}

	query := buildQuery(opts)
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s.logger.Debug("Fetching Gmail messages", zap.String("query", query), zap.Int("max_results", maxResults))

	resp, err := s.service.Users.Messages.List("me").
		Q(query).
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var messages []core.Message
	for _, ref := range resp.Messages {
		full, err := s.service.Users.Messages.Get("me", ref.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			s.logger.Warn("Skipping message", zap.String("id", ref.Id), zap.Error(err))
			continue
		}
		messages = append(messages, convertMessage(full))
		if len(messages) >= maxResults {
			break
		}
	}

	return messages, nil
}
