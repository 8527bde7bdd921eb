package intake

import (
	"bytes"
	"context"
	"io"
	"net/mail"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/core"
)

// SMTPIntake accepts user-forwarded mail over SMTP, scores it and runs
// content extraction on messages above the auto-analyze threshold
type SMTPIntake struct {
	service          *core.TriageService
	logger           *zap.Logger
	listenAddr       string
	domain           string
	maxMessageBytes  int64
	familyID         string
	analyzeThreshold int
	server           *smtp.Server
}

// NewSMTPIntake creates a new SMTP intake listener
func NewSMTPIntake(
	service *core.TriageService,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	maxMessageBytes int64,
	familyID string,
	analyzeThreshold int,
) *SMTPIntake {
	return &SMTPIntake{
		service:          service,
		logger:           logger,
		listenAddr:       listenAddr,
		domain:           domain,
		maxMessageBytes:  maxMessageBytes,
		familyID:         familyID,
		analyzeThreshold: analyzeThreshold,
	}
}

// Start starts the SMTP listener
func (in *SMTPIntake) Start() error {
	in.server = smtp.NewServer(&smtpBackend{intake: in})

	in.server.Addr = in.listenAddr
	in.server.Domain = in.domain
	in.server.ReadTimeout = 30 * time.Second
	in.server.WriteTimeout = 30 * time.Second
	in.server.MaxMessageBytes = in.maxMessageBytes
	in.server.MaxRecipients = 10
	in.server.AllowInsecureAuth = true

	in.logger.Info("SMTP intake starting", zap.String("address", in.listenAddr))

	go func() {
		if err := in.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				in.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (in *SMTPIntake) Stop() error {
	if in.server != nil {
		return in.server.Close()
	}
	return nil
}

// process scores a forwarded message and triggers extraction when it is
// relevant enough
func (in *SMTPIntake) process(msg *core.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := in.service.ScoreOne(ctx, in.familyID, msg); err != nil {
		in.logger.Error("Failed to score forwarded message",
			zap.String("sender", msg.From),
			zap.Error(err))
		return
	}

	in.logger.Info("Forwarded message scored",
		zap.String("sender", msg.SenderEmail),
		zap.String("subject", msg.Subject),
		zap.Int("score", msg.RelevanceScore),
		zap.Strings("breakdown", msg.Breakdown))

	if msg.RelevanceScore < in.analyzeThreshold {
		return
	}

	analysis, err := in.service.Analyze(ctx, in.familyID, msg)
	if err != nil {
		in.logger.Error("Failed to analyze forwarded message",
			zap.String("sender", msg.SenderEmail),
			zap.Error(err))
		return
	}

	in.logger.Info("Forwarded message analyzed",
		zap.String("summary", analysis.Summary),
		zap.Int("events", len(analysis.Events)),
		zap.Int("tasks", len(analysis.Tasks)))
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{intake: b.intake}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	intake *SMTPIntake
	sender string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}

// AuthPlain handles PLAIN authentication (unused here)
func (s *smtpSession) AuthPlain(_, _ string) error {
	return smtp.ErrAuthUnsupported
}

// Mail records the envelope sender
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt accepts any recipient; the intake address is a catch-all
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	return nil
}

// Data receives the message, extracts its text and hands it to the
// triage pipeline
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	parsed, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.intake.logger.Error("Failed to parse message", zap.Error(err))
		return err
	}

	text, err := extractTextFromMessage(parsed)
	if err != nil {
		s.intake.logger.Warn("Failed to extract text content", zap.Error(err))
		text = string(rawData)
	}

	from := parsed.Header.Get("From")
	if from == "" {
		from = s.sender
	}

	msg := &core.Message{
		Subject:        parsed.Header.Get("Subject"),
		From:           from,
		SenderEmail:    core.ParseSenderEmail(from),
		Body:           text,
		Date:           time.Now(),
		HasAttachments: hasAttachmentParts(parsed),
	}

	s.intake.process(msg)
	return nil
}
