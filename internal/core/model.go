package core

import (
	"strings"
	"time"
)

// Message represents a candidate inbox message to be triaged
type Message struct {
	ID             string
	Subject        string
	From           string // raw "Display Name <email>" header
	SenderEmail    string // lower-cased address extracted from From
	Body           string // decoded plain text, may be empty
	Snippet        string
	Date           time.Time
	HasAttachments bool
	RelevanceScore int
	Breakdown      []string
}

// Child holds the per-child fields the scorer matches against
type Child struct {
	Name       string
	SchoolName string
	Activities []string
}

// FamilyProfile is the scoring side-input owned by the caller.
// TrustedSenders holds lower-cased addresses; LearnedKeywords are
// matched as case-insensitive substrings.
type FamilyProfile struct {
	FamilyID        string
	Parents         []string
	Children        []Child
	TrustedSenders  []string
	LearnedKeywords []string
	UpdatedAt       time.Time
}

// ScoreResult is the outcome of scoring a single message
type ScoreResult struct {
	Score     int
	Breakdown []string
}

// ExtractedEvent is a calendar event produced by content extraction
type ExtractedEvent struct {
	Title      string `json:"title"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	Category   string `json:"category"` // school, medical, activity, other
	AssignedTo string `json:"assignedTo"`
}

// ExtractedTask is a to-do produced by content extraction
type ExtractedTask struct {
	Title      string `json:"title"`
	Priority   string `json:"priority"` // high, medium, low
	Deadline   string `json:"deadline"`
	AssignedTo string `json:"assignedTo"`
}

// LearningSuggestions carries keywords the extractor found worth remembering
type LearningSuggestions struct {
	NewKeywords     []string `json:"newKeywords"`
	RelevanceReason string   `json:"relevanceReason"`
}

// Analysis is the structured output of the content extraction call
type Analysis struct {
	Summary    string               `json:"summary"`
	Events     []ExtractedEvent     `json:"events"`
	Tasks      []ExtractedTask      `json:"tasks"`
	Learning   *LearningSuggestions `json:"learningSuggestions,omitempty"`
	AnalyzedAt time.Time            `json:"-"`
	ModelUsed  string               `json:"-"`
}

// ParseSenderEmail extracts the lower-cased address from a raw From header.
// "Maîtresse <ecole@example.fr>" yields "ecole@example.fr"; a bare address
// is returned lower-cased as is.
func ParseSenderEmail(fromHeader string) string {
	if start := strings.Index(fromHeader, "<"); start != -1 {
		if end := strings.Index(fromHeader[start:], ">"); end > 1 {
			return strings.ToLower(strings.TrimSpace(fromHeader[start+1 : start+end]))
		}
	}
	return strings.ToLower(strings.TrimSpace(fromHeader))
}

// SenderDomain returns the part of the address after "@", or "" when absent
func SenderDomain(senderEmail string) string {
	if i := strings.LastIndex(senderEmail, "@"); i != -1 {
		return senderEmail[i+1:]
	}
	return ""
}
