package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/alto-labs/alto-triage/internal/core"
)

// defaultLookbackDays bounds the query when no explicit range is given
const defaultLookbackDays = 5

// buildQuery constructs a Gmail search query from FetchOptions.
// Gmail's "before" operator is exclusive, so the end date gets one extra day.
func buildQuery(opts core.FetchOptions) string {
	var parts []string

	after := time.Now().AddDate(0, 0, -defaultLookbackDays)
	if opts.After != nil {
		after = *opts.After
	}
	parts = append(parts, fmt.Sprintf("after:%s", after.Format("2006/01/02")))

	if opts.Before != nil {
		before := opts.Before.AddDate(0, 0, 1)
		parts = append(parts, fmt.Sprintf("before:%s", before.Format("2006/01/02")))
	}

	return strings.Join(parts, " ")
}

// convertMessage converts a Gmail API message to the core Message type
func convertMessage(msg *gmailapi.Message) core.Message {
	m := core.Message{
		ID:      msg.Id,
		Snippet: msg.Snippet,
	}

	if msg.Payload == nil {
		return m
	}

	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "subject":
			m.Subject = header.Value
		case "from":
			m.From = header.Value
		case "date":
			if t, err := parseDate(header.Value); err == nil {
				m.Date = t
			}
		}
	}
	if m.Subject == "" {
		m.Subject = "(No Subject)"
	}
	if m.Date.IsZero() {
		m.Date = time.Unix(msg.InternalDate/1000, 0)
	}

	m.SenderEmail = core.ParseSenderEmail(m.From)
	m.HasAttachments = hasAttachmentParts(msg.Payload)
	m.Body = extractBody(msg.Payload)
	if m.Body == "" {
		m.Body = msg.Snippet
	}

	return m
}

// parseDate attempts the date formats seen in the wild
func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"2 Jan 2006 15:04:05 -0700",
		"Mon, 02 Jan 2006 15:04:05 -0700 (MST)",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// hasAttachmentParts reports whether any part looks like an attachment:
// a named file or an application/* payload
func hasAttachmentParts(payload *gmailapi.MessagePart) bool {
	for _, part := range payload.Parts {
		if part.Filename != "" {
			return true
		}
		if strings.HasPrefix(part.MimeType, "application/") {
			return true
		}
	}
	return false
}

// extractBody pulls the decoded text body, preferring text/plain over
// text/html
func extractBody(payload *gmailapi.MessagePart) string {
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}

	if part := findPart(payload, "text/plain"); part != nil {
		return decodeBody(part.Body.Data)
	}
	if part := findPart(payload, "text/html"); part != nil {
		return decodeBody(part.Body.Data)
	}
	return ""
}

// findPart walks the part tree looking for the given MIME type
func findPart(payload *gmailapi.MessagePart, mimeType string) *gmailapi.MessagePart {
	for _, part := range payload.Parts {
		if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
			return part
		}
		if nested := findPart(part, mimeType); nested != nil {
			return nested
		}
	}
	return nil
}

// decodeBody decodes the base64url body data, falling back to the raw
// string when decoding fails
func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(data)
	if err != nil {
		if decoded, err = base64.StdEncoding.DecodeString(data); err != nil {
			return data
		}
	}
	return string(decoded)
}
