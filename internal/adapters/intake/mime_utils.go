package intake

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// extractTextFromMessage extracts the readable text content from a parsed
// message, preferring text/plain parts of multipart bodies
func extractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return readPart(msg.Body, contentType, msg.Header.Get("Content-Transfer-Encoding"))
	}

	boundary, ok := params["boundary"]
	if !ok {
		return readPart(msg.Body, contentType, msg.Header.Get("Content-Transfer-Encoding"))
	}

	mr := multipart.NewReader(msg.Body, boundary)
	var textContent bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		partType := part.Header.Get("Content-Type")
		if !strings.Contains(strings.ToLower(partType), "text/plain") {
			continue
		}

		text, err := readPart(part, partType, part.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			continue
		}
		textContent.WriteString(text)
		textContent.WriteString("\n")
	}

	if textContent.Len() > 0 {
		return textContent.String(), nil
	}
	return "", nil
}

// readPart decodes one body part: transfer encoding first, then charset
func readPart(r io.Reader, contentType, transferEncoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}

	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if cs, ok := params["charset"]; ok {
			r = decodeCharset(r, cs)
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeCharset wraps the reader with a decoder for the named charset.
// Unknown or UTF-8 charsets pass through unchanged.
func decodeCharset(r io.Reader, name string) io.Reader {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "utf-8" || name == "us-ascii" {
		return r
	}

	enc, err := ianaindex.MIME.Encoding(name)
	if err != nil || enc == nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// hasAttachmentParts reports whether the raw message advertises attachments.
// Multipart bodies cannot be re-read after text extraction, so this checks
// the headers only: mixed multiparts with a name/filename parameter, or a
// non-text top-level type.
func hasAttachmentParts(msg *mail.Message) bool {
	contentType := strings.ToLower(msg.Header.Get("Content-Type"))
	if strings.Contains(contentType, "multipart/mixed") {
		return true
	}
	if strings.HasPrefix(contentType, "application/") {
		return true
	}
	return strings.Contains(contentType, "name=")
}
