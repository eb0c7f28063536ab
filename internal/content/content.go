// Package content selects the best body part of a message and normalizes it
// into a self-contained HTML document for rendering.
package content

import (
	"fmt"
	"html"
	"strings"

	"github.com/dealsift/dealsift/internal/jmap"
)

// Kind classifies the body content selected from a message.
type Kind int

const (
	KindNone Kind = iota
	KindHTML
	KindText
)

const noSubject = "No Subject"

const noContentNotice = "No content available for this message."

// SelectBody picks the first HTML part with resolvable content, falling back
// to the first resolvable plain-text part. Part order is taken as provided
// by the server.
func SelectBody(msg jmap.Email) (string, Kind) {
	for _, part := range msg.HTMLBody {
		if bv, ok := msg.BodyValues[part.PartID]; ok {
			return bv.Value, KindHTML
		}
	}
	for _, part := range msg.TextBody {
		if bv, ok := msg.BodyValues[part.PartID]; ok {
			return bv.Value, KindText
		}
	}
	return "", KindNone
}

// DisplayHTML turns a message into a full HTML document with a metadata
// header block. HTML content that already is a complete document is
// returned unchanged; plain text is escaped into a preformatted block; a
// message with no resolvable body gets a fixed notice.
func DisplayHTML(msg jmap.Email) string {
	body, kind := SelectBody(msg)

	if kind == KindHTML && isFullDocument(body) {
		return body
	}

	subject := msg.Subject
	if subject == "" {
		subject = noSubject
	}

	var meta strings.Builder
	metaRow(&meta, "Subject", subject)
	metaRow(&meta, "From", formatAddresses(msg.From))
	metaRow(&meta, "To", formatAddresses(msg.To))
	if len(msg.CC) > 0 {
		metaRow(&meta, "Cc", formatAddresses(msg.CC))
	}
	metaRow(&meta, "Received", msg.ReceivedAt)

	var rendered string
	switch kind {
	case KindHTML:
		rendered = body
	case KindText:
		rendered = "<pre>" + html.EscapeString(body) + "</pre>"
	default:
		rendered = `<p class="notice">` + noContentNotice + `</p>`
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>%s</title>
<style>
body {
    margin: 20px;
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
    font-size: 14px;
    line-height: 1.5;
}
.metadata {
    border-bottom: 1px solid #ccc;
    margin-bottom: 16px;
    padding-bottom: 8px;
    color: #444;
}
pre { white-space: pre-wrap; }
img { max-width: 100%%; height: auto; }
</style>
</head>
<body>
<div class="metadata">
%s</div>
%s
</body>
</html>`, html.EscapeString(subject), meta.String(), rendered)
}

func metaRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<div><strong>%s:</strong> %s</div>\n", label, html.EscapeString(value))
}

func formatAddresses(addrs []jmap.EmailAddress) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.Name != "" {
			parts = append(parts, fmt.Sprintf("%s <%s>", a.Name, a.Email))
		} else {
			parts = append(parts, a.Email)
		}
	}
	return strings.Join(parts, ", ")
}

// isFullDocument reports whether the content already starts with a document
// or html declaration, ignoring leading whitespace and case.
func isFullDocument(s string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html")
}
