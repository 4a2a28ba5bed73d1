package message

import (
	"fmt"
	"strings"

	"voice-webhooks/internal/payload"
)

// OutboundMessage is a text message ready to hand to an SMS provider.
type OutboundMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// ContentType values for Email.
const (
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
)

// Email is a composed notification email. From/To are filled in by the sender
// configuration when left empty.
type Email struct {
	From        string
	To          []string
	Subject     string
	Body        string
	ContentType string
}

// ComposeSMS builds the link text. Plain text: no escaping, and no attempt to
// fit carrier segment limits.
func ComposeSMS(business, linkType, url string) string {
	return fmt.Sprintf("Hello from %s! Here is the %s link: %s", business, linkType, url)
}

// ComposeCallReport builds the end-of-call summary email.
func ComposeCallReport(business string, r payload.CallReport) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "New call summary for %s\n\n", business)
	fmt.Fprintf(&b, "Customer: %s\n", r.CustomerNumber)
	if r.EndedReason != "" {
		fmt.Fprintf(&b, "Ended reason: %s\n", r.EndedReason)
	}
	fmt.Fprintf(&b, "Recording: %s\n\n", r.RecordingURL)
	b.WriteString("Summary:\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(r.Transcript)
	b.WriteString("\n")

	return Email{
		Subject:     fmt.Sprintf("Call Summary: %s", r.CustomerNumber),
		Body:        b.String(),
		ContentType: ContentTypeText,
	}
}
