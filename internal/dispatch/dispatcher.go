// Package dispatch turns classified platform events into acknowledgments. It
// never returns an error to its caller: every failure becomes a result string
// or a log line.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"voice-webhooks/internal/assistant"
	"voice-webhooks/internal/links"
	"voice-webhooks/internal/message"
	"voice-webhooks/internal/metrics"
	"voice-webhooks/internal/notify"
	"voice-webhooks/internal/payload"
	"voice-webhooks/internal/phone"
	"voice-webhooks/pkg/logger"
)

// Result texts read back to the caller by the voice assistant.
const (
	ResultMissingPhone = "Error: Missing phone number"
	ResultInvalidPhone = "Error: Invalid phone number"
	ResultSendFailed   = "Failed to send text."
	ResultUnknownTool  = "Error: Unsupported tool"
	resultSentFormat   = "Success! Text sent for %s."
)

// Webhook acknowledgment statuses.
const (
	StatusOK        = "OK"
	StatusIgnored   = "Ignored"
	StatusEmailSent = "Email sent"
)

// minPhoneDigits is the shortest number we will hand to a provider.
const minPhoneDigits = 10

// ToolResult answers one tool call.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// ToolResponse is the tool-call acknowledgment body.
type ToolResponse struct {
	Results []ToolResult `json:"results"`
}

// WebhookAck is the acknowledgment for lifecycle events.
type WebhookAck struct {
	Status string `json:"status"`
}

// Options wires a Dispatcher. Links defaults to the built-in table.
type Options struct {
	Business  string
	Links     *links.Directory
	Assistant assistant.Document
	// ToolName is the send-link function name. Tool calls posted to the
	// unified webhook under another name are not sent. Empty accepts any.
	ToolName string

	SMS notify.SMSSender
	// Email is optional; nil disables call summaries.
	Email notify.EmailSender
	// Guard is optional; nil sends every tool call.
	Guard notify.SendGuard
}

// Dispatcher handles classified platform events. It is safe for concurrent use.
type Dispatcher struct {
	business  string
	toolName  string
	links     *links.Directory
	assistant assistant.Document
	sms       notify.SMSSender
	email     notify.EmailSender
	guard     notify.SendGuard
}

// New builds a Dispatcher from o.
func New(o Options) *Dispatcher {
	if o.Links == nil {
		o.Links = links.Default()
	}
	return &Dispatcher{
		business:  o.Business,
		toolName:  strings.TrimSpace(o.ToolName),
		links:     o.Links,
		assistant: o.Assistant,
		sms:       o.SMS,
		email:     o.Email,
		guard:     o.Guard,
	}
}

// CallStart returns the assistant document for a new call.
func (d *Dispatcher) CallStart() assistant.Document {
	metrics.EventsTotal.WithLabelValues(string(payload.KindAssistantRequest)).Inc()
	return d.assistant
}

// SendLink handles a send-link tool call.
func (d *Dispatcher) SendLink(ctx context.Context, ev payload.Event) ToolResponse {
	metrics.EventsTotal.WithLabelValues(string(payload.KindToolCalls)).Inc()

	inv := payload.Extract(ev)
	req := payload.Resolve(inv)
	to := phone.Normalize(req.Phone)
	provider := d.smsName()

	log := logger.From(ctx).With("tool_call_id", inv.ToolCallID, "provider", provider)
	reply := func(result string) ToolResponse {
		return ToolResponse{Results: []ToolResult{{ToolCallID: inv.ToolCallID, Result: result}}}
	}

	if to == "" {
		metrics.SMSTotal.WithLabelValues(provider, metrics.OutcomeMissingPhone).Inc()
		log.Warn("send link: missing phone number")
		return reply(ResultMissingPhone)
	}
	if phone.Digits(to) < minPhoneDigits {
		metrics.SMSTotal.WithLabelValues(provider, metrics.OutcomeInvalidPhone).Inc()
		log.Warn("send link: invalid phone number", "phone", to)
		return reply(ResultInvalidPhone)
	}

	entry := d.links.Resolve(req.Type)
	if req.Type != "" && !d.links.Known(req.Type) {
		log.Info("send link: unknown link type, using default", "requested", req.Type, "default", entry.Type)
	}
	msg := message.OutboundMessage{
		To:   to,
		Body: message.ComposeSMS(d.business, entry.Type, entry.URL),
	}
	log = log.With("phone", to, "link_type", entry.Type)

	// The send runs to completion even if the platform hangs up on us.
	sendCtx := context.WithoutCancel(ctx)

	if d.guard != nil && inv.ToolCallID != payload.UnknownToolCallID {
		first, err := d.guard.Claim(sendCtx, inv.ToolCallID)
		switch {
		case err != nil:
			log.Warn("send guard unavailable, sending anyway", "err", err)
		case !first:
			metrics.SMSTotal.WithLabelValues(provider, metrics.OutcomeDuplicate).Inc()
			log.Info("send link: duplicate tool call, not resending")
			return reply(fmt.Sprintf(resultSentFormat, entry.Type))
		}
	}

	id, err := d.sendSMS(sendCtx, msg)
	if err != nil {
		metrics.SMSTotal.WithLabelValues(provider, metrics.OutcomeFailed).Inc()
		log.Error("send link: sms failed", "err", err)
		return reply(ResultSendFailed)
	}

	metrics.SMSTotal.WithLabelValues(provider, metrics.OutcomeSent).Inc()
	log.Info("send link: sms sent", "message_id", id)
	return reply(fmt.Sprintf(resultSentFormat, entry.Type))
}

// CallEnded emails the end-of-call summary. Email failures are logged and
// counted; the acknowledgment does not change.
func (d *Dispatcher) CallEnded(ctx context.Context, ev payload.Event) WebhookAck {
	metrics.EventsTotal.WithLabelValues(string(payload.KindEndOfCallReport)).Inc()
	log := logger.From(ctx)

	if d.email == nil {
		metrics.EmailTotal.WithLabelValues(metrics.OutcomeDisabled).Inc()
		log.Debug("call ended: email disabled")
		return WebhookAck{Status: StatusOK}
	}

	report := payload.ExtractReport(ev)
	mail := message.ComposeCallReport(d.business, report)
	log = log.With("customer", report.CustomerNumber, "email_provider", d.email.Name())

	if err := d.email.SendEmail(context.WithoutCancel(ctx), mail); err != nil {
		metrics.EmailTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Error("call ended: email failed", "err", err)
	} else {
		metrics.EmailTotal.WithLabelValues(metrics.OutcomeSent).Inc()
		log.Info("call ended: email sent")
	}
	return WebhookAck{Status: StatusEmailSent}
}

// Webhook routes any platform event sent to the unified server URL.
func (d *Dispatcher) Webhook(ctx context.Context, ev payload.Event) any {
	kind := payload.Classify(ev)
	switch kind {
	case payload.KindAssistantRequest:
		return d.CallStart()
	case payload.KindToolCalls:
		if inv := payload.Extract(ev); !d.ownsTool(inv.Name) {
			metrics.EventsTotal.WithLabelValues(string(payload.KindOther)).Inc()
			logger.From(ctx).Info("webhook: tool call for another tool", "tool", inv.Name, "tool_call_id", inv.ToolCallID)
			return ToolResponse{Results: []ToolResult{{ToolCallID: inv.ToolCallID, Result: ResultUnknownTool}}}
		}
		return d.SendLink(ctx, ev)
	case payload.KindEndOfCallReport:
		return d.CallEnded(ctx, ev)
	}

	metrics.EventsTotal.WithLabelValues(string(payload.KindOther)).Inc()
	logger.From(ctx).Debug("webhook: ignored event", "type", ev.MessageType())
	return WebhookAck{Status: StatusIgnored}
}

// ownsTool reports whether a tool call named name is ours. A call with no
// name is accepted.
func (d *Dispatcher) ownsTool(name string) bool {
	name = strings.TrimSpace(name)
	return d.toolName == "" || name == "" || strings.EqualFold(name, d.toolName)
}

func (d *Dispatcher) sendSMS(ctx context.Context, msg message.OutboundMessage) (string, error) {
	if d.sms == nil {
		return "", notify.ErrNotConfigured
	}
	return d.sms.SendSMS(ctx, msg)
}

func (d *Dispatcher) smsName() string {
	if d.sms == nil {
		return "none"
	}
	return d.sms.Name()
}
