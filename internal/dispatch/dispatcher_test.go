package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"voice-webhooks/internal/assistant"
	"voice-webhooks/internal/links"
	"voice-webhooks/internal/message"
	"voice-webhooks/internal/metrics"
	"voice-webhooks/internal/notify"
	"voice-webhooks/internal/payload"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSMS struct {
	mu   sync.Mutex
	sent []message.OutboundMessage
	err  error
}

func (f *fakeSMS) Name() string { return "fake" }

func (f *fakeSMS) SendSMS(ctx context.Context, msg message.OutboundMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

type fakeEmail struct {
	sent []message.Email
	err  error
}

func (f *fakeEmail) Name() string { return "fake" }

func (f *fakeEmail) SendEmail(_ context.Context, e message.Email) error {
	f.sent = append(f.sent, e)
	return f.err
}

type fakeGuard struct {
	claimed map[string]bool
	err     error
}

func (g *fakeGuard) Claim(_ context.Context, key string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.claimed[key] {
		return false, nil
	}
	g.claimed[key] = true
	return true, nil
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func newDispatcher(sms notify.SMSSender, email notify.EmailSender, guard notify.SendGuard) *Dispatcher {
	doc := assistant.Build(assistant.Settings{Business: "Photo Illusions", ToolName: "send_text", SendLinkURL: "http://localhost:10000/send-sms"}, links.Default().Types())
	return New(Options{
		Business:  "Photo Illusions",
		ToolName:  "send_text",
		Links:     links.Default(),
		Assistant: doc,
		SMS:       sms,
		Email:     email,
		Guard:     guard,
	})
}

func event(t *testing.T, raw string) payload.Event {
	t.Helper()
	return payload.Parse([]byte(raw))
}

func TestSendLinkFlatBody(t *testing.T) {
	sms := &fakeSMS{}
	d := newDispatcher(sms, nil, nil)

	resp := d.SendLink(context.Background(), event(t, `{"phone":"8565551234","type":"contract"}`))

	require.Len(t, resp.Results, 1)
	assert.Equal(t, payload.UnknownToolCallID, resp.Results[0].ToolCallID)
	assert.Equal(t, "Success! Text sent for contract.", resp.Results[0].Result)

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+18565551234", sms.sent[0].To)
	assert.Contains(t, sms.sent[0].Body, "https://www.photoillusions.us/contract")
	assert.Contains(t, sms.sent[0].Body, "Photo Illusions")
}

func TestSendLinkPrefersCallerID(t *testing.T) {
	sms := &fakeSMS{}
	d := newDispatcher(sms, nil, nil)

	resp := d.SendLink(context.Background(), event(t, `{
		"message": {
			"type": "tool-calls",
			"call": {"customer": {"number": "+19085551111"}},
			"toolCalls": [{"id": "call_abc", "function": {"name": "send_text", "arguments": {"type": "Gallery"}}}]
		}
	}`))

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+19085551111", sms.sent[0].To)
	assert.Contains(t, sms.sent[0].Body, "https://www.photoillusions.us/gallery")
	assert.Equal(t, ToolResult{ToolCallID: "call_abc", Result: "Success! Text sent for gallery."}, resp.Results[0])
}

func TestSendLinkUnknownTypeFallsBack(t *testing.T) {
	sms := &fakeSMS{}
	d := newDispatcher(sms, nil, nil)

	resp := d.SendLink(context.Background(), event(t, `{"phone":"8565551234","type":"brochure"}`))

	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0].Body, "Here is the website link: https://www.photoillusions.us")
	assert.Equal(t, "Success! Text sent for website.", resp.Results[0].Result)
}

func TestSendLinkMissingPhoneNeverSends(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		wantID string
	}{
		{"flat without phone", `{"type":"contract"}`, payload.UnknownToolCallID},
		{"empty body", `{}`, payload.UnknownToolCallID},
		{"invalid json", `not json`, payload.UnknownToolCallID},
		{"blank phone", `{"phone":"  ","type":"contract"}`, payload.UnknownToolCallID},
		{
			"tool call without phone",
			`{"message":{"toolCalls":[{"id":"call_9","function":{"arguments":{"type":"payment"}}}]}}`,
			"call_9",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sms := &fakeSMS{}
			d := newDispatcher(sms, nil, nil)

			resp := d.SendLink(context.Background(), event(t, tc.body))

			assert.Empty(t, sms.sent)
			require.Len(t, resp.Results, 1)
			assert.Equal(t, tc.wantID, resp.Results[0].ToolCallID)
			assert.Equal(t, ResultMissingPhone, resp.Results[0].Result)
		})
	}
}

func TestSendLinkShortPhoneNeverSends(t *testing.T) {
	sms := &fakeSMS{}
	d := newDispatcher(sms, nil, nil)

	resp := d.SendLink(context.Background(), event(t, `{"phone":"555-1234"}`))

	assert.Empty(t, sms.sent)
	assert.Equal(t, ResultInvalidPhone, resp.Results[0].Result)
}

func TestSendLinkProviderFailure(t *testing.T) {
	sms := &fakeSMS{err: errors.New("provider down")}
	d := newDispatcher(sms, nil, nil)

	before := counterValue(t, metrics.SMSTotal.WithLabelValues("fake", metrics.OutcomeFailed))
	resp := d.SendLink(context.Background(), event(t, `{"phone":"8565551234","type":"contract"}`))

	require.Len(t, sms.sent, 1)
	assert.Equal(t, ResultSendFailed, resp.Results[0].Result)
	assert.Equal(t, before+1, counterValue(t, metrics.SMSTotal.WithLabelValues("fake", metrics.OutcomeFailed)))
}

func TestSendLinkWithoutSender(t *testing.T) {
	d := newDispatcher(nil, nil, nil)
	resp := d.SendLink(context.Background(), event(t, `{"phone":"8565551234"}`))
	assert.Equal(t, ResultSendFailed, resp.Results[0].Result)
}

func TestSendLinkSurvivesCancelledContext(t *testing.T) {
	sms := &fakeSMS{}
	d := newDispatcher(sms, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := d.SendLink(ctx, event(t, `{"phone":"8565551234"}`))
	assert.Equal(t, "Success! Text sent for website.", resp.Results[0].Result)
	assert.Len(t, sms.sent, 1)
}

func TestSendLinkGuard(t *testing.T) {
	body := `{"message":{"toolCalls":[{"id":"call_1","function":{"arguments":{"phone":"8565551234","type":"booking"}}}]}}`

	t.Run("duplicate tool call sends once", func(t *testing.T) {
		sms := &fakeSMS{}
		d := newDispatcher(sms, nil, &fakeGuard{claimed: map[string]bool{}})

		first := d.SendLink(context.Background(), event(t, body))
		second := d.SendLink(context.Background(), event(t, body))

		assert.Len(t, sms.sent, 1)
		assert.Equal(t, first, second)
		assert.Equal(t, "Success! Text sent for booking.", second.Results[0].Result)
	})

	t.Run("unknown id is never guarded", func(t *testing.T) {
		sms := &fakeSMS{}
		d := newDispatcher(sms, nil, &fakeGuard{claimed: map[string]bool{}})

		d.SendLink(context.Background(), event(t, `{"phone":"8565551234"}`))
		d.SendLink(context.Background(), event(t, `{"phone":"8565551234"}`))

		assert.Len(t, sms.sent, 2)
	})

	t.Run("guard error fails open", func(t *testing.T) {
		sms := &fakeSMS{}
		d := newDispatcher(sms, nil, &fakeGuard{err: errors.New("redis down")})

		resp := d.SendLink(context.Background(), event(t, body))

		assert.Len(t, sms.sent, 1)
		assert.Equal(t, "Success! Text sent for booking.", resp.Results[0].Result)
	})
}

func TestCallEnded(t *testing.T) {
	t.Run("report with fields", func(t *testing.T) {
		email := &fakeEmail{}
		d := newDispatcher(&fakeSMS{}, email, nil)

		ack := d.CallEnded(context.Background(), event(t, `{"message":{"type":"end-of-call-report","transcript":"hi","summary":"ok"}}`))

		assert.Equal(t, StatusEmailSent, ack.Status)
		require.Len(t, email.sent, 1)
		assert.Contains(t, email.sent[0].Subject, payload.UnknownCustomer)
		assert.Contains(t, email.sent[0].Body, "hi")
		assert.Contains(t, email.sent[0].Body, "ok")
	})

	t.Run("placeholders when fields missing", func(t *testing.T) {
		email := &fakeEmail{}
		d := newDispatcher(&fakeSMS{}, email, nil)

		ack := d.CallEnded(context.Background(), event(t, `{"message":{"type":"end-of-call-report"}}`))

		assert.Equal(t, StatusEmailSent, ack.Status)
		require.Len(t, email.sent, 1)
		assert.Contains(t, email.sent[0].Body, payload.NoTranscript)
		assert.Contains(t, email.sent[0].Body, payload.NoSummary)
	})

	t.Run("email failure does not change the ack", func(t *testing.T) {
		email := &fakeEmail{err: errors.New("smtp auth failed")}
		d := newDispatcher(&fakeSMS{}, email, nil)

		ack := d.CallEnded(context.Background(), event(t, `{"message":{"type":"end-of-call-report"}}`))

		assert.Equal(t, StatusEmailSent, ack.Status)
		assert.Len(t, email.sent, 1)
	})

	t.Run("email disabled", func(t *testing.T) {
		d := newDispatcher(&fakeSMS{}, nil, nil)
		ack := d.CallEnded(context.Background(), event(t, `{"message":{"type":"end-of-call-report"}}`))
		assert.Equal(t, StatusOK, ack.Status)
	})
}

func TestWebhookRouting(t *testing.T) {
	sms := &fakeSMS{}
	email := &fakeEmail{}
	d := newDispatcher(sms, email, nil)
	ctx := context.Background()

	got := d.Webhook(ctx, event(t, `{"message":{"type":"assistant-request"}}`))
	doc, ok := got.(assistant.Document)
	require.True(t, ok)
	assert.Equal(t, d.CallStart(), doc)

	got = d.Webhook(ctx, event(t, `{"message":{"type":"tool-calls","toolCalls":[{"id":"c1","function":{"arguments":"{\"phone\":\"8565551234\"}"}}]}}`))
	resp, ok := got.(ToolResponse)
	require.True(t, ok)
	assert.Equal(t, "c1", resp.Results[0].ToolCallID)
	assert.Len(t, sms.sent, 1)

	got = d.Webhook(ctx, event(t, `{"transcript":"hello","summary":"short call"}`))
	assert.Equal(t, WebhookAck{Status: StatusEmailSent}, got)
	assert.Len(t, email.sent, 1)

	got = d.Webhook(ctx, event(t, `{"message":{"type":"status-update","status":"in-progress"}}`))
	assert.Equal(t, WebhookAck{Status: StatusIgnored}, got)

	got = d.Webhook(ctx, event(t, `garbage`))
	assert.Equal(t, WebhookAck{Status: StatusIgnored}, got)
}

func TestSendLinkMissingAndUnknownTypeShareDefault(t *testing.T) {
	dir, err := links.New(links.BuiltinEntries(), "gallery")
	require.NoError(t, err)
	sms := &fakeSMS{}
	d := New(Options{Business: "Photo Illusions", Links: dir, SMS: sms})

	missing := d.SendLink(context.Background(), event(t, `{"phone":"8565551234"}`))
	unknown := d.SendLink(context.Background(), event(t, `{"phone":"8565551234","type":"brochure"}`))

	assert.Equal(t, missing, unknown)
	assert.Equal(t, "Success! Text sent for gallery.", missing.Results[0].Result)
	require.Len(t, sms.sent, 2)
	assert.Equal(t, sms.sent[0].Body, sms.sent[1].Body)
	assert.Contains(t, sms.sent[0].Body, "https://www.photoillusions.us/gallery")
}

func TestWebhookToolName(t *testing.T) {
	body := func(name string) string {
		return `{"message":{"type":"tool-calls","toolCalls":[{"id":"c7","function":{"name":"` + name +
			`","arguments":{"phone":"8565551234","type":"contract"}}}]}}`
	}

	t.Run("other tool is not sent", func(t *testing.T) {
		sms := &fakeSMS{}
		d := newDispatcher(sms, nil, nil)

		got := d.Webhook(context.Background(), event(t, body("lookup_order")))

		assert.Equal(t, ToolResponse{Results: []ToolResult{{ToolCallID: "c7", Result: ResultUnknownTool}}}, got)
		assert.Empty(t, sms.sent)
	})

	t.Run("configured tool is sent", func(t *testing.T) {
		sms := &fakeSMS{}
		d := newDispatcher(sms, nil, nil)

		got := d.Webhook(context.Background(), event(t, body("Send_Text")))

		resp, ok := got.(ToolResponse)
		require.True(t, ok)
		assert.Equal(t, "Success! Text sent for contract.", resp.Results[0].Result)
		assert.Len(t, sms.sent, 1)
	})

	t.Run("no configured name accepts any tool", func(t *testing.T) {
		sms := &fakeSMS{}
		d := New(Options{Business: "Photo Illusions", SMS: sms})

		d.Webhook(context.Background(), event(t, body("lookup_order")))
		assert.Len(t, sms.sent, 1)
	})
}
