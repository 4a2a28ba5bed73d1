package httpapi

import (
	"net/http"

	"voice-webhooks/internal/dispatch"
	"voice-webhooks/internal/payload"
	"voice-webhooks/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LivenessText is the body of GET /.
const LivenessText = "Vapi SMS Server Online"

// maxBodyBytes caps inbound webhook bodies. End-of-call reports carry full
// transcripts, so this is generous.
const maxBodyBytes = 4 << 20

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: read the body, call the dispatcher, return JSON.
//
// Every platform-facing handler answers 200. The voice platform treats any
// other status as a broken turn.
type Handlers struct {
	Dispatcher *dispatch.Dispatcher
}

func (h Handlers) Home(c *gin.Context) {
	c.String(http.StatusOK, LivenessText)
}

func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Inbound answers a call-start request with the assistant document.
func (h Handlers) Inbound(c *gin.Context) {
	c.JSON(http.StatusOK, h.Dispatcher.CallStart())
}

// SendSMS handles the send-link tool call.
func (h Handlers) SendSMS(c *gin.Context) {
	ev := readEvent(c)
	c.JSON(http.StatusOK, h.Dispatcher.SendLink(c.Request.Context(), ev))
}

// Webhook handles call lifecycle events posted to the server URL.
func (h Handlers) Webhook(c *gin.Context) {
	ev := readEvent(c)
	c.JSON(http.StatusOK, h.Dispatcher.Webhook(c.Request.Context(), ev))
}

// readEvent never fails: an unreadable or malformed body is an empty event.
func readEvent(c *gin.Context) payload.Event {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		logger.FromGin(c).Warn("read request body failed", "err", err)
		return payload.Event{}
	}
	ev := payload.Parse(raw)
	if len(raw) > 0 && ev.Raw() == "" {
		logger.FromGin(c).Warn("request body is not a JSON object", "bytes", len(raw))
	}
	return ev
}
