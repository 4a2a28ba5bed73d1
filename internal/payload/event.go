package payload

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Event is an inbound platform event. The platform varies its schema across
// versions and tool types, so the body is kept as a read-only JSON document
// and probed by path instead of being bound to a struct.
type Event struct {
	doc gjson.Result
}

// Parse wraps a raw request body. Anything that is not a JSON object is
// treated as an empty document, so every lookup misses instead of failing.
func Parse(body []byte) Event {
	if !gjson.ValidBytes(body) {
		return Event{}
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return Event{}
	}
	return Event{doc: doc}
}

// Get returns the value at a gjson path.
func (e Event) Get(path string) gjson.Result {
	return e.doc.Get(path)
}

// Raw returns the original JSON text (empty for a non-object body).
func (e Event) Raw() string {
	return e.doc.Raw
}

// MessageType is message.type, lower-cased.
func (e Event) MessageType() string {
	return strings.ToLower(strings.TrimSpace(e.Get("message.type").String()))
}

// Kind classifies an event by what the dispatcher should do with it.
type Kind string

const (
	KindAssistantRequest Kind = "assistant-request"
	KindToolCalls        Kind = "tool-calls"
	KindEndOfCallReport  Kind = "end-of-call-report"
	KindOther            Kind = "other"
)

// Classify picks the handling kind for e. An end-of-call report is recognised
// by message.type, or heuristically by transcript/summary keys on the body root
// (older schema versions post the report flat).
func Classify(e Event) Kind {
	switch e.MessageType() {
	case string(KindEndOfCallReport):
		return KindEndOfCallReport
	case string(KindAssistantRequest):
		return KindAssistantRequest
	case string(KindToolCalls):
		return KindToolCalls
	}
	if e.Get("transcript").Exists() || e.Get("summary").Exists() {
		return KindEndOfCallReport
	}
	if e.Get("message.toolCalls.0").Exists() || e.Get("message.toolCallList.0").Exists() {
		return KindToolCalls
	}
	return KindOther
}

// text returns r as a string when it is a JSON string or number, else "".
func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number:
		return strings.TrimSpace(r.String())
	default:
		return ""
	}
}

// firstText returns the first non-empty text value among paths.
func (e Event) firstText(paths ...string) string {
	for _, p := range paths {
		if s := text(e.Get(p)); s != "" {
			return s
		}
	}
	return ""
}
