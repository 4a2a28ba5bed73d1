package payload

import (
	"strings"

	"github.com/tidwall/gjson"
)

// UnknownToolCallID is used when the event carries no tool-call id, so an
// acknowledgment can always be keyed.
const UnknownToolCallID = "unknown"

// Arguments are the send-link tool arguments.
type Arguments struct {
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"`
}

// ToolInvocation is what we could learn about a tool call from an event.
type ToolInvocation struct {
	ToolCallID string    `json:"toolCallId"`
	Name       string    `json:"name,omitempty"`
	Arguments  Arguments `json:"arguments"`

	// CallerNumber is the network-supplied caller id, read from call
	// metadata rather than from the tool arguments.
	CallerNumber string `json:"callerNumber,omitempty"`
}

// LinkRequest is the normalized outcome of extraction. Phone is raw (not yet
// normalized) and may be empty. An empty Type is left for the link directory
// to resolve to its default entry.
type LinkRequest struct {
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

// Strategy tries to read a tool invocation from one known payload shape.
// It reports false when the shape does not match.
type Strategy func(e Event) (ToolInvocation, bool)

// Strategies lists the known shapes in priority order. The flat shape always
// matches, so the chain never comes up empty.
var Strategies = []Strategy{
	fromToolCalls,
	fromToolCallList,
	fromFlatBody,
}

var phoneKeys = []string{"phone", "phoneNumber", "phone_number"}

// Extract runs the strategy chain and then attaches the caller id.
func Extract(e Event) ToolInvocation {
	inv := ToolInvocation{}
	for _, s := range Strategies {
		if got, ok := s(e); ok {
			inv = got
			break
		}
	}
	if inv.ToolCallID == "" {
		inv.ToolCallID = UnknownToolCallID
	}
	inv.CallerNumber = CallerNumber(e)
	return inv
}

// CallerNumber reads the caller id from call metadata, preferring
// message.call.customer.number over message.customer.number.
func CallerNumber(e Event) string {
	return e.firstText("message.call.customer.number", "message.customer.number")
}

// Resolve turns an invocation into a LinkRequest. The caller id wins over a
// phone given in the arguments: it is authoritative, and the assistant should
// never have to ask the caller to repeat their number.
func Resolve(inv ToolInvocation) LinkRequest {
	req := LinkRequest{
		Phone: inv.CallerNumber,
		Type:  strings.ToLower(strings.TrimSpace(inv.Arguments.Type)),
	}
	if req.Phone == "" {
		req.Phone = inv.Arguments.Phone
	}
	return req
}

func fromToolCalls(e Event) (ToolInvocation, bool) {
	return fromToolCall(e.Get("message.toolCalls.0"))
}

func fromToolCallList(e Event) (ToolInvocation, bool) {
	return fromToolCall(e.Get("message.toolCallList.0"))
}

func fromToolCall(tc gjson.Result) (ToolInvocation, bool) {
	if !tc.IsObject() {
		return ToolInvocation{}, false
	}
	args := tc.Get("function.arguments")
	if !args.Exists() {
		args = tc.Get("arguments")
	}
	name := text(tc.Get("function.name"))
	if name == "" {
		name = text(tc.Get("name"))
	}
	return ToolInvocation{
		ToolCallID: text(tc.Get("id")),
		Name:       name,
		Arguments:  readArguments(args),
	}, true
}

func fromFlatBody(e Event) (ToolInvocation, bool) {
	return ToolInvocation{Arguments: readArguments(e.doc)}, true
}

// readArguments accepts an object or a JSON-encoded object string.
func readArguments(args gjson.Result) Arguments {
	if args.Type == gjson.String && gjson.Valid(args.Str) {
		args = gjson.Parse(args.Str)
	}
	if !args.IsObject() {
		return Arguments{}
	}
	out := Arguments{Type: text(args.Get("type"))}
	for _, k := range phoneKeys {
		if s := text(args.Get(k)); s != "" {
			out.Phone = s
			break
		}
	}
	return out
}
