package assistant

import (
	"strings"
)

// Document is the assistant configuration returned when a call begins.
type Document struct {
	Assistant Assistant `json:"assistant"`
}

type Assistant struct {
	FirstMessage string      `json:"firstMessage"`
	Model        Model       `json:"model"`
	Transcriber  Transcriber `json:"transcriber"`
	Voice        Voice       `json:"voice"`
}

type Model struct {
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
	Server   Server   `json:"server"`
}

type Function struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

type Parameters struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

type Transcriber struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Language string `json:"language,omitempty"`
}

type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// Settings are the per-deployment knobs of the document.
type Settings struct {
	Business     string
	FirstMessage string
	SystemPrompt string

	ModelProvider string
	Model         string

	TranscriberProvider string
	TranscriberModel    string
	TranscriberLanguage string

	VoiceProvider string
	VoiceID       string

	ToolName string
	// SendLinkURL is this service's send-sms endpoint.
	SendLinkURL string
}

// Build renders the document. linkTypes feeds the tool's type enum.
func Build(s Settings, linkTypes []string) Document {
	prompt := s.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultPrompt(s.Business, s.ToolName, linkTypes)
	}

	tool := Tool{
		Type: "function",
		Function: Function{
			Name:        s.ToolName,
			Description: "Send the caller a text message with a " + s.Business + " link.",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"type": {
						Type:        "string",
						Description: "Which link to send.",
						Enum:        linkTypes,
					},
					"phone": {
						Type:        "string",
						Description: "Caller phone number. Leave empty; caller ID is used when available.",
					},
				},
				Required: []string{"type"},
			},
		},
		Server: Server{URL: s.SendLinkURL},
	}

	return Document{Assistant: Assistant{
		FirstMessage: s.FirstMessage,
		Model: Model{
			Provider: s.ModelProvider,
			Model:    s.Model,
			Messages: []Message{{Role: "system", Content: prompt}},
			Tools:    []Tool{tool},
		},
		Transcriber: Transcriber{
			Provider: s.TranscriberProvider,
			Model:    s.TranscriberModel,
			Language: s.TranscriberLanguage,
		},
		Voice: Voice{Provider: s.VoiceProvider, VoiceID: s.VoiceID},
	}}
}

func defaultPrompt(business, toolName string, linkTypes []string) string {
	var b strings.Builder
	b.WriteString("You are the friendly phone receptionist for ")
	b.WriteString(business)
	b.WriteString(". Answer questions briefly. When the caller wants a link, call the ")
	b.WriteString(toolName)
	b.WriteString(" tool with the matching type")
	if len(linkTypes) > 0 {
		b.WriteString(" (one of: ")
		b.WriteString(strings.Join(linkTypes, ", "))
		b.WriteString(")")
	}
	b.WriteString(". The caller's number is already known from caller ID, so never ask them to repeat it.")
	return b.String()
}
