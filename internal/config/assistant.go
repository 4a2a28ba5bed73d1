package config

import "voice-webhooks/internal/assistant"

// AssistantSettings maps the assistant section onto the document builder.
func (c Config) AssistantSettings() assistant.Settings {
	a := c.Assistant
	return assistant.Settings{
		Business:            c.Business.Name,
		FirstMessage:        a.FirstMessage,
		SystemPrompt:        a.SystemPrompt,
		ModelProvider:       a.ModelProvider,
		Model:               a.Model,
		TranscriberProvider: a.TranscriberProvider,
		TranscriberModel:    a.TranscriberModel,
		TranscriberLanguage: a.TranscriberLanguage,
		VoiceProvider:       a.VoiceProvider,
		VoiceID:             a.VoiceID,
		ToolName:            a.ToolName,
		SendLinkURL:         c.SendLinkURL(),
	}
}
