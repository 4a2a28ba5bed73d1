package payload

// Placeholders used when an end-of-call report omits a field.
const (
	NoTranscript    = "No transcript."
	NoSummary       = "No summary."
	NoRecording     = "No recording."
	UnknownCustomer = "Unknown"
)

// CallReport is the subset of an end-of-call report we forward by email.
type CallReport struct {
	Transcript     string `json:"transcript"`
	Summary        string `json:"summary"`
	RecordingURL   string `json:"recordingUrl"`
	CustomerNumber string `json:"customerNumber"`
	EndedReason    string `json:"endedReason,omitempty"`
}

// ExtractReport reads report fields from the current schema (message.*), the
// artifact block, and the flat legacy shape, in that order. Missing fields get
// placeholders; EndedReason stays empty when absent.
func ExtractReport(e Event) CallReport {
	r := CallReport{
		Transcript:   e.firstText("message.transcript", "message.artifact.transcript", "transcript"),
		Summary:      e.firstText("message.summary", "message.analysis.summary", "summary"),
		RecordingURL: e.firstText("message.recordingUrl", "message.artifact.recordingUrl", "recordingUrl"),
		CustomerNumber: e.firstText(
			"message.call.customer.number",
			"message.customer.number",
			"customer.number",
		),
		EndedReason: e.firstText("message.endedReason", "endedReason"),
	}
	if r.Transcript == "" {
		r.Transcript = NoTranscript
	}
	if r.Summary == "" {
		r.Summary = NoSummary
	}
	if r.RecordingURL == "" {
		r.RecordingURL = NoRecording
	}
	if r.CustomerNumber == "" {
		r.CustomerNumber = UnknownCustomer
	}
	return r
}
