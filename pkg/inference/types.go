package inference

import "time"

// AnalysisTypeSummary is the only analysis the document workflow requests.
const AnalysisTypeSummary = "summary"

// Turn is one role-tagged entry of a conversation in a provider-agnostic
// format. Timestamp is only sent to endpoints that want it.
type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Document carries what the analysis and document-chat endpoints need to
// know about an uploaded file.
type Document struct {
	ID       string
	Title    string
	Content  string
	Size     int64
	MimeType string
}

// AskOption tunes a document-chat request.
type AskOption func(*AskOptions)

type AskOptions struct {
	ResponseLength string // "short", "medium", "long"
	TechnicalDepth string // "general", "technical", "expert"
}

func DefaultAskOptions() *AskOptions {
	return &AskOptions{
		ResponseLength: "medium",
		TechnicalDepth: "general",
	}
}

func WithResponseLength(length string) AskOption {
	return func(o *AskOptions) {
		o.ResponseLength = length
	}
}

func WithTechnicalDepth(depth string) AskOption {
	return func(o *AskOptions) {
		o.TechnicalDepth = depth
	}
}
