package inference

import (
	"context"
	"io"
)

// Gateway is the contract for the model inference backend. Each operation is
// a single request/response round-trip: no retries, no streaming.
type Gateway interface {
	// Complete sends the conversation so far plus a new user message to the
	// chat-completion endpoint and returns the assistant's text.
	Complete(ctx context.Context, transcript []Turn, userMessage string) (string, error)

	// Analyze sends document title/content/metadata to the analysis endpoint
	// and returns a natural-language summary.
	Analyze(ctx context.Context, doc Document) (string, error)

	// Ask sends a document, the prior document-scoped turns, and a new
	// question to the document-chat endpoint and returns the answer.
	Ask(ctx context.Context, doc Document, history []Turn, question string, opts ...AskOption) (string, error)
}

// Transcriber is the contract for the speech-to-text backend.
type Transcriber interface {
	// Transcribe uploads an audio file and returns the transcript text.
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}
