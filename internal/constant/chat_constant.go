package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Seeded into every freshly created session.
	ChatGreetingMessage = "Hello! I'm your Academic AI assistant. How can I help with your studies today?"

	// Title of a session before the first user message names it.
	ChatDefaultSessionTitle = "New Conversation"

	// Session titles derived from the first user message are cut at this
	// many characters, with TitleEllipsis appended when truncated.
	ChatTitleMaxLen   = 30
	ChatTitleEllipsis = "..."
)

const (
	DocumentMimeTypePDF = "application/pdf"

	// Stand-in for real PDF text extraction, which this workflow does not do.
	DocumentPlaceholderContent = "This is a simulated document content that would be extracted from the PDF. In a real application, this would be the actual text content extracted from the uploaded document."

	DocumentStatusProcessing = "processing"
	DocumentStatusProcessed  = "processed"
	DocumentStatusFailed     = "failed"
)
