package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"academic-ai-be/pkg/inference"
)

// Client talks to an Azure-style model inference API: chat completions,
// document analysis, and document-scoped chat share one base URL and key.
type Client struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	HTTP      *http.Client
}

// Ensure Client implements the Gateway contract.
var _ inference.Gateway = &Client{}

func NewClient(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) *Client {
	return &Client{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: maxTokens,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages  []chatMessage `json:"messages"`
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type documentPayload struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	ID       string            `json:"id,omitempty"`
	Metadata *documentMetadata `json:"metadata,omitempty"`
}

type documentMetadata struct {
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type analyzeRequest struct {
	Document     documentPayload `json:"document"`
	AnalysisType string          `json:"analysis_type"`
}

type analyzeResponse struct {
	Result *struct {
		Summary string `json:"summary"`
	} `json:"result"`
	Analysis string `json:"analysis"`
}

type historyTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type askRequest struct {
	Document            documentPayload `json:"document"`
	ConversationHistory []historyTurn   `json:"conversation_history"`
	Question            string          `json:"question"`
	Options             askOptions      `json:"options"`
}

type askOptions struct {
	ResponseLength string `json:"response_length"`
	TechnicalDepth string `json:"technical_depth"`
}

type askResponse struct {
	Response *struct {
		Answer string `json:"answer"`
	} `json:"response"`
	Answer string `json:"answer"`
}

// --- Interface Implementation ---

func (c *Client) Complete(ctx context.Context, transcript []inference.Turn, userMessage string) (string, error) {
	const op = "complete"

	messages := make([]chatMessage, 0, len(transcript)+2)
	messages = append(messages, chatMessage{Role: "system", Content: "You are a helpful AI assistant."})
	for _, turn := range transcript {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userMessage})

	payload := completionRequest{
		Messages:  messages,
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
	}

	body, err := c.post(ctx, op, c.BaseURL+"/chat/completions", payload)
	if err != nil {
		return "", err
	}

	var res completionResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", newGatewayError(op, "unmarshal response", err)
	}
	if len(res.Choices) == 0 {
		return "", newGatewayError(op, "response missing choices", nil)
	}
	return res.Choices[0].Message.Content, nil
}

func (c *Client) Analyze(ctx context.Context, doc inference.Document) (string, error) {
	const op = "analyze"

	payload := analyzeRequest{
		Document: documentPayload{
			Title:   doc.Title,
			Content: doc.Content,
			Metadata: &documentMetadata{
				Size: doc.Size,
				Type: doc.MimeType,
			},
		},
		AnalysisType: inference.AnalysisTypeSummary,
	}

	body, err := c.post(ctx, op, c.BaseURL+"/analyze", payload)
	if err != nil {
		return "", err
	}

	var res analyzeResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", newGatewayError(op, "unmarshal response", err)
	}
	if res.Result != nil && res.Result.Summary != "" {
		return res.Result.Summary, nil
	}
	if res.Analysis != "" {
		return res.Analysis, nil
	}
	return "", newGatewayError(op, "response missing summary", nil)
}

func (c *Client) Ask(ctx context.Context, doc inference.Document, history []inference.Turn, question string, opts ...inference.AskOption) (string, error) {
	const op = "ask"

	options := inference.DefaultAskOptions()
	for _, opt := range opts {
		opt(options)
	}

	turns := make([]historyTurn, len(history))
	for i, turn := range history {
		turns[i] = historyTurn{
			Role:      turn.Role,
			Content:   turn.Content,
			Timestamp: turn.Timestamp.UTC().Format(time.RFC3339),
		}
	}

	payload := askRequest{
		Document: documentPayload{
			Title:   doc.Title,
			Content: doc.Content,
			ID:      doc.ID,
		},
		ConversationHistory: turns,
		Question:            question,
		Options: askOptions{
			ResponseLength: options.ResponseLength,
			TechnicalDepth: options.TechnicalDepth,
		},
	}

	body, err := c.post(ctx, op, c.BaseURL+"/chat", payload)
	if err != nil {
		return "", err
	}

	var res askResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", newGatewayError(op, "unmarshal response", err)
	}
	if res.Response != nil && res.Response.Answer != "" {
		return res.Response.Answer, nil
	}
	if res.Answer != "" {
		return res.Answer, nil
	}
	return "", newGatewayError(op, "response missing answer", nil)
}

// post runs one JSON round-trip and returns the raw body on 2xx.
func (c *Client) post(ctx context.Context, op, url string, payload interface{}) ([]byte, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, newGatewayError(op, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, newGatewayError(op, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Api-Key", c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, newGatewayError(op, "request failed", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, newGatewayError(op, "read response", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &inference.GatewayError{
			Op:         op,
			StatusCode: res.StatusCode,
			Message:    string(resBody),
		}
	}

	return resBody, nil
}

func newGatewayError(op, message string, err error) *inference.GatewayError {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return &inference.GatewayError{Op: op, Message: message, Err: err}
}
