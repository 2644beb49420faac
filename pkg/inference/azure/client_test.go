package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"academic-ai-be/pkg/inference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(url, "test-key", "DeepSeek-R1", 2048, 5*time.Second)
}

func TestCompleteRequestShape(t *testing.T) {
	var captured completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "the answer"}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, err := client.Complete(context.Background(), []inference.Turn{
		{Role: "assistant", Content: "Hello!"},
		{Role: "user", Content: "Hi"},
	}, "What is entropy?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)

	assert.Equal(t, "DeepSeek-R1", captured.Model)
	assert.Equal(t, 2048, captured.MaxTokens)

	// system prompt + two history turns + the new user message
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "assistant", captured.Messages[1].Role)
	assert.Equal(t, "user", captured.Messages[3].Role)
	assert.Equal(t, "What is entropy?", captured.Messages[3].Content)
}

func TestCompleteMissingChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), nil, "hello")

	var gatewayErr *inference.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, "complete", gatewayErr.Op)
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), nil, "hello")

	var gatewayErr *inference.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusServiceUnavailable, gatewayErr.StatusCode)
	assert.Contains(t, gatewayErr.Message, "model overloaded")
}

func TestAnalyzeRequestShape(t *testing.T) {
	var captured analyzeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]string{"summary": "key findings"},
		})
	}))
	defer server.Close()

	summary, err := newTestClient(server.URL).Analyze(context.Background(), inference.Document{
		ID:       "doc-1",
		Title:    "paper.pdf",
		Content:  "full text",
		Size:     1024,
		MimeType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "key findings", summary)

	assert.Equal(t, "summary", captured.AnalysisType)
	assert.Equal(t, "paper.pdf", captured.Document.Title)
	assert.Equal(t, "full text", captured.Document.Content)
	require.NotNil(t, captured.Document.Metadata)
	assert.Equal(t, int64(1024), captured.Document.Metadata.Size)
	assert.Equal(t, "application/pdf", captured.Document.Metadata.Type)
}

func TestAnalyzeFallsBackToAnalysisField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"analysis": "flat summary"})
	}))
	defer server.Close()

	summary, err := newTestClient(server.URL).Analyze(context.Background(), inference.Document{Title: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "flat summary", summary)
}

func TestAskRequestShape(t *testing.T) {
	var captured askRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": map[string]string{"answer": "in chapter three"},
		})
	}))
	defer server.Close()

	when := time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)
	answer, err := newTestClient(server.URL).Ask(context.Background(),
		inference.Document{ID: "doc-1", Title: "book.pdf", Content: "text"},
		[]inference.Turn{{Role: "assistant", Content: "summary", Timestamp: when}},
		"Where is this discussed?",
		inference.WithResponseLength("long"),
	)
	require.NoError(t, err)
	assert.Equal(t, "in chapter three", answer)

	assert.Equal(t, "doc-1", captured.Document.ID)
	assert.Equal(t, "Where is this discussed?", captured.Question)
	require.Len(t, captured.ConversationHistory, 1)
	assert.Equal(t, "2026-01-05T12:00:00Z", captured.ConversationHistory[0].Timestamp)
	assert.Equal(t, "long", captured.Options.ResponseLength)
	assert.Equal(t, "general", captured.Options.TechnicalDepth)
}

func TestAskFallsBackToAnswerField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"answer": "flat answer"})
	}))
	defer server.Close()

	answer, err := newTestClient(server.URL).Ask(context.Background(),
		inference.Document{Title: "a.pdf"}, nil, "question?")
	require.NoError(t, err)
	assert.Equal(t, "flat answer", answer)
}
