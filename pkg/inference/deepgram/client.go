package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"academic-ai-be/pkg/inference"
)

// Client uploads audio to a Deepgram-style speech-to-text endpoint.
type Client struct {
	URL    string
	APIKey string
	HTTP   *http.Client
}

var _ inference.Transcriber = &Client{}

func NewClient(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		URL:    url,
		APIKey: apiKey,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	const op = "transcribe"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", gatewayError(op, "create form file", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", gatewayError(op, "read audio", err)
	}
	if err := writer.Close(); err != nil {
		return "", gatewayError(op, "finalize form", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.URL, &buf)
	if err != nil {
		return "", gatewayError(op, "create request", err)
	}
	req.Header.Set("Authorization", "Token "+c.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", gatewayError(op, "request failed", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", gatewayError(op, "read response", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &inference.GatewayError{
			Op:         op,
			StatusCode: res.StatusCode,
			Message:    string(resBody),
		}
	}

	var listen listenResponse
	if err := json.Unmarshal(resBody, &listen); err != nil {
		return "", gatewayError(op, "unmarshal response", err)
	}

	channels := listen.Results.Channels
	if len(channels) == 0 || len(channels[0].Alternatives) == 0 {
		return "", gatewayError(op, "response missing transcript", nil)
	}
	return channels[0].Alternatives[0].Transcript, nil
}

func gatewayError(op, message string, err error) *inference.GatewayError {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return &inference.GatewayError{Op: op, Message: message, Err: err}
}
