package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const anthropicEndpoint = "https://api.anthropic.com/v1/messages"

// AnthropicBackend summarizes through the Anthropic Messages API.
type AnthropicBackend struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewAnthropicBackend(apiKey string) *AnthropicBackend {
	return &AnthropicBackend{
		apiKey:   apiKey,
		endpoint: anthropicEndpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Anthropic API request/response types

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (b *AnthropicBackend) Summarize(ctx context.Context, req Request) (string, error) {
	reqBody := anthropicRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", b.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", classifyTransportError("anthropic", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Kind: KindTransport, Err: fmt.Errorf("anthropic: failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{
			Kind:   KindTransport,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("anthropic: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
		}
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &BackendError{Kind: KindInvalidResponse, Err: fmt.Errorf("anthropic: failed to parse response: %w", err)}
	}

	if apiResp.Error != nil {
		return "", &BackendError{
			Kind: KindInvalidResponse,
			Err:  fmt.Errorf("anthropic: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message),
		}
	}

	if len(apiResp.Content) == 0 || strings.TrimSpace(apiResp.Content[0].Text) == "" {
		return "", &BackendError{Kind: KindInvalidResponse, Err: errors.New("anthropic: empty response")}
	}

	return strings.TrimSpace(apiResp.Content[0].Text), nil
}

// classifyTransportError distinguishes timeouts from other transport
// failures so the retry layer can report them accurately.
func classifyTransportError(backend string, err error) *BackendError {
	kind := KindTransport
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		kind = KindTimeout
	}
	return &BackendError{Kind: kind, Err: fmt.Errorf("%s: request failed: %w", backend, err)}
}
