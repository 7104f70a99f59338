package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaBackend summarizes through a local Ollama server.
type OllamaBackend struct {
	host   string
	client *http.Client
}

func NewOllamaBackend(host string) *OllamaBackend {
	return &OllamaBackend{
		host:   strings.TrimSuffix(host, "/"),
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (b *OllamaBackend) Summarize(ctx context.Context, req Request) (string, error) {
	reqBody := ollamaRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: false,
		Options: ollamaOptions{
			// Low temperature keeps summaries consistent across runs.
			Temperature: 0.3,
			TopP:        0.9,
			NumPredict:  req.MaxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ollama: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.host+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("ollama: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", classifyTransportError("ollama", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{
			Kind:   KindTransport,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("ollama: unexpected status %d", resp.StatusCode),
		}
	}

	var apiResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", &BackendError{Kind: KindInvalidResponse, Err: fmt.Errorf("ollama: failed to parse response: %w", err)}
	}

	if apiResp.Error != "" {
		return "", &BackendError{Kind: KindInvalidResponse, Err: fmt.Errorf("ollama: API error: %s", apiResp.Error)}
	}

	text := strings.TrimSpace(apiResp.Response)
	if text == "" {
		return "", &BackendError{Kind: KindInvalidResponse, Err: errors.New("ollama: empty response")}
	}

	return text, nil
}
