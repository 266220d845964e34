package localllm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultURL is the generate endpoint of a local Ollama server.
	DefaultURL = "http://localhost:11434/api/generate"
	// DefaultModel is used when no model is configured.
	DefaultModel = "llama3"
)

// Client represents a client for a local Ollama server.
type Client struct {
	httpClient  *http.Client
	apiURL      string
	model       string
	temperature float64
}

// NewClient creates a new client for the local LLM. Empty arguments select
// the defaults.
func NewClient(apiURL, model string, temperature float64) *Client {
	if apiURL == "" {
		apiURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		apiURL:      apiURL,
		model:       model,
		temperature: temperature,
	}
}

// Request represents the request body for the generate endpoint.
type Request struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	System  string  `json:"system,omitempty"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

// Options carries sampling parameters.
type Options struct {
	Temperature float64 `json:"temperature"`
}

// Response represents the non-streaming response of the generate endpoint.
type Response struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GenerateText sends a prompt to the local LLM and returns its answer.
func (c *Client) GenerateText(ctx context.Context, prompt, system string) (string, error) {
	reqBody := Request{
		Model:   c.model,
		Prompt:  prompt,
		System:  system,
		Stream:  false,
		Options: Options{Temperature: c.temperature},
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	var llmResp Response
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if strings.TrimSpace(llmResp.Response) == "" {
		return "", fmt.Errorf("no content found in response")
	}
	return llmResp.Response, nil
}
