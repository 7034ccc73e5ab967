package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/utils"
)

// Client is the HTTP implementation of Caller. It shapes the request payload
// for the configured target, posts it to the generate endpoint, and extracts
// the response text.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     utils.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call HTTP timeout. The default is 30 seconds.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client for the given generate endpoint, e.g.
// "http://localhost:11434/api/generate".
func NewClient(endpoint string, logger utils.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts one prompt to the model server and returns the elapsed time and
// response text. A negative elapsed value accompanies every error.
func (c *Client) Send(ctx context.Context, prompt, model string, target Target, opts params.Set) (time.Duration, string, error) {
	payload, err := buildPayload(target, model, prompt, opts)
	if err != nil {
		return -1, "", err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return -1, "", fmt.Errorf("marshaling request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return -1, "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("sending model request", "endpoint", c.endpoint, "model", model, "target", target)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return -1, "", fmt.Errorf("request to %s failed: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return -1, "", fmt.Errorf("reading response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		text, err := extractText(data)
		if err != nil {
			return -1, "", err
		}
		c.logger.Debug("model response received", "elapsed", elapsed, "bytes", len(data))
		return elapsed, text, nil
	case http.StatusUnauthorized:
		return -1, "", fmt.Errorf("authentication failed for %s: check API_KEY", c.endpoint)
	default:
		return -1, "", fmt.Errorf("unexpected HTTP status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
}

// buildPayload shapes the request body for the target model server.
func buildPayload(target Target, model, prompt string, opts params.Set) (map[string]any, error) {
	switch target {
	case TargetOllama:
		return map[string]any{
			"model":   model,
			"prompt":  prompt,
			"stream":  false,
			"options": opts.Map(),
		}, nil
	case TargetOpenWebUI:
		return map[string]any{
			"model": model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
			"parameters": opts.Map(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown target: %q", target)
	}
}

// extractText pulls the generated text out of either response format:
// "response" for ollama, choices[0].message.content for open-webui.
func extractText(data []byte) (string, error) {
	var parsed struct {
		Response string `json:"response"`
		Choices  []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parsing model response: %w", err)
	}
	if parsed.Response != "" {
		return parsed.Response, nil
	}
	if len(parsed.Choices) > 0 {
		return parsed.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("model response carries no text")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
