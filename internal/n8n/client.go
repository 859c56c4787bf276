// Package n8n is a client for the n8n workflow webhooks that generate recipes.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of a webhook response is read
const maxResponseBytes = 4 << 20

// ErrNotConfigured is returned when the webhook URL for an operation is empty
var ErrNotConfigured = errors.New("webhook URL is not configured")

// WorkflowError represents a failed or unusable webhook round trip
type WorkflowError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *WorkflowError) Error() string {
	msg := "n8n error: " + e.Op
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Recorder receives webhook call outcomes for metrics
type Recorder interface {
	RecordWorkflowCall(op, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordWorkflowCall(string, string) {}

// Client represents a client for the n8n webhooks
type Client struct {
	pingURL    string
	recipeURL  string
	httpClient *http.Client
	recorder   Recorder
}

// Config holds configuration for the n8n client
type Config struct {
	PingURL   string
	RecipeURL string
	Timeout   time.Duration
}

// NewClient creates a new n8n client
func NewClient(config *Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}

	return &Client{
		pingURL:   config.PingURL,
		recipeURL: config.RecipeURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		recorder: nopRecorder{},
	}
}

// WithRecorder sets the metrics recorder
func (c *Client) WithRecorder(r Recorder) *Client {
	if r != nil {
		c.recorder = r
	}
	return c
}

// Ping calls the ping webhook and returns its JSON body. Non-JSON bodies are returned as a JSON string.
func (c *Client) Ping(ctx context.Context) (json.RawMessage, error) {
	body, err := c.do(ctx, "ping", http.MethodGet, c.pingURL, nil)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if json.Valid(body) {
		return json.RawMessage(body), nil
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted), nil
}

// GenerateRecipe posts the request body verbatim to the recipe webhook and returns
// the recipe-shaped object it answers with. A one-element array response is unwrapped.
func (c *Client) GenerateRecipe(ctx context.Context, requestBody []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(requestBody)) == 0 {
		requestBody = []byte(`{}`)
	}

	body, err := c.do(ctx, "generate_recipe", http.MethodPost, c.recipeURL, requestBody)
	if err != nil {
		return nil, err
	}

	payload, err := decodeRecipePayload(body)
	if err != nil {
		c.recorder.RecordWorkflowCall("generate_recipe", "bad_response")
		return nil, &WorkflowError{Op: "generate_recipe", Err: err}
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, op, method, url string, payload []byte) ([]byte, error) {
	if url == "" {
		c.recorder.RecordWorkflowCall(op, "error")
		return nil, &WorkflowError{Op: op, Err: ErrNotConfigured}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		c.recorder.RecordWorkflowCall(op, "error")
		return nil, &WorkflowError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.RecordWorkflowCall(op, "error")
		return nil, &WorkflowError{Op: op, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.recorder.RecordWorkflowCall(op, "error")
		return nil, &WorkflowError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.recorder.RecordWorkflowCall(op, "error")
		return nil, &WorkflowError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", truncate(body, 256))}
	}

	c.recorder.RecordWorkflowCall(op, "success")
	return body, nil
}

func decodeRecipePayload(body []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}

	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return nil, errors.New("response is an empty array")
		}
		raw = list[0]
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is %T, want a JSON object", raw)
	}
	return obj, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
