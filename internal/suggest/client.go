// Package suggest calls a Writer-style completions endpoint to enrich
// generated plans with a free-text summary. Everything here is best-effort:
// callers treat any error as "no suggestion" and carry on.
package suggest

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

// APIError wraps transport failures, non-2xx responses and malformed
// payloads in a single type so callers can fall back gracefully.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("suggest: completions API returned status %d: %s", e.Status, e.Reason)
	}
	return "suggest: " + e.Reason
}

// ErrNotConfigured indicates the client has no API key and enrichment is off.
var ErrNotConfigured = errors.New("suggest: no API key configured")

// Client talks to the completions REST endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewClient constructs a completions client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.writer.com"
	}
	if opts.Model == "" {
		opts.Model = "palmyra-base"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		model:      opts.Model,
		httpClient: opts.HTTPClient,
	}
}

// Configured reports whether the client holds an API key.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type completionRequest struct {
	Model  string `json:"model"`
	Inputs string `json:"inputs"`
	N      int    `json:"n"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the first completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(completionRequest{Model: c.model, Inputs: prompt, N: 1})
	if err != nil {
		return "", &APIError{Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &APIError{Reason: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &APIError{Reason: "unexpected completions payload: " + err.Error()}
	}
	if len(decoded.Choices) == 0 {
		return "", &APIError{Reason: "completions payload held no choices"}
	}
	return strings.TrimSpace(decoded.Choices[0].Text), nil
}

// BadgeNeed summarizes one badge's outstanding work for the prompt.
type BadgeNeed struct {
	Name         string
	SessionsLeft int
}

// PlanSummary asks the model for a short meeting-plan summary covering the
// scheduled badges. The reply is free text; when the model happens to return
// a JSON object with a "summary" field, that field is extracted, otherwise
// the raw text is used as-is.
func (c *Client) PlanSummary(ctx context.Context, windowStart, windowEnd time.Time, needs []BadgeNeed) (string, error) {
	text, err := c.Complete(ctx, buildPlanPrompt(windowStart, windowEnd, needs))
	if err != nil {
		return "", err
	}
	return extractSummary(text), nil
}

func buildPlanPrompt(windowStart, windowEnd time.Time, needs []BadgeNeed) string {
	var b strings.Builder
	b.WriteString("Create a detailed scout meeting plan.\n")
	fmt.Fprintf(&b, "Start date: %s\n", windowStart.Format("2006-01-02"))
	fmt.Fprintf(&b, "End date: %s\n", windowEnd.Format("2006-01-02"))
	if len(needs) > 0 {
		b.WriteString("Badges and remaining sessions:\n")
		for _, need := range needs {
			fmt.Fprintf(&b, "- %s: %d\n", need.Name, need.SessionsLeft)
		}
	}
	return b.String()
}

// extractSummary pulls a "summary" field out of a JSON reply when the model
// produced one. Models answer in prose most of the time, so plain text passes
// through untouched.
func extractSummary(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed
	}
	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil || parsed.Summary == "" {
		return trimmed
	}
	return strings.TrimSpace(parsed.Summary)
}
