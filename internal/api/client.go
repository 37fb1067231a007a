// Package api provides the HTTP client for the remote answering service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client talks to the answering service over plain JSON HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses the CLINIC_SERVER_URL env var or defaults to
// localhost:5000. Timeout can be configured via CLINIC_CLIENT_TIMEOUT
// (default 30s).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("CLINIC_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("CLINIC_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Answer is the response payload of POST /ask.
type Answer struct {
	Answer string `json:"answer"`
	Source string `json:"source,omitempty"`
	Topic  string `json:"topic,omitempty"`
}

// MenuItem is one entry of GET /api/menu-display.
type MenuItem struct {
	Text            string `json:"text"`
	Question        string `json:"question"`
	SuggestionTopic string `json:"suggestion_topic,omitempty"`
}

// Suggestion is one follow-up prompt scoped to a topic.
type Suggestion struct {
	Text     string `json:"text"`
	Question string `json:"question"`
}

// askRequest is the request payload of POST /ask.
type askRequest struct {
	Question string `json:"question"`
	UserID   string `json:"user_id"`
}

// feedbackRequest is the request payload of POST /feedback.
type feedbackRequest struct {
	Question string `json:"question"`
	Feedback int    `json:"feedback"`
}

// Ask submits a question and returns the service's answer.
// Non-2xx status and malformed JSON are both transport failures.
func (c *Client) Ask(ctx context.Context, question, userID string) (*Answer, error) {
	var ans Answer
	if err := c.postJSON(ctx, "/ask", askRequest{Question: question, UserID: userID}, &ans); err != nil {
		return nil, err
	}
	return &ans, nil
}

// MenuDisplay fetches the menu entries shown as conversation starters.
func (c *Client) MenuDisplay(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := c.getJSON(ctx, "/api/menu-display", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Suggestions fetches follow-up prompts for a topic.
func (c *Client) Suggestions(ctx context.Context, topic string) ([]Suggestion, error) {
	var resp struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := c.getJSON(ctx, "/suggestions/"+url.PathEscape(topic), &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// SendFeedback reports a rating (0 negative, 1 positive) for a question.
// Fire-and-forget at the call sites; failures are for logging only.
func (c *Client) SendFeedback(ctx context.Context, question string, rating int) error {
	return c.postJSON(ctx, "/feedback", feedbackRequest{Question: question, Feedback: rating}, nil)
}

// BookingURL returns the plain-navigation booking page address.
func (c *Client) BookingURL() string {
	return c.baseURL + "/booking"
}

func (c *Client) postJSON(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server error: %s - %s", resp.Status, string(body))
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
