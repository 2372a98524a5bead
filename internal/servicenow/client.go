// Package servicenow is the HTTP transport for a ServiceNow instance:
// basic-auth JSON requests, typed HTTP failures and the mapping of those
// failures to user-facing messages.
package servicenow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	userAgent      = "sncicd_extint_github"
	requestTimeout = 60 * time.Second
)

// InstanceURL returns the base URL of a hosted instance, e.g. "dev123"
// becomes "https://dev123.service-now.com".
func InstanceURL(instance string) string {
	return fmt.Sprintf("https://%s.service-now.com", instance)
}

// Client implements domain.Transport with basic authentication.
type Client struct {
	username string
	password string
	client   *http.Client
}

// NewClient creates a Client authenticating as username.
func NewClient(username, password string) *Client {
	return &Client{
		username: username,
		password: password,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// Get fetches url and decodes the JSON response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.do(ctx, http.MethodGet, url, nil, v)
}

// Post sends body as JSON to url and decodes the JSON response into v.
func (c *Client) Post(ctx context.Context, url string, body any, v any) error {
	return c.do(ctx, http.MethodPost, url, body, v)
}

func (c *Client) do(ctx context.Context, method, url string, body any, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: data}
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// HTTPError is returned for any response with status >= 400.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("servicenow API error: %s", e.Status)
}

// BodyMessage extracts a message from the error body. The CI/CD API reports
// result.error or result.status_message; the Table API reports
// error.message. Returns "" when the body carries none of them.
func (e *HTTPError) BodyMessage() string {
	var body struct {
		Result struct {
			Error         string `json:"error"`
			StatusMessage string `json:"status_message"`
		} `json:"result"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	if body.Result.Error != "" {
		return body.Result.Error
	}
	if body.Result.StatusMessage != "" {
		return body.Result.StatusMessage
	}
	var tableErr struct {
		Message string `json:"message"`
	}
	if len(body.Error) > 0 && json.Unmarshal(body.Error, &tableErr) == nil {
		return tableErr.Message
	}
	return ""
}
