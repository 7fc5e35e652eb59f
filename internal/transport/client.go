// Package transport connects the dispatcher to the external runner: an HTTP
// client for the run and stop endpoints and a websocket subscriber for the
// progress channel.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"
	"sync"

	"github.com/hashicorp/go-cleanhttp"

	"pwr/internal/execution"
	"pwr/internal/logging"
)

// StatusError is returned when the runner answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("runner returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the runner HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the runner at baseURL. Run requests last
// as long as the run itself, so the client sets no overall timeout; bound
// each call through its context instead.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cleanhttp.DefaultPooledClient(),
	}
}

// Start posts the run request and waits for the terminal response.
// acknowledged is called once the request has been written.
func (c *Client) Start(ctx context.Context, req execution.Request, acknowledged func()) (execution.Response, error) {
	data, err := c.send(ctx, req.Path, req.Body, "application/json", acknowledged)
	if err != nil {
		return execution.Response{}, err
	}
	return decodeResponse(data)
}

// Stop asks the runner to stop the current run
func (c *Client) Stop(ctx context.Context) error {
	if _, err := c.send(ctx, execution.PathStop, struct{}{}, "application/json", nil); err != nil {
		return fmt.Errorf("stop tests: %w", err)
	}
	return nil
}

// Report fetches the HTML report the runner kept for the project at
// folderPath
func (c *Client) Report(ctx context.Context, folderPath string) ([]byte, error) {
	body := execution.ReportBody{FolderPath: folderPath}
	data, err := c.send(ctx, execution.PathReport, body, "text/html", nil)
	if err != nil {
		return nil, fmt.Errorf("get test report: %w", err)
	}
	return data, nil
}

// send posts body as JSON and returns the body of a 2xx reply
func (c *Client) send(ctx context.Context, path string, body interface{}, accept string, acknowledged func()) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if acknowledged != nil {
		var once sync.Once
		ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
			WroteRequest: func(info httptrace.WroteRequestInfo) {
				if info.Err == nil {
					once.Do(acknowledged)
				}
			},
		})
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)

	logging.Debug("transport", "POST %s (%d bytes)", path, len(payload))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}
	return data, nil
}

// decodeResponse reads a run reply. An empty body counts as success.
func decodeResponse(data []byte) (execution.Response, error) {
	out := execution.Response{Success: true}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return execution.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// errorMessage picks the message of an error body, falling back to the raw
// body and then to the status line
func errorMessage(data []byte, status string) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return status
}
