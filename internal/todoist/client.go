package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// DefaultBaseURL is the Todoist API root.
const DefaultBaseURL = "https://api.todoist.com/api/v1"

// maxErrorBody caps how much of an error response ends up in messages.
const maxErrorBody = 512

// TaskRequest is one task to create. Priority is on the remote scale.
type TaskRequest struct {
	// CommandID identifies the command across retries of the same request.
	CommandID string
	Content   string
	ProjectID string
	Priority  int
	// Due is a natural language date resolved by the service, e.g. "today".
	Due string
}

// TaskService is the remote operation the gateway depends on.
// One call is one attempt; retry policy lives in Gateway.
type TaskService interface {
	CreateTask(ctx context.Context, token string, req TaskRequest) (string, error)
}

// Client talks to the Todoist Sync API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client. A nil httpClient uses a fresh http.Client;
// per-attempt timeouts come from the caller's context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type syncCommand struct {
	Type   string         `json:"type"`
	TempID string         `json:"temp_id"`
	UUID   string         `json:"uuid"`
	Args   itemAddCommand `json:"args"`
}

type itemAddCommand struct {
	Content   string   `json:"content"`
	ProjectID string   `json:"project_id,omitempty"`
	Priority  int      `json:"priority"`
	Due       *dueSpec `json:"due,omitempty"`
}

type dueSpec struct {
	String string `json:"string"`
}

type syncRequest struct {
	Commands []syncCommand `json:"commands"`
}

type syncResponse struct {
	SyncStatus    map[string]json.RawMessage `json:"sync_status"`
	TempIDMapping map[string]string          `json:"temp_id_mapping"`
}

type commandError struct {
	Error     string `json:"error"`
	ErrorCode int    `json:"error_code"`
	HTTPCode  int    `json:"http_code"`
}

// CreateTask sends a single item_add command and returns the new task id.
func (c *Client) CreateTask(ctx context.Context, token string, req TaskRequest) (string, error) {
	if req.CommandID == "" {
		return "", &Error{Kind: Rejected, Message: "command id is required"}
	}
	cmd := syncCommand{
		Type:   "item_add",
		TempID: req.CommandID,
		UUID:   req.CommandID,
		Args: itemAddCommand{
			Content:   req.Content,
			ProjectID: req.ProjectID,
			Priority:  req.Priority,
		},
	}
	if req.Due != "" {
		cmd.Args.Due = &dueSpec{String: req.Due}
	}
	body, err := json.Marshal(syncRequest{Commands: []syncCommand{cmd}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: Transient, StatusCode: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    truncate(strings.TrimSpace(string(respBody)), maxErrorBody),
		}
	}

	var parsed syncResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Error{Kind: Malformed, StatusCode: resp.StatusCode, Message: "failed to decode response", Err: err}
	}
	status, ok := parsed.SyncStatus[req.CommandID]
	if !ok {
		return "", &Error{Kind: Malformed, StatusCode: resp.StatusCode, Message: "response has no status for command"}
	}

	var okString string
	if json.Unmarshal(status, &okString) == nil {
		if okString != "ok" {
			return "", &Error{Kind: Malformed, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected command status %q", okString)}
		}
		return parsed.TempIDMapping[req.CommandID], nil
	}

	var cmdErr commandError
	if err := json.Unmarshal(status, &cmdErr); err != nil {
		return "", &Error{Kind: Malformed, StatusCode: resp.StatusCode, Message: "failed to decode command status", Err: err}
	}
	kind := Rejected
	if cmdErr.HTTPCode != 0 {
		kind = kindForStatus(cmdErr.HTTPCode)
	}
	return "", &Error{Kind: kind, StatusCode: cmdErr.HTTPCode, Message: cmdErr.Error}
}

func classifyTransportError(err error) error {
	// The caller's own cancellation is not a remote failure.
	if errors.Is(err, context.Canceled) {
		return err
	}
	msg := "request failed"
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		msg = "request timed out"
	}
	return &Error{Kind: Transient, Message: msg, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
