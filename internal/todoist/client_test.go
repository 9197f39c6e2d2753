package todoist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client())
}

func TestClient_CreateTask_Success(t *testing.T) {
	var got syncRequest
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"sync_status":{"cmd-1":"ok"},"temp_id_mapping":{"cmd-1":"task-99"}}`))
	})

	id, err := client.CreateTask(context.Background(), "secret", TaskRequest{
		CommandID: "cmd-1",
		Content:   "Read - Day 6",
		ProjectID: "p1",
		Priority:  2,
		Due:       "today",
	})
	require.NoError(t, err)
	assert.Equal(t, "task-99", id)

	require.Len(t, got.Commands, 1)
	cmd := got.Commands[0]
	assert.Equal(t, "item_add", cmd.Type)
	assert.Equal(t, "cmd-1", cmd.UUID)
	assert.Equal(t, "Read - Day 6", cmd.Args.Content)
	assert.Equal(t, "p1", cmd.Args.ProjectID)
	assert.Equal(t, 2, cmd.Args.Priority)
	require.NotNil(t, cmd.Args.Due)
	assert.Equal(t, "today", cmd.Args.Due.String)
}

func TestClient_CreateTask_StatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad token"}`, Unauthorized},
		{"forbidden", http.StatusForbidden, ``, Unauthorized},
		{"rate limited", http.StatusTooManyRequests, ``, RateLimited},
		{"server error", http.StatusBadGateway, ``, Transient},
		{"bad request", http.StatusBadRequest, `{"error":"invalid"}`, Rejected},
		{"garbage body", http.StatusOK, `not json`, Malformed},
		{"missing status", http.StatusOK, `{"sync_status":{}}`, Malformed},
		{"command rejected", http.StatusOK, `{"sync_status":{"cmd":{"error":"Invalid project","error_code":20,"http_code":400}}}`, Rejected},
		{"command throttled", http.StatusOK, `{"sync_status":{"cmd":{"error":"Too many","error_code":35,"http_code":429}}}`, RateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.CreateTask(context.Background(), "t", TaskRequest{CommandID: "cmd", Content: "x", Priority: 1})
			require.Error(t, err)
			kind, ok := KindOf(err)
			require.True(t, ok, "expected *Error, got %T", err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestClient_CreateTask_TimeoutIsTransient(t *testing.T) {
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.CreateTask(ctx, "t", TaskRequest{CommandID: "cmd", Content: "x", Priority: 1})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}
