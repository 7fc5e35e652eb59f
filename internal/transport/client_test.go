package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwr/internal/execution"
)

func TestClient_Start(t *testing.T) {
	var gotPath, gotBody, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Tests completed","details":"","uuid":"abc"}`))
	}))
	defer server.Close()

	var acks int32
	req := execution.Request{Path: execution.PathRunLocal, Body: map[string]string{"folderPath": "/p"}}
	resp, err := NewClient(server.URL+"/").Start(context.Background(), req, func() { atomic.AddInt32(&acks, 1) })

	require.NoError(t, err)
	assert.Equal(t, execution.Response{Success: true, Message: "Tests completed", UUID: "abc"}, resp)
	assert.Equal(t, "/run-tests", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"folderPath":"/p"}`, gotBody)
	assert.Equal(t, int32(1), atomic.LoadInt32(&acks))
}

func TestClient_FailurePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Tests failed",
			"details": "\x1b[31m1 failed\x1b[0m",
		})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Start(context.Background(), execution.Request{Path: execution.PathRunCloud, Body: []string{}}, nil)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Tests failed", resp.Message)
	assert.Contains(t, resp.Details, "1 failed")
}

func TestClient_ErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "json message", body: `{"message":"project not found"}`, expected: "project not found"},
		{name: "plain body", body: "bad gateway\n", expected: "bad gateway"},
		{name: "empty body", body: "", expected: "502 Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Start(context.Background(), execution.Request{Path: "/run-tests", Body: struct{}{}}, nil)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
			assert.Equal(t, tt.expected, statusErr.Message)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	acked := false
	_, err := NewClient(url).Start(context.Background(), execution.Request{Path: "/run-tests", Body: struct{}{}}, func() { acked = true })
	assert.Error(t, err)
	assert.False(t, acked, "an unsent request is never acknowledged")
}

func TestClient_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Start(context.Background(), execution.Request{Path: "/run-tests", Body: struct{}{}}, nil)
	assert.ErrorContains(t, err, "decode response")
}

func TestClient_Stop(t *testing.T) {
	var gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL).Stop(context.Background()))
	assert.Equal(t, "/stop-tests", gotPath)
	assert.Equal(t, "{}", gotBody)
}

func TestClient_StopError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"nothing running"}`, http.StatusConflict)
	}))
	defer server.Close()

	err := NewClient(server.URL).Stop(context.Background())
	assert.ErrorContains(t, err, "nothing running")
}

func TestClient_SuccessWithoutFlag(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected execution.Response
	}{
		{name: "message only", body: `{"message":"Tests completed"}`, expected: execution.Response{Success: true, Message: "Tests completed"}},
		{name: "empty body", body: "", expected: execution.Response{Success: true}},
		{name: "null flag", body: `{"success":null,"message":"done"}`, expected: execution.Response{Success: true, Message: "done"}},
		{name: "explicit false", body: `{"success":false}`, expected: execution.Response{Success: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resp, err := NewClient(server.URL).Start(context.Background(), execution.Request{Path: "/run-tests", Body: struct{}{}}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp)
		})
	}
}

func TestClient_Report(t *testing.T) {
	var gotPath, gotBody, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>Playwright Test Report</body></html>"))
	}))
	defer server.Close()

	html, err := NewClient(server.URL).Report(context.Background(), "/home/me/shop")
	require.NoError(t, err)
	assert.Equal(t, "<html><body>Playwright Test Report</body></html>", string(html))
	assert.Equal(t, "/get-test-result", gotPath)
	assert.Equal(t, "text/html", gotAccept)
	assert.JSONEq(t, `{"folderPath":"/home/me/shop"}`, gotBody)
}

func TestClient_ReportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no report found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Report(context.Background(), "/home/me/shop")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "no report found", statusErr.Message)
}
