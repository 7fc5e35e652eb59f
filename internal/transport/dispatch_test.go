package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwr/internal/domain"
	"pwr/internal/execution"
)

func runnerServer(body string, answered chan struct{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		if answered != nil {
			close(answered)
		}
	}))
}

func dispatch(t *testing.T, runnerURL, progressURL string, drain time.Duration) *execution.Run {
	t.Helper()
	d := execution.NewDispatcher(NewClient(runnerURL), NewSubscriber(progressURL))
	d.SetDrainTimeout(drain)

	req := execution.Request{
		Target: execution.TargetLocal,
		Path:   execution.PathRunLocal,
		Body:   map[string]string{"folderPath": "/p"},
		Total:  1,
	}
	run, err := d.Run(context.Background(), req)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = run.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "run did not finish")
	return run
}

func TestDispatch_CompletesWithoutSuccessFlag(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "message only", body: `{"message":"Tests completed"}`},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := progressServer(t, nil, false)
			defer progress.Close()
			runner := runnerServer(tt.body, nil)
			defer runner.Close()

			run := dispatch(t, runner.URL, wsURL(progress), 10*time.Millisecond)
			assert.Equal(t, execution.StateCompleted, run.State())
			assert.NoError(t, run.Err())
		})
	}
}

func TestDispatch_ExplicitFailure(t *testing.T) {
	progress := progressServer(t, nil, false)
	defer progress.Close()
	runner := runnerServer(`{"success":false,"message":"Playwright is not installed"}`, nil)
	defer runner.Close()

	run := dispatch(t, runner.URL, wsURL(progress), 10*time.Millisecond)
	assert.Equal(t, execution.StateFailed, run.State())
	assert.True(t, execution.IsCause(run.Err(), execution.CauseDispatchFailure))
}

func TestDispatch_LinesAfterReply(t *testing.T) {
	answered := make(chan struct{})
	runner := runnerServer(`{"success":true,"message":"Tests completed"}`, answered)
	defer runner.Close()

	upgrader := websocket.Upgrader{}
	progress := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		<-answered
		lines := []string{
			`{"event":"progress","data":{"message":"[chromium] › a.spec.ts:5:1 › logs in"}}`,
			`{"event":"progress","data":{"message":"  1 failed"}}`,
		}
		for _, line := range lines {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer progress.Close()

	run := dispatch(t, runner.URL, wsURL(progress), 500*time.Millisecond)
	assert.Equal(t, execution.StateCompleted, run.State())
	require.Len(t, run.Results(), 1)
	assert.Equal(t, domain.StatusFailed, run.Results()[0].Status, "the trailing summary line is classified")
}
