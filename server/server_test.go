package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serverless-sim/serverless-sim/sim"
)

func newTestServer() (*Server, *sim.Scheduler) {
	sched := sim.NewScheduler()
	return New(sched), sched
}

func postInvoke(t *testing.T, s *Server, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	return resp
}

func TestInvoke_QueuesTask(t *testing.T) {
	s, sched := newTestServer()

	resp := postInvoke(t, s, `{"name": "resize", "est_runtime": 2.5, "deadline_offset": 30}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "task queued", body.Message)
	assert.NotEmpty(t, body.ID)

	require.Equal(t, 1, sched.Len())
	st, ok := sched.Next()
	require.True(t, ok)
	assert.Equal(t, body.ID, st.ID)
	assert.Equal(t, "resize", st.FunctionName, "function name falls back to the payload name")
	assert.Equal(t, 2.5, st.Payload.EstRuntime)
	assert.Equal(t, "HTTP", st.Metadata.Trigger)
	assert.InDelta(t, 30, st.Deadline-st.ArrivalTime, 1e-6)
}

func TestInvoke_DefaultsApplied(t *testing.T) {
	s, sched := newTestServer()

	resp := postInvoke(t, s, `{"name": "ping"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	st, ok := sched.Next()
	require.True(t, ok)
	assert.Equal(t, 1.0, st.Payload.EstRuntime)
	assert.Equal(t, "HTTP", st.Metadata.Trigger)
	assert.Equal(t, 256, st.Metadata.MemoryMB)
	assert.InDelta(t, 10, st.Deadline-st.ArrivalTime, 1e-6)
}

func TestInvoke_BadJSON(t *testing.T) {
	s, sched := newTestServer()

	resp := postInvoke(t, s, `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, sched.Len())
}

func TestInvoke_MissingName(t *testing.T) {
	s, sched := newTestServer()

	resp := postInvoke(t, s, `{"est_runtime": 1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, sched.Len())
}

func TestStatus_ListsQueuedInPriorityOrder(t *testing.T) {
	s, sched := newTestServer()

	postInvoke(t, s, `{"name": "slow", "deadline_offset": 500}`)
	postInvoke(t, s, `{"name": "urgent", "deadline_offset": 5}`)
	postInvoke(t, s, `{"name": "later", "deadline_offset": 100}`)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		QueuedTasks []QueuedTask `json:"queued_tasks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.QueuedTasks, 3)
	assert.Equal(t, "urgent", body.QueuedTasks[0].Name)
	assert.Equal(t, "later", body.QueuedTasks[1].Name)
	assert.Equal(t, "slow", body.QueuedTasks[2].Name)

	// Reporting status must not consume the queue.
	assert.Equal(t, 3, sched.Len())
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer()
	postInvoke(t, s, `{"name": "ping"}`)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status  string `json:"status"`
		Pending int    `json:"pending"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Pending)
}
