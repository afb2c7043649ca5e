package swarmcore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swarm-console/internal/mission"
)

func TestClient_GetJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/job/job-1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"job_id":"job-1","status":"processing","data":{"plan":["step1"],"current_code":"x"}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	snap, err := c.GetJob(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, "job-1", snap.JobID)
	assert.Equal(t, mission.StatusProcessing, snap.Status)
	assert.Equal(t, []string{"step1"}, snap.Data.Plan)
	assert.Nil(t, snap.Data.Messages)
	require.NotNil(t, snap.Data.CurrentCode)
	assert.Equal(t, "x", *snap.Data.CurrentCode)

	ev := snap.Event()
	assert.Equal(t, mission.KindSnapshot, ev.Kind)
}

func TestClient_GetJob_NullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"queued","data":null}`)
	}))
	defer srv.Close()

	snap, err := New(srv.URL).GetJob(context.Background(), "job-9")
	require.NoError(t, err)
	assert.Equal(t, "job-9", snap.JobID)
	assert.Equal(t, mission.Patch{}, snap.Data)
}

func TestClient_GetJob_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "Not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"error":"job not found"}`)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, "job not found", se.Message)
			},
		},
		{
			name: "Server error with plain body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusInternalServerError, se.Code)
				assert.Equal(t, "boom", se.Message)
				assert.False(t, IsNotFound(err))
			},
		},
		{
			name: "Malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"status":`)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformed)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, err := New(srv.URL).GetJob(context.Background(), "job-1")
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClient_GetJob_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(time.Second)).GetJob(context.Background(), "job-1")
	assert.Error(t, err)
}

func TestClient_CreateJob(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/job", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"status":"queued","job_id":"new-job"}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	swarm := "ironclad"
	id, err := c.CreateJob(context.Background(), CreateJobRequest{Task: "build an API", SwarmID: &swarm})
	require.NoError(t, err)
	assert.Equal(t, "new-job", id)
	assert.Equal(t, map[string]any{"task": "build an API", "swarm_id": "ironclad"}, got)

	_, err = c.CreateJob(context.Background(), CreateJobRequest{Task: "no swarm"})
	require.NoError(t, err)
	assert.Contains(t, got, "swarm_id")
	assert.Nil(t, got["swarm_id"], "a missing swarm is sent as null")
}

func TestClient_CreateJob_Rejects(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"task and swarm_id are required"}`)
	}))
	defer srv.Close()
	c := New(srv.URL)

	_, err := c.CreateJob(context.Background(), CreateJobRequest{Task: "   "})
	require.Error(t, err)
	assert.Equal(t, 0, calls, "an empty task never reaches the backend")

	_, err = c.CreateJob(context.Background(), CreateJobRequest{Task: "x"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, err.Error(), "task and swarm_id are required")
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"operational"}`)
	}))
	defer srv.Close()

	status, err := New(srv.URL + "/").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "operational", status)
}
