package swarmcore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swarm-console/internal/mission"
)

func TestDecodeUpdate(t *testing.T) {
	testCases := []struct {
		name      string
		frame     string
		wantOK    bool
		malformed bool
		check     func(t *testing.T, u Update)
	}{
		{
			name:   "Job update",
			frame:  `{"type":"JOB_UPDATE","job_id":"job-1","status":"processing","data":{"messages":["log1"]}}`,
			wantOK: true,
			check: func(t *testing.T, u Update) {
				assert.Equal(t, "job-1", u.JobID)
				assert.Equal(t, mission.StatusProcessing, u.Status)
				assert.Equal(t, []string{"log1"}, u.Data.Messages)
				assert.Nil(t, u.Data.Plan)
				ev := u.Event()
				assert.Equal(t, mission.KindDelta, ev.Kind)
				assert.Equal(t, "job-1", ev.JobID)
			},
		},
		{name: "Other type", frame: `{"type":"HEARTBEAT"}`},
		{name: "Missing type", frame: `{"job_id":"job-1"}`},
		{name: "Not JSON", frame: `hello`, malformed: true},
		{name: "Wrong shape", frame: `{"type":"JOB_UPDATE","data":{"plan":"not a list"}}`, malformed: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, ok, err := DecodeUpdate([]byte(tc.frame))
			if tc.malformed {
				assert.ErrorIs(t, err, ErrMalformed)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			if tc.check != nil {
				tc.check(t, u)
			}
		})
	}
}

// newStreamServer sends frames to the first client, then waits for the
// client to hang up.
func newStreamServer(t *testing.T, frames []string, closeAfter bool) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		if closeAfter {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPump_OverWebsocket(t *testing.T) {
	srv := newStreamServer(t, []string{
		`{"type":"JOB_UPDATE","job_id":"job-1","status":"processing","data":{"plan":["step1"]}}`,
		`not json`,
		`{"type":"PING"}`,
		`{"type":"JOB_UPDATE","job_id":"job-1","status":"completed","data":{}}`,
	}, true)
	defer srv.Close()

	conn, err := WSDialer{URL: wsURL(srv)}.Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	var updates []Update
	var bad []error
	skipped := 0
	err = Pump(context.Background(), conn, Handlers{
		Update:    func(u Update) { updates = append(updates, u) },
		Malformed: func(e error) { bad = append(bad, e) },
		Skipped:   func() { skipped++ },
	})

	assert.ErrorIs(t, err, ErrClosed)
	require.Len(t, updates, 2)
	assert.Equal(t, mission.StatusProcessing, updates[0].Status)
	assert.Equal(t, mission.StatusCompleted, updates[1].Status)
	require.Len(t, bad, 1)
	assert.ErrorIs(t, bad[0], ErrMalformed)
	assert.Equal(t, 1, skipped)
}

func TestPump_ContextCancelClosesStream(t *testing.T) {
	srv := newStreamServer(t, nil, false)
	defer srv.Close()

	conn, err := WSDialer{URL: wsURL(srv)}.Dial(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Pump(ctx, conn, Handlers{Update: func(Update) {}}) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Pump did not return after cancel")
	}
	assert.NoError(t, conn.Close(), "Close is idempotent")
}

func TestDial_Failure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := WSDialer{URL: wsURL(srv)}.Dial(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 404")
}
