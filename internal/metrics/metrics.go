package metrics

import (
	"sync"
	"time"
)

type SessionMetrics struct {
	SessionID       string    `json:"session_id"`
	JobID           string    `json:"job_id"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMs      int64     `json:"duration_ms"`
	SnapshotOK      bool      `json:"snapshot_ok"`
	SnapshotErr     string    `json:"snapshot_err,omitempty"`
	DeltasApplied   int       `json:"deltas_applied"`
	DeltasIgnored   int       `json:"deltas_ignored"`
	FramesSkipped   int       `json:"frames_skipped"`
	FramesMalformed int       `json:"frames_malformed"`
	RevealFrames    int       `json:"reveal_frames"`
	ConnectedMs     int64     `json:"connected_ms"`
	Disconnects     int       `json:"disconnects"`
	StreamErr       string    `json:"stream_err,omitempty"`
}

// Compute derived fields.
func (m *SessionMetrics) Finalize() {
	if !m.End.IsZero() {
		m.DurationMs = m.End.Sub(m.Start).Milliseconds()
	}
}

// Recorder accumulates SessionMetrics from several goroutines.
type Recorder struct {
	mu          sync.Mutex
	m           SessionMetrics
	connectedAt time.Time
	now         func() time.Time
}

func NewRecorder(sessionID, jobID string) *Recorder {
	return &Recorder{
		m:   SessionMetrics{SessionID: sessionID, JobID: jobID},
		now: time.Now,
	}
}

func (r *Recorder) Begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Start = r.now()
}

func (r *Recorder) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.m.End.IsZero() {
		return
	}
	r.m.End = r.now()
	r.closeConnection(r.m.End)
}

func (r *Recorder) Snapshot(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.SnapshotOK = err == nil
	if err != nil {
		r.m.SnapshotErr = err.Error()
	}
}

// FrameSkipped counts a well-formed frame that is not a job update.
func (r *Recorder) FrameSkipped() {
	r.mu.Lock()
	r.m.FramesSkipped++
	r.mu.Unlock()
}

func (r *Recorder) Malformed() {
	r.mu.Lock()
	r.m.FramesMalformed++
	r.mu.Unlock()
}

func (r *Recorder) RevealFrame() {
	r.mu.Lock()
	r.m.RevealFrames++
	r.mu.Unlock()
}

func (r *Recorder) Connected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connectedAt.IsZero() {
		r.connectedAt = r.now()
	}
}

func (r *Recorder) Disconnected(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.connectedAt.IsZero() {
		r.m.Disconnects++
	}
	r.closeConnection(r.now())
	if err != nil {
		r.m.StreamErr = err.Error()
	}
}

func (r *Recorder) closeConnection(at time.Time) {
	if r.connectedAt.IsZero() {
		return
	}
	r.m.ConnectedMs += at.Sub(r.connectedAt).Milliseconds()
	r.connectedAt = time.Time{}
}

// Snapshot of the metrics so far. A live connection is counted up to now.
func (r *Recorder) Metrics() SessionMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.m
	if !r.connectedAt.IsZero() {
		m.ConnectedMs += r.now().Sub(r.connectedAt).Milliseconds()
	}
	m.Finalize()
	return m
}
