package mission

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Stats counts what the reconciler did. Applied and Ignored count deltas
// only; snapshots are counted separately.
type Stats struct {
	Snapshots int `json:"snapshots"`
	Applied   int `json:"applied"`
	Ignored   int `json:"ignored"`
	Notified  int `json:"notified"`
}

// Reconciler holds the current State of one mission and folds update events
// into it. Apply is expected to be called from a single goroutine; the lock
// only protects readers and subscription changes.
type Reconciler struct {
	jobID  string
	logger *zap.Logger

	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
	stats  Stats
}

func NewReconciler(jobID string, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		jobID:  jobID,
		logger: logger.Named("reconciler"),
		state:  NewState(jobID),
		subs:   make(map[int]func(State)),
	}
}

func (r *Reconciler) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Reconciler) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Apply merges ev into the current state and notifies subscribers. It returns
// false, leaving the state untouched, for a delta addressed to another job.
func (r *Reconciler) Apply(ev Event) (State, bool) {
	r.mu.Lock()
	if ev.Kind == KindDelta && ev.JobID != r.jobID {
		r.stats.Ignored++
		cur := r.state
		r.mu.Unlock()
		r.logger.Debug("Ignoring update for another job",
			zap.String("job_id", r.jobID), zap.String("event_job_id", ev.JobID))
		return cur, false
	}
	next := Merge(r.state, ev)
	r.state = next
	if ev.Kind == KindSnapshot {
		r.stats.Snapshots++
	} else {
		r.stats.Applied++
	}
	subs := make([]func(State), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		r.notify(fn, next)
	}
	return next, true
}

// Subscribe registers fn to receive the state after every successful merge.
func (r *Reconciler) Subscribe(fn func(State)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// A misbehaving subscriber must not stop later events from being applied.
func (r *Reconciler) notify(fn func(State), s State) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Subscriber panicked", zap.String("job_id", r.jobID), zap.Error(fmt.Errorf("%v", rec)))
		}
	}()
	fn(s)
	r.mu.Lock()
	r.stats.Notified++
	r.mu.Unlock()
}
