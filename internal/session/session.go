package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swarm-console/internal/artifact"
	"swarm-console/internal/metrics"
	"swarm-console/internal/mission"
	"swarm-console/internal/reveal"
	"swarm-console/internal/swarmcore"
)

var ErrAlreadyStarted = errors.New("session already started")

// JobFetcher loads the current snapshot of a job. *swarmcore.Client
// implements it.
type JobFetcher interface {
	GetJob(ctx context.Context, jobID string) (swarmcore.Snapshot, error)
}

type Options struct {
	JobID  string
	Client JobFetcher
	Dialer swarmcore.Dialer
	Logger *zap.Logger

	// Reveal configures the typewriter. Its OnFrame is ignored; use OnFrame.
	Reveal reveal.Options

	// OnState is called from the merge loop after every applied event.
	OnState func(mission.State)
	// OnFrame is called from the typewriter goroutine with each revealed prefix.
	OnFrame func(string)
	// OnConnectivity is called when the live feed goes up or down.
	OnConnectivity func(bool)
	// OnSnapshotError is called when the snapshot fetch fails. The session
	// keeps running on stream updates alone.
	OnSnapshotError func(error)

	// A panic in any callback is recovered and logged.

	// ExitOnDisconnect makes Run return once the snapshot fetch is done and
	// the stream has ended.
	ExitOnDisconnect bool
}

type itemKind int

const (
	itemEvent itemKind = iota
	itemFetchDone
	itemStreamDone
)

type item struct {
	kind itemKind
	ev   mission.Event
	err  error
}

// Session watches one mission: it hydrates from a snapshot, applies stream
// deltas in arrival order and drives the artifact typewriter.
type Session struct {
	opts    Options
	logger  *zap.Logger
	rec     *mission.Reconciler
	tw      *reveal.Typewriter
	metrics *metrics.Recorder
	events  chan item

	connected atomic.Bool

	mu        sync.Mutex
	started   bool
	closed    bool
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func New(opts Options) (*Session, error) {
	if opts.JobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	if opts.Client == nil || opts.Dialer == nil {
		return nil, fmt.Errorf("session for %s needs a client and a dialer", opts.JobID)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id := uuid.New().String()[:8]
	s := &Session{
		opts:    opts,
		logger:  opts.Logger.Named("session").With(zap.String("session_id", id), zap.String("job_id", opts.JobID)),
		rec:     mission.NewReconciler(opts.JobID, opts.Logger),
		metrics: metrics.NewRecorder(id, opts.JobID),
		events:  make(chan item, 64),
	}

	ropts := opts.Reveal
	ropts.OnFrame = func(frame string) {
		s.metrics.RevealFrame()
		if s.opts.OnFrame != nil {
			s.guard("OnFrame", func() { s.opts.OnFrame(frame) })
		}
	}
	s.tw = reveal.New(ropts)
	return s, nil
}

func (s *Session) State() mission.State { return s.rec.State() }
func (s *Session) Displayed() string { return s.tw.Displayed() }
func (s *Session) Connected() bool { return s.connected.Load() }

// Metrics reports transport and reveal counters together with the delta
// counts kept by the reconciler.
func (s *Session) Metrics() metrics.SessionMetrics {
	m := s.metrics.Metrics()
	st := s.rec.Stats()
	m.DeltasApplied, m.DeltasIgnored = st.Applied, st.Ignored
	return m
}

// Run blocks until ctx is cancelled or Close is called, or, with
// ExitOnDisconnect, until both sources are finished. Transport failures are
// logged and never stop the merge loop early.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()
	defer close(done)
	defer cancel()

	s.logger.Info("Session started")
	s.metrics.Begin()
	defer s.metrics.Finish()

	s.tw.Start(ctx)
	defer s.tw.Stop()

	if s.opts.OnState != nil {
		unsubscribe := s.rec.Subscribe(s.opts.OnState)
		defer unsubscribe()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.fetch(gctx)
		s.post(gctx, item{kind: itemFetchDone})
		return nil
	})
	g.Go(func() error {
		err := s.stream(gctx)
		s.post(gctx, item{kind: itemStreamDone, err: err})
		return nil
	})

	err := s.loop(ctx)
	cancel()
	_ = g.Wait()

	m := s.Metrics()
	s.logger.Info("Session ended",
		zap.Int("deltas_applied", m.DeltasApplied),
		zap.Int("deltas_ignored", m.DeltasIgnored),
		zap.Int("frames_malformed", m.FramesMalformed))
	return err
}

// Close cancels a running session and waits for Run to return. It must not
// be called from a session callback.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		cancel, done := s.cancel, s.done
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		s.tw.Stop()
		if done != nil {
			<-done
		}
	})
	return nil
}

// loop is the only place events are merged, so merges never overlap.
func (s *Session) loop(ctx context.Context) error {
	var fetched, streamed bool
	var streamErr error
	for {
		select {
		case <-ctx.Done():
			return nil
		case it := <-s.events:
			if ctx.Err() != nil {
				return nil
			}
			switch it.kind {
			case itemEvent:
				s.apply(it.ev)
			case itemFetchDone:
				fetched = true
			case itemStreamDone:
				streamed, streamErr = true, it.err
			}
			if s.opts.ExitOnDisconnect && fetched && streamed {
				return streamErr
			}
		}
	}
}

func (s *Session) apply(ev mission.Event) {
	if state, ok := s.rec.Apply(ev); ok {
		s.tw.SetTarget(artifact.Normalize(state.Data.CurrentCode))
	}
}

func (s *Session) post(ctx context.Context, it item) {
	select {
	case s.events <- it:
	case <-ctx.Done():
	}
}

func (s *Session) fetch(ctx context.Context) {
	snap, err := s.opts.Client.GetJob(ctx, s.opts.JobID)
	s.metrics.Snapshot(err)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("Hydration failed", zap.Error(err))
			if s.opts.OnSnapshotError != nil {
				s.guard("OnSnapshotError", func() { s.opts.OnSnapshotError(err) })
			}
		}
		return
	}
	s.post(ctx, item{kind: itemEvent, ev: snap.Event()})
}

// stream returns nil when the feed ends normally or the session is
// cancelled.
func (s *Session) stream(ctx context.Context) error {
	conn, err := s.opts.Dialer.Dial(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		s.metrics.Disconnected(err)
		s.logger.Warn("Uplink failed", zap.Error(err))
		return fmt.Errorf("dial stream: %w", err)
	}
	defer conn.Close()

	s.metrics.Connected()
	s.setConnected(true)
	err = swarmcore.Pump(ctx, conn, swarmcore.Handlers{
		Update: func(u swarmcore.Update) {
			s.post(ctx, item{kind: itemEvent, ev: u.Event()})
		},
		Malformed: func(err error) {
			s.metrics.Malformed()
			s.logger.Warn("Dropping malformed frame", zap.Error(err))
		},
		Skipped: s.metrics.FrameSkipped,
	})
	s.setConnected(false)

	switch {
	case ctx.Err() != nil:
		s.metrics.Disconnected(nil)
		return nil
	case errors.Is(err, swarmcore.ErrClosed):
		s.metrics.Disconnected(nil)
		s.logger.Info("Uplink closed by swarm-core")
		return nil
	default:
		s.metrics.Disconnected(err)
		s.logger.Warn("Uplink lost", zap.Error(err))
		return fmt.Errorf("read stream: %w", err)
	}
}

func (s *Session) setConnected(up bool) {
	if s.connected.Swap(up) == up {
		return
	}
	if s.opts.OnConnectivity != nil {
		s.guard("OnConnectivity", func() { s.opts.OnConnectivity(up) })
	}
}

func (s *Session) guard(callback string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Callback panicked", zap.String("callback", callback), zap.Error(fmt.Errorf("%v", rec)))
		}
	}()
	fn()
}
