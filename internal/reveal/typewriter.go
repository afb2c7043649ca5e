package reveal

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultChunkSize    = 5
	DefaultTickInterval = 5 * time.Millisecond
)

type Options struct {
	ChunkSize    int
	TickInterval time.Duration
	// OnFrame is called from the typewriter goroutine with each new prefix.
	// It must not call Stop.
	OnFrame func(string)
}

// Typewriter reveals the latest target a chunk at a time on its own ticker.
// The ticker only runs while the displayed text is behind the target.
type Typewriter struct {
	opts Options
	wake chan struct{}

	mu     sync.Mutex
	state  State
	frames int
	cancel context.CancelFunc
	done   chan struct{}
}

func New(opts Options) *Typewriter {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	return &Typewriter{
		opts: opts,
		wake: make(chan struct{}, 1),
	}
}

// Start launches the ticking goroutine. It runs until ctx is cancelled or
// Stop is called. Calling Start more than once has no effect.
func (tw *Typewriter) Start(ctx context.Context) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	tw.cancel = cancel
	tw.done = make(chan struct{})
	go tw.run(ctx, tw.done)
	tw.signal()
}

// Stop cancels ticking and waits for the goroutine to exit.
func (tw *Typewriter) Stop() {
	tw.mu.Lock()
	cancel, done := tw.cancel, tw.done
	tw.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (tw *Typewriter) SetTarget(target string) {
	tw.mu.Lock()
	tw.state = Retarget(tw.state, target)
	tw.mu.Unlock()
	tw.signal()
}

func (tw *Typewriter) Displayed() string {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return Displayed(tw.state)
}

func (tw *Typewriter) State() State {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.state
}

// Frames is the number of frames emitted so far.
func (tw *Typewriter) Frames() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.frames
}

func (tw *Typewriter) signal() {
	select {
	case tw.wake <- struct{}{}:
	default:
	}
}

func (tw *Typewriter) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	var ticker *time.Ticker
	var tick <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer stopTicker()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-tw.wake:
			// A reset shows up here as a shorter prefix than the last frame.
			tw.mu.Lock()
			shown, behind := Displayed(tw.state), Behind(tw.state)
			tw.mu.Unlock()
			if shown != last {
				last = shown
				tw.emit(shown)
			}
			if behind && ticker == nil {
				ticker = time.NewTicker(tw.opts.TickInterval)
				tick = ticker.C
			}
		case <-tick:
			tw.mu.Lock()
			next, shown, advanced := Step(tw.state, tw.opts.ChunkSize)
			tw.state = next
			behind := Behind(next)
			tw.mu.Unlock()
			if advanced && shown != last {
				last = shown
				tw.emit(shown)
			}
			if !behind {
				stopTicker()
			}
		}
	}
}

func (tw *Typewriter) emit(frame string) {
	tw.mu.Lock()
	tw.frames++
	tw.mu.Unlock()
	if tw.opts.OnFrame != nil {
		tw.opts.OnFrame(frame)
	}
}
