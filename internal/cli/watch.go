package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swarm-console/internal/display"
	"swarm-console/internal/mission"
	"swarm-console/internal/reveal"
	"swarm-console/internal/session"
	"swarm-console/internal/swarmcore"
	"swarm-console/internal/tui"
)

func newWatchCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Follow a mission live",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := strings.TrimSpace(args[0])
			if jobID == "" {
				return fmt.Errorf("job id is required")
			}
			return a.watch(cmd, jobID, plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print updates as plain text instead of the live view")
	return cmd
}

func (a *app) sessionOptions(jobID string) session.Options {
	return session.Options{
		JobID:  jobID,
		Client: a.client,
		Dialer: swarmcore.WSDialer{URL: a.cfg.WSURL, Token: a.cfg.AuthToken, Logger: a.log},
		Logger: a.log,
		Reveal: reveal.Options{ChunkSize: a.cfg.RevealChunk, TickInterval: a.cfg.RevealTick},
	}
}

func (a *app) watch(cmd *cobra.Command, jobID string, plain bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if plain {
		return a.watchPlain(ctx, cmd.OutOrStdout(), jobID)
	}
	return a.watchLive(ctx, cmd.OutOrStdout(), jobID)
}

// watchPlain prints what changes until the mission reaches a terminal
// status or the feed ends.
func (a *app) watchPlain(ctx context.Context, w io.Writer, jobID string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := newPlainPrinter(w)
	opts := a.sessionOptions(jobID)
	opts.ExitOnDisconnect = true
	opts.OnState = func(st mission.State) {
		p.state(st)
		if st.Status.Terminal() {
			cancel()
		}
	}
	opts.OnConnectivity = p.connectivity
	var missing atomic.Bool
	opts.OnSnapshotError = func(err error) {
		if swarmcore.IsNotFound(err) {
			missing.Store(true)
			p.system(fmt.Sprintf("Mission %s not found.", jobID))
			cancel()
		}
	}

	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	runErr := sess.Run(ctx)
	_ = sess.Close()
	if missing.Load() {
		a.logMetrics(sess)
		return missionNotFound(jobID)
	}

	st := sess.State()
	fmt.Fprintln(w, display.FormatArtifact(st.Data.CurrentCode))
	a.logMetrics(sess)
	if runErr != nil {
		return fmt.Errorf("watch %s: %w", jobID, runErr)
	}
	if st.Status == mission.StatusFailed {
		return fmt.Errorf("mission %s failed", jobID)
	}
	return nil
}

// watchLive runs the full-screen view and prints a summary once it closes.
func (a *app) watchLive(ctx context.Context, w io.Writer, jobID string) error {
	prog := tea.NewProgram(tui.New(jobID), tea.WithAltScreen(), tea.WithContext(ctx))
	sessCtx, cancelSession := context.WithCancel(ctx)
	defer cancelSession()

	opts := a.sessionOptions(jobID)
	opts.OnState = func(st mission.State) { prog.Send(tui.StateMsg(st)) }
	opts.OnFrame = func(frame string) { prog.Send(tui.FrameMsg(frame)) }
	opts.OnConnectivity = func(up bool) { prog.Send(tui.ConnMsg(up)) }
	var missing atomic.Bool
	opts.OnSnapshotError = func(err error) {
		if swarmcore.IsNotFound(err) {
			missing.Store(true)
			cancelSession()
			prog.Send(tui.DoneMsg{Err: missionNotFound(jobID)})
		}
	}

	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	go func() {
		err := sess.Run(sessCtx)
		prog.Send(tui.DoneMsg{Err: err})
	}()

	_, uiErr := prog.Run()
	_ = sess.Close()
	a.logMetrics(sess)
	if missing.Load() {
		return missionNotFound(jobID)
	}
	fmt.Fprintln(w, display.FormatMission(sess.State(), false))
	if uiErr != nil && ctx.Err() == nil {
		return fmt.Errorf("mission view: %w", uiErr)
	}
	return nil
}

func missionNotFound(jobID string) error {
	return fmt.Errorf("mission %s not found", jobID)
}

func (a *app) logMetrics(sess *session.Session) {
	m := sess.Metrics()
	a.log.Info("Session metrics", zap.Any("metrics", m))
	a.log.Debug(display.FormatSessionMetrics(m))
}

// plainPrinter writes only what is new since the last state.
type plainPrinter struct {
	mu     sync.Mutex
	w      io.Writer
	status mission.Status
	task   bool
	plan   int
	msgs   int
	errs   int
}

func newPlainPrinter(w io.Writer) *plainPrinter {
	return &plainPrinter{w: w}
}

func (p *plainPrinter) state(st mission.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st.Status != p.status {
		p.status = st.Status
		fmt.Fprintf(p.w, "[STATUS] %s\n", strings.ToUpper(string(st.Status)))
		if st.Status == mission.StatusQueued {
			fmt.Fprintf(p.w, "[SYSTEM] %s\n", display.WaitingForSwarm)
		}
	}
	if !p.task && st.Data.Task != "" {
		p.task = true
		fmt.Fprintf(p.w, "[TASK] %s\n", st.Data.Task)
	}
	// A shorter list means the backend replaced it; print it again.
	if len(st.Data.Plan) < p.plan {
		p.plan = 0
	}
	for ; p.plan < len(st.Data.Plan); p.plan++ {
		fmt.Fprintf(p.w, "[PLAN] %d. %s\n", p.plan+1, st.Data.Plan[p.plan])
	}
	if len(st.Data.Messages) < p.msgs {
		p.msgs = 0
	}
	for ; p.msgs < len(st.Data.Messages); p.msgs++ {
		fmt.Fprintf(p.w, "[%03d] %s\n", p.msgs+1, st.Data.Messages[p.msgs])
	}
	if len(st.Data.Errors) < p.errs {
		p.errs = 0
	}
	for ; p.errs < len(st.Data.Errors); p.errs++ {
		fmt.Fprintf(p.w, "[ERROR] %s\n", st.Data.Errors[p.errs])
	}
}

func (p *plainPrinter) system(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "[SYSTEM] %s\n", msg)
}

func (p *plainPrinter) connectivity(up bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, display.FormatConnectivity(up))
}
