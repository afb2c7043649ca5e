package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"swarm-console/internal/display"
	"swarm-console/internal/mission"
)

const (
	defaultWidth  = 100
	defaultHeight = 32
	headerHeight  = 3
	minPanelRows  = 3
)

// StateMsg carries the mission state after a merge.
type StateMsg mission.State

// FrameMsg carries the revealed artifact text.
type FrameMsg string

// ConnMsg reports the live feed going up or down.
type ConnMsg bool

// DoneMsg reports that the session has ended.
type DoneMsg struct{ Err error }

// Model is the live mission view.
type Model struct {
	jobID     string
	state     mission.State
	code      string
	connected bool
	ended     bool
	err       error

	width  int
	height int
	styles Styles
}

func New(jobID string) Model {
	return Model{
		jobID:  jobID,
		state:  mission.NewState(jobID),
		width:  defaultWidth,
		height: defaultHeight,
		styles: DefaultStyles(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case StateMsg:
		m.state = mission.State(msg)
	case FrameMsg:
		m.code = string(msg)
	case ConnMsg:
		m.connected = bool(msg)
	case DoneMsg:
		// The first error reported is the one shown.
		m.ended = true
		if m.err == nil {
			m.err = msg.Err
		}
		m.connected = false
	}
	return m, nil
}

func (m Model) State() mission.State { return m.state }
func (m Model) Code() string { return m.code }
func (m Model) Connected() bool { return m.connected }

func (m Model) View() string {
	leftWidth := m.width/3 - 2
	rightWidth := m.width - m.width/3 - 2
	fullWidth := m.width - 2

	body := m.height - headerHeight - 1
	topRows := max(minPanelRows, body/2-2)
	codeRows := max(minPanelRows, body-topRows-4)

	plan := m.panel("🗺️  Strategic Plan", m.planLines(), leftWidth, topRows)
	telemetry := m.panel("📟 Swarm Telemetry", m.telemetryLines(topRows), rightWidth, topRows)
	code := m.panel("📝 Artifact Output", tail(strings.Split(strings.TrimRight(m.code, "\n"), "\n"), codeRows), fullWidth, codeRows)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		lipgloss.JoinHorizontal(lipgloss.Top, plan, telemetry),
		code,
		m.footer(),
	)
}

func (m Model) header() string {
	title := m.styles.Title.Render("Mission Control")
	id := m.styles.Subtle.Render("ID: " + m.jobID)
	status := StatusBadge(m.state.Status) + "  " +
		ConnectivityBadge(display.FormatConnectivity(m.connected), m.connected)
	task := ""
	if m.state.Data.Task != "" {
		task = m.styles.Subtle.Render(truncate("Objective: "+m.state.Data.Task, m.width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title+"  "+id, status, task)
}

func (m Model) footer() string {
	switch {
	case m.err != nil:
		return m.styles.Error.Render("Session ended: " + m.err.Error() + "  (q to quit)")
	case m.ended:
		return m.styles.Subtle.Render("Session ended. (q to quit)")
	case len(m.state.Data.Errors) > 0:
		return m.styles.Error.Render(fmt.Sprintf("%d error(s): %s", len(m.state.Data.Errors), m.state.Data.Errors[len(m.state.Data.Errors)-1]))
	}
	return m.styles.Subtle.Render("q to quit")
}

func (m Model) panel(title string, lines []string, width, rows int) string {
	content := m.styles.PanelHeader.Render(title) + "\n" + strings.Join(lines, "\n")
	return m.styles.Panel.Width(width).Height(rows + 1).Render(content)
}

func (m Model) planLines() []string {
	if len(m.state.Data.Plan) == 0 {
		return []string{m.styles.Subtle.Render(display.WaitingForArchitect)}
	}
	lines := make([]string, len(m.state.Data.Plan))
	for i, step := range m.state.Data.Plan {
		lines[i] = m.styles.Check.Render("✓") + " " + m.styles.Step.Render(step)
	}
	return lines
}

// telemetryLines keeps the newest lines in view.
func (m Model) telemetryLines(rows int) []string {
	raw := display.TelemetryLines(m.state, rows)
	lines := make([]string, len(raw))
	for i, l := range raw {
		if stamp, msg, ok := strings.Cut(l, "] "); ok {
			lines[i] = m.styles.Timestamp.Render(stamp+"]") + " " + msg
			continue
		}
		lines[i] = l
	}
	return tail(lines, rows)
}

func tail(lines []string, n int) []string {
	if n > 0 && len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n > 3 && len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
