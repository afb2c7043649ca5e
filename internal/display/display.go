package display

import (
	"fmt"
	"strings"

	"swarm-console/internal/artifact"
	"swarm-console/internal/mission"
)

const maxLineLength = 100

const (
	LiveFeed     = "● LIVE FEED"
	Disconnected = "○ DISCONNECTED"

	WaitingForArchitect = "Waiting for Architect..."
	WaitingForSwarm     = "Connection established. Waiting for swarm..."
)

const rule = "--------------------------------------------------"

func FormatMissionHeader(st mission.State, connected bool) string {
	var sb strings.Builder
	sb.WriteString("Mission Control\n")
	sb.WriteString(fmt.Sprintf("ID: %s\n", st.JobID))
	sb.WriteString(fmt.Sprintf("[%s] %s", strings.ToUpper(string(st.Status)), FormatConnectivity(connected)))
	if st.Data.Task != "" {
		sb.WriteString(fmt.Sprintf("\nObjective: %s", oneLine(st.Data.Task, maxLineLength)))
	}
	return sb.String()
}

func FormatConnectivity(connected bool) string {
	if connected {
		return LiveFeed
	}
	return Disconnected
}

func FormatPlan(plan []string) string {
	var sb strings.Builder
	sb.WriteString("Strategic Plan:\n")
	sb.WriteString(rule + "\n")
	if len(plan) == 0 {
		sb.WriteString("  " + WaitingForArchitect + "\n")
	}
	for i, step := range plan {
		sb.WriteString(fmt.Sprintf("  %2d. ✓ %s\n", i+1, oneLine(step, maxLineLength)))
	}
	sb.WriteString(rule)
	return sb.String()
}

// FormatTelemetry renders the last limit messages, or all of them when limit
// is not positive. A queued mission gets a trailing system line.
func FormatTelemetry(st mission.State, limit int) string {
	lines := TelemetryLines(st, limit)
	return strings.Join(lines, "\n")
}

func TelemetryLines(st mission.State, limit int) []string {
	msgs := st.Data.Messages
	first := 0
	if limit > 0 && len(msgs) > limit {
		first = len(msgs) - limit
	}
	lines := make([]string, 0, len(msgs)-first+1)
	for i := first; i < len(msgs); i++ {
		lines = append(lines, fmt.Sprintf("[%03d] %s", i+1, msgs[i]))
	}
	if st.Status == mission.StatusQueued {
		lines = append(lines, "[SYSTEM] "+WaitingForSwarm)
	}
	return lines
}

// FormatArtifact shows the normalized artifact with its language tag.
func FormatArtifact(raw string) string {
	code := artifact.Normalize(raw)
	lang := artifact.Language(raw)
	if lang == "" {
		lang = "text"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Artifact Output (%s):\n", lang))
	sb.WriteString(rule + "\n")
	sb.WriteString(code)
	if code != "" && !strings.HasSuffix(code, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(rule)
	return sb.String()
}

func FormatErrors(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Errors:\n")
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("  ! %s\n", oneLine(e, maxLineLength)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatMission is the full plain-text view of a mission.
func FormatMission(st mission.State, connected bool) string {
	parts := []string{
		FormatMissionHeader(st, connected),
		FormatPlan(st.Data.Plan),
		"Swarm Telemetry:\n" + FormatTelemetry(st, 0),
		FormatArtifact(st.Data.CurrentCode),
	}
	if e := FormatErrors(st.Data.Errors); e != "" {
		parts = append(parts, e)
	}
	return strings.Join(parts, "\n\n")
}

func oneLine(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if limit > 0 && len([]rune(s)) > limit {
		return string([]rune(s)[:limit]) + "..."
	}
	return s
}
