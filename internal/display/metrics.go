package display

import (
	"fmt"
	"strings"
	"time"

	"swarm-console/internal/metrics"
)

func FormatSessionMetrics(m metrics.SessionMetrics) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session %s metrics:\n", m.SessionID))
	sb.WriteString(fmt.Sprintf("- Total: %d ms  (connected %d ms, disconnects=%d)\n", m.DurationMs, m.ConnectedMs, m.Disconnects))

	snapshot := "ok"
	if !m.SnapshotOK {
		snapshot = "failed"
		if m.SnapshotErr != "" {
			snapshot += ": " + m.SnapshotErr
		}
	}
	sb.WriteString(fmt.Sprintf("  Snapshot: %s\n", snapshot))
	sb.WriteString(fmt.Sprintf("  Deltas:   %d applied, %d ignored\n", m.DeltasApplied, m.DeltasIgnored))
	sb.WriteString(fmt.Sprintf("  Frames:   %d skipped, %d malformed\n", m.FramesSkipped, m.FramesMalformed))
	sb.WriteString(fmt.Sprintf("  Reveal:   %d frames\n", m.RevealFrames))
	if m.StreamErr != "" {
		sb.WriteString(fmt.Sprintf("  Stream:   %s\n", m.StreamErr))
	}
	return sb.String()
}

// FormatDuration rounds d for status lines.
func FormatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
