package display

import (
	"strings"
	"testing"

	"swarm-console/internal/catalog"
	"swarm-console/internal/metrics"
	"swarm-console/internal/mission"
)

func TestFormatPlan(t *testing.T) {
	resultString := FormatPlan([]string{"Design schema", "Write handlers"})

	if !strings.Contains(resultString, "Strategic Plan") {
		t.Errorf("The plan output is missing the main header.")
	}
	if !strings.Contains(resultString, " 1. ✓ Design schema") {
		t.Errorf("The plan output is missing step 1.")
	}
	if !strings.Contains(resultString, " 2. ✓ Write handlers") {
		t.Errorf("The plan output is missing step 2.")
	}
	if strings.Contains(resultString, WaitingForArchitect) {
		t.Errorf("A non-empty plan should not show the placeholder.")
	}
}

func TestFormatPlan_Empty(t *testing.T) {
	if !strings.Contains(FormatPlan(nil), WaitingForArchitect) {
		t.Errorf("Expected the empty plan to show %q.", WaitingForArchitect)
	}
}

func TestFormatPlan_WithLongStep(t *testing.T) {
	longStep := strings.Repeat("a", 200)
	resultString := FormatPlan([]string{longStep})

	if !strings.Contains(resultString, "...") {
		t.Errorf("Expected a long step to be truncated with '...', but it wasn't.")
	}
	if strings.Contains(resultString, longStep) {
		t.Errorf("Expected a long step to be truncated, but the full string was found.")
	}
}

func TestTelemetryLines(t *testing.T) {
	testCases := []struct {
		name  string
		state mission.State
		limit int
		want  []string
	}{
		{
			name:  "Queued shows the system line",
			state: mission.NewState("job-1"),
			want:  []string{"[SYSTEM] " + WaitingForSwarm},
		},
		{
			name: "Last lines only",
			state: mission.State{
				Status: mission.StatusProcessing,
				Data:   mission.Data{Messages: []string{"a", "b", "c"}},
			},
			limit: 2,
			want:  []string{"[002] b", "[003] c"},
		},
		{
			name: "No limit",
			state: mission.State{
				Status: mission.StatusCompleted,
				Data:   mission.Data{Messages: []string{"a"}},
			},
			want: []string{"[001] a"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := TelemetryLines(tc.state, tc.limit)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormatArtifact(t *testing.T) {
	resultString := FormatArtifact("```python\nprint(1)\n```")

	if !strings.Contains(resultString, "(python)") {
		t.Errorf("Expected the language tag in the header, got %q", resultString)
	}
	if strings.Contains(resultString, "```") {
		t.Errorf("Expected fences to be stripped, got %q", resultString)
	}
	if !strings.Contains(resultString, "print(1)\n") {
		t.Errorf("The artifact body is missing.")
	}
	if !strings.Contains(FormatArtifact("x = 1"), "(text)") {
		t.Errorf("Expected an untagged artifact to be labelled text.")
	}
}

func TestFormatMission(t *testing.T) {
	st := mission.State{
		JobID:  "job-1",
		Status: mission.StatusFailed,
		Data: mission.Data{
			Task:   "Build an API",
			Plan:   []string{"step1"},
			Errors: []string{"compiler exploded"},
		},
	}
	resultString := FormatMission(st, true)

	for _, want := range []string{"ID: job-1", "[FAILED]", LiveFeed, "Objective: Build an API", "step1", "! compiler exploded"} {
		if !strings.Contains(resultString, want) {
			t.Errorf("The mission output is missing %q.", want)
		}
	}
	if !strings.Contains(FormatMissionHeader(st, false), Disconnected) {
		t.Errorf("Expected the disconnected badge.")
	}
}

func TestFormatSwarmCatalog(t *testing.T) {
	resultString := FormatSwarmCatalog(catalog.Default())

	if !strings.Contains(resultString, "Found 4 swarm(s)") {
		t.Errorf("The catalog output is missing the count.")
	}
	for _, want := range []string{"[ironclad]", "IronClad Backend", "$0.05 / step", "Atlas (Architect)"} {
		if !strings.Contains(resultString, want) {
			t.Errorf("The catalog output is missing %q.", want)
		}
	}
}

func TestFormatSessionMetrics(t *testing.T) {
	resultString := FormatSessionMetrics(metrics.SessionMetrics{
		SessionID:     "s1",
		SnapshotErr:   "job not found",
		DeltasApplied: 3,
		StreamErr:     "reset",
	})

	for _, want := range []string{"Session s1", "failed: job not found", "3 applied", "Stream:   reset"} {
		if !strings.Contains(resultString, want) {
			t.Errorf("The metrics output is missing %q.", want)
		}
	}
}
