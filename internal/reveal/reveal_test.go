package reveal

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestStep_Monotonic(t *testing.T) {
	s := Retarget(State{}, "package main\n\nfunc main() {}\n")
	prev := s.Revealed
	var frames []string
	for Behind(s) {
		var frame string
		var ok bool
		s, frame, ok = Step(s, 5)
		assert.True(t, ok)
		assert.Greater(t, s.Revealed, prev)
		assert.LessOrEqual(t, s.Revealed-prev, 5)
		prev = s.Revealed
		frames = append(frames, frame)
	}
	assert.Equal(t, s.Target, frames[len(frames)-1])
	assert.Len(t, frames, 6) // 29 runes in chunks of 5

	_, frame, ok := Step(s, 5)
	assert.False(t, ok, "caught up cursor is idle")
	assert.Equal(t, s.Target, frame)
}

func TestStep_ClampsToTarget(t *testing.T) {
	s, frame, ok := Step(State{Target: "abcdefg", Revealed: 5}, 5)
	assert.True(t, ok)
	assert.Equal(t, 7, s.Revealed)
	assert.Equal(t, "abcdefg", frame)
}

func TestRetarget_ResetOnShorterTarget(t *testing.T) {
	s := State{Target: "abcdefgh", Revealed: 8}

	s = Retarget(s, "xy")
	assert.Equal(t, 0, s.Revealed)
	assert.Equal(t, "", Displayed(s))

	s, frame, _ := Step(s, 1)
	assert.Equal(t, "x", frame)
	s, frame, _ = Step(s, 1)
	assert.Equal(t, "xy", frame)
	assert.False(t, Behind(s))
}

func TestRetarget_ContinuesOnGrowth(t *testing.T) {
	s := State{Target: "def ", Revealed: 2}
	assert.Equal(t, "de", Displayed(s))

	s = Retarget(s, "def generate_report():")
	assert.Equal(t, 2, s.Revealed)

	s, frame, ok := Step(s, 5)
	assert.True(t, ok)
	assert.Equal(t, "def gen", frame)
}

func TestRetarget_ShorterTargetAheadOfCursorContinues(t *testing.T) {
	s := State{Target: "abcdefgh", Revealed: 2}
	s = Retarget(s, "xyz")
	assert.Equal(t, 2, s.Revealed)
	assert.Equal(t, "xy", Displayed(s))
}

func TestRetarget_EmptyTargetClearsDisplay(t *testing.T) {
	s := Retarget(State{Target: "abc", Revealed: 3}, "")
	assert.Equal(t, "", Displayed(s))
	assert.False(t, Behind(s))
}

func TestDisplayed_IsPrefixAndValidUTF8(t *testing.T) {
	target := "print(\"héllo wörld ✓\")"
	s := Retarget(State{}, target)
	for Behind(s) {
		var frame string
		s, frame, _ = Step(s, 3)
		assert.True(t, utf8.ValidString(frame))
		assert.Equal(t, target[:len(frame)], frame)
	}
}

func TestRetarget_KeepsCursorOnMultiByteGrowth(t *testing.T) {
	s := Retarget(State{}, "ü✓")
	s, frame, _ := Step(s, 1)
	assert.Equal(t, "ü", frame)

	s = Retarget(s, "ü✓ done")
	assert.Equal(t, "ü", Displayed(s))
	s, frame, _ = Step(s, 2)
	assert.Equal(t, "ü✓ ", frame)

	assert.Equal(t, s, Retarget(s, "ü✓ done"), "an unchanged target keeps the cursor")
}

func TestStep_TracksByteOffset(t *testing.T) {
	target := strings.Repeat("héllo ✓ ", 50)
	s := Retarget(State{}, target)
	for Behind(s) {
		s, _, _ = Step(s, 7)
		assert.True(t, s.measured)
		assert.Equal(t, byteOffset(target, s.Revealed), s.offset)
	}
	assert.Equal(t, len(target), s.offset)
}

func BenchmarkReveal_FullArtifact(b *testing.B) {
	target := strings.Repeat("func main() { fmt.Println(\"héllo\") }\n", 2000)
	for b.Loop() {
		s := Retarget(State{}, target)
		for Behind(s) {
			s, _, _ = Step(s, 5)
		}
	}
}
