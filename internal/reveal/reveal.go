// Package reveal turns a growing text artifact into a sequence of prefixes
// that advance at a fixed pace, independent of how fast the text arrives.
package reveal

import "unicode/utf8"

// State is the cursor over one target. Revealed counts runes, so every
// displayed prefix is valid UTF-8.
//
// The rune length of Target and the byte offset of the cursor are cached by
// Retarget and Step, so a tick costs O(chunk) rather than O(len(Target)). A
// State built by hand is measured on first use.
type State struct {
	Target   string
	Revealed int

	runes    int
	offset   int
	measured bool
}

func (s State) measure() State {
	if s.measured {
		return s
	}
	s.runes = utf8.RuneCountInString(s.Target)
	s.Revealed = max(0, min(s.Revealed, s.runes))
	s.offset = byteOffset(s.Target, s.Revealed)
	s.measured = true
	return s
}

// Retarget points s at a new target. A target shorter than what is already
// displayed is treated as a different artifact and restarts from zero;
// anything else continues from the current cursor. A legitimately shrinking
// artifact is indistinguishable from a new one and is also restarted.
func Retarget(s State, target string) State {
	if s.measured && target == s.Target {
		return s
	}
	next := State{Target: target, runes: utf8.RuneCountInString(target), measured: true}
	if next.runes < s.Revealed {
		return next
	}
	next.Revealed = s.Revealed
	next.offset = byteOffset(target, s.Revealed)
	return next
}

// Step advances the cursor by chunk runes, clamped to the target length, and
// returns the new prefix. It reports false when the cursor was already caught up.
func Step(s State, chunk int) (State, string, bool) {
	if chunk < 1 {
		chunk = 1
	}
	s = s.measure()
	if s.Revealed >= s.runes {
		return s, Displayed(s), false
	}
	for i := 0; i < chunk && s.offset < len(s.Target); i++ {
		_, size := utf8.DecodeRuneInString(s.Target[s.offset:])
		s.offset += size
		s.Revealed++
	}
	return s, Displayed(s), true
}

// Behind reports whether Step would advance.
func Behind(s State) bool {
	s = s.measure()
	return s.Revealed < s.runes
}

func Displayed(s State) string {
	s = s.measure()
	return s.Target[:s.offset]
}

// byteOffset returns the byte index just past the first n runes of s.
func byteOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	seen := 0
	for i := range s {
		if seen == n {
			return i
		}
		seen++
	}
	return len(s)
}
