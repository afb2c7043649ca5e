// Package artifact cleans up generated code before it is displayed.
package artifact

import "regexp"

var (
	openingFence = regexp.MustCompile("^```([\\w+#.\\-]*)\\r?\\n")
	closingFence = regexp.MustCompile("```$")
)

// Normalize strips a leading opening fence (with an optional language tag)
// and a trailing closing fence, leaving the content in between untouched.
// The strip is repeated until nothing changes, so Normalize(Normalize(x)) ==
// Normalize(x) holds even for nested fences.
func Normalize(raw string) string {
	out := raw
	for {
		next := stripOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func stripOnce(s string) string {
	s = openingFence.ReplaceAllLiteralString(s, "")
	return closingFence.ReplaceAllLiteralString(s, "")
}

// Language returns the tag of the opening fence, or "" when there is none.
func Language(raw string) string {
	m := openingFence.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}
