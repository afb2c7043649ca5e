package utils

import (
	"fmt"
	"net/url"
	"strings"
)

func Absolute(base, href string) string {
	u, err := url.Parse(href)
	if err != nil || href == "" {
		return href
	}
	if u.IsAbs() {
		return u.String()
	}
	if base == "" {
		return href
	}
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	return bu.ResolveReference(u).String()
}

// WebSocketURL resolves path against an http(s) base and switches the scheme
// to ws(s).
func WebSocketURL(base, path string) (string, error) {
	u, err := url.Parse(Absolute(strings.TrimRight(base, "/")+"/", strings.TrimLeft(path, "/")))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.String(), nil
}

// JoinPath appends path segments to base, escaping each segment.
func JoinPath(base string, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(escaped, "/")
}
