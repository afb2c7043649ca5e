package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketURL(t *testing.T) {
	testCases := []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "http becomes ws", base: "http://localhost:8080", want: "ws://localhost:8080/api/v1/ws"},
		{name: "https becomes wss", base: "https://core.example.com/", want: "wss://core.example.com/api/v1/ws"},
		{name: "base path is kept", base: "https://example.com/swarm", want: "wss://example.com/swarm/api/v1/ws"},
		{name: "ws stays ws", base: "ws://localhost:9000", want: "ws://localhost:9000/api/v1/ws"},
		{name: "unsupported scheme", base: "ftp://example.com", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := WebSocketURL(tc.base, "/api/v1/ws")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "http://h/api/v1/job/abc-123", JoinPath("http://h/", "api", "v1", "job", "abc-123"))
	assert.Equal(t, "http://h/api/v1/job/a%2Fb", JoinPath("http://h", "api", "v1", "job", "a/b"))
}

func TestAbsolute(t *testing.T) {
	assert.Equal(t, "http://h/a/b", Absolute("http://h/a/", "b"))
	assert.Equal(t, "https://x/y", Absolute("http://h/", "https://x/y"))
	assert.Equal(t, "", Absolute("http://h/", ""))
}
