package swarmcore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a control message to the peer.
	writeWait = 10 * time.Second
	// Largest frame accepted from swarm-core. Frames carry the full artifact.
	maxMessageSize = 8 << 20
)

// ErrClosed reports that the stream ended normally.
var ErrClosed = errors.New("stream closed")

// Dialer opens the update stream. Sessions depend on this interface so tests
// can substitute a fake transport.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// Conn is one open update stream.
type Conn interface {
	// ReadFrame blocks until the next frame arrives or the stream ends.
	ReadFrame() ([]byte, error)
	Close() error
}

// WSDialer dials the swarm-core websocket endpoint.
type WSDialer struct {
	URL    string
	Token  string
	Logger *zap.Logger
}

func (d WSDialer) Dial(ctx context.Context) (Conn, error) {
	s, err := Dial(ctx, d.URL, d.Token, d.Logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Stream wraps a websocket connection to swarm-core.
type Stream struct {
	conn   *websocket.Conn
	logger *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

func Dial(ctx context.Context, url, token string, logger *zap.Logger) (*Stream, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (http %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(maxMessageSize)
	l := logger.Named("stream")
	l.Info("Uplink established", zap.String("url", url))
	return &Stream{conn: conn, logger: l}, nil
}

// ReadFrame returns the next text or binary frame. A normal close, or a read
// on a connection already closed locally, is reported as ErrClosed.
func (s *Stream) ReadFrame() ([]byte, error) {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || errors.Is(err, net.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, err
	}
	return msg, nil
}

// Handlers receive what Pump reads. Only Update is required.
type Handlers struct {
	Update func(Update)
	// Malformed gets frames that do not parse. The stream continues.
	Malformed func(error)
	// Skipped is called for well-formed frames of another type.
	Skipped func()
}

// Pump reads frames from conn until it ends or ctx is cancelled, handing
// every JOB_UPDATE to h.Update.
func Pump(ctx context.Context, conn Conn, h Handlers) error {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		u, ok, err := DecodeUpdate(frame)
		switch {
		case err != nil:
			if h.Malformed != nil {
				h.Malformed(err)
			}
		case !ok:
			if h.Skipped != nil {
				h.Skipped()
			}
		default:
			h.Update(u)
		}
	}
}

// Close sends a normal close frame and closes the connection. It is safe to
// call more than once and from any goroutine.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		s.closeErr = s.conn.Close()
		s.logger.Info("Uplink closed")
	})
	return s.closeErr
}
