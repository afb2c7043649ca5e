package swarmcore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swarm-console/internal/utils"
)

const maxErrorBody = 4 << 10

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("swarm-core returned http %d", e.Code)
	}
	return fmt.Sprintf("swarm-core returned http %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from swarm-core.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("swarmcore")
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// GetJob fetches the current snapshot of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (Snapshot, error) {
	var snap Snapshot
	if err := c.doJSON(ctx, http.MethodGet, utils.JoinPath(c.baseURL, "api", "v1", "job", jobID), nil, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("get job %s: %w", jobID, err)
	}
	if snap.JobID == "" {
		snap.JobID = jobID
	}
	return snap, nil
}

// CreateJob submits a task and returns the new job id.
func (c *Client) CreateJob(ctx context.Context, req CreateJobRequest) (string, error) {
	if strings.TrimSpace(req.Task) == "" {
		return "", errors.New("create job: task is empty")
	}
	var resp CreateJobResponse
	if err := c.doJSON(ctx, http.MethodPost, utils.JoinPath(c.baseURL, "api", "v1", "job"), req, &resp); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("create job: %w: response has no job_id", ErrMalformed)
	}
	return resp.JobID, nil
}

// Health returns the status string reported by swarm-core.
func (c *Client) Health(ctx context.Context) (string, error) {
	var h healthResponse
	if err := c.doJSON(ctx, http.MethodGet, utils.JoinPath(c.baseURL, "api", "v1", "health"), nil, &h); err != nil {
		return "", fmt.Errorf("health: %w", err)
	}
	return h.Status, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, buf)
	if err != nil {
		return err
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Request failed", zap.String("method", method), zap.String("url", url),
			zap.String("request_id", requestID), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("Request completed", zap.String("method", method), zap.String("url", url),
		zap.String("request_id", requestID), zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(b))
		var er errorResponse
		if json.Unmarshal(b, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
