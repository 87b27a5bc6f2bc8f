// Package relay is the HTTP client for the Hive relay service. Hooks use
// it to persist notifications, tool logs, and session state, and to pull
// task context back at session start. Every call is best-effort: relay
// outages must never fail a hook.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultURL is the relay service on its standard local port.
	DefaultURL = "http://localhost:8600"
	// DefaultUIURL is the real-time UI endpoint notifications fan out to.
	DefaultUIURL = "http://localhost:8585"

	userAgent = "HiveHook/2.0"
)

// forwardLevels are the notification levels worth persisting. Everything
// else is UI chrome and gets dropped at the source.
var forwardLevels = map[string]bool{
	"error":         true,
	"warning":       true,
	"task_complete": true,
	"task_failed":   true,
	"message":       true,
	"alert":         true,
}

// ShouldForward reports whether a notification level is persisted.
func ShouldForward(level string) bool {
	return forwardLevels[level]
}

// Client talks to the relay (and optionally the UI endpoint).
type Client struct {
	baseURL string
	uiURL   string
	http    *http.Client
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUI sets the real-time UI endpoint for notification fan-out.
func WithUI(url string) Option {
	return func(c *Client) { c.uiURL = url }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a relay client. Calls time out after five seconds unless
// overridden; hooks run inside an interactive session and cannot stall it.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  log.Default().WithPrefix("relay"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notification is the persistence payload for a forwarded notification.
type Notification struct {
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	Content   string         `json:"content"`
	Level     string         `json:"level"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// PostNotification persists a notification and, when a UI endpoint is
// configured, mirrors it there. The UI leg is fire-and-forget.
func (c *Client) PostNotification(ctx context.Context, n Notification) error {
	if n.Timestamp == "" {
		n.Timestamp = time.Now().Format(time.RFC3339)
	}
	if err := c.post(ctx, c.baseURL+"/api/notifications", n); err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	if c.uiURL != "" {
		if err := c.post(ctx, c.uiURL+"/api/notify", n); err != nil {
			c.logger.Debug("ui notify failed", "err", err)
		}
	}
	return nil
}

// ToolLog is one tool-usage audit record.
type ToolLog struct {
	Type         string `json:"type"`
	Tool         string `json:"tool"`
	InputSummary string `json:"input_summary"`
	SessionID    string `json:"session_id"`
	Timestamp    string `json:"timestamp"`
	Source       string `json:"source"`
}

// PostToolLog records tool usage for the audit trail.
func (c *Client) PostToolLog(ctx context.Context, e ToolLog) error {
	if e.Type == "" {
		e.Type = "tool_usage"
	}
	if e.Timestamp == "" {
		e.Timestamp = time.Now().Format(time.RFC3339)
	}
	if err := c.post(ctx, c.baseURL+"/api/logs", e); err != nil {
		return fmt.Errorf("post tool log: %w", err)
	}
	return nil
}

// LatestStateKey is the fixed conversation key holding the most recent
// session snapshot, so session start can find it without knowing IDs.
const LatestStateKey = "claude-session-latest"

// SaveSessionState stores a state snapshot under the session's own
// conversation and under LatestStateKey.
func (c *Client) SaveSessionState(ctx context.Context, sessionID string, state any) error {
	content, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	msg := map[string]string{
		"role":    "system",
		"content": string(content),
	}

	if err := c.post(ctx, c.baseURL+"/api/conversations/"+url.PathEscape(sessionID), msg); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	if err := c.post(ctx, c.baseURL+"/api/conversations/"+LatestStateKey, msg); err != nil {
		c.logger.Debug("latest-state save failed", "err", err)
	}
	return nil
}

// FetchContext asks the relay's smart-context endpoint for task-relevant
// context to inject at session start.
func (c *Client) FetchContext(ctx context.Context, task, scope string) (string, error) {
	q := url.Values{"task": {task}, "scope": {scope}}
	var body struct {
		Context string `json:"context"`
	}
	if err := c.get(ctx, c.baseURL+"/api/hive/context?"+q.Encode(), &body); err != nil {
		return "", fmt.Errorf("fetch context: %w", err)
	}
	return body.Context, nil
}

// PendingMessages returns how many relay messages await a response.
func (c *Client) PendingMessages(ctx context.Context) (int, error) {
	var body struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := c.get(ctx, c.baseURL+"/api/messages/pending", &body); err != nil {
		return 0, fmt.Errorf("pending messages: %w", err)
	}
	return len(body.Messages), nil
}

// Healthy probes an arbitrary health URL. Used by the session-start
// fallback when the smart-context endpoint is down.
func (c *Client) Healthy(ctx context.Context, healthURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) post(ctx context.Context, url string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
