// Package logger writes the local decision audit trail as JSONL.
package logger

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stonehive/hivehook/internal/redact"
)

// Event is one audited validation decision.
type Event struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	SessionID string   `json:"session_id,omitempty"`
	Command   string   `json:"command"`
	Args      []string `json:"args,omitempty"`
	Decision  string   `json:"decision"`
	Class     string   `json:"class"`
	Reason    string   `json:"reason,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// AuditLogger appends events to a JSONL file. Safe for concurrent use.
type AuditLogger struct {
	mu   sync.Mutex
	file *os.File
}

// New opens (or creates) the audit log at path with owner-only perms.
func New(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &AuditLogger{file: file}, nil
}

// Log writes one event. Missing IDs and timestamps are filled in, and
// command text is redacted before it touches disk.
func (l *AuditLogger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	event.Command = redact.Redact(event.Command)
	event.Args = redact.RedactArgs(event.Args)
	event.Reason = redact.Redact(event.Reason)

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

func (l *AuditLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
