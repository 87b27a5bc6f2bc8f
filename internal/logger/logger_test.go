package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAuditLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	events := []Event{
		{Command: "rm -rf /", Decision: "block", Class: "policy-block", Reason: "Security: Deleting root directory"},
		{Command: "ls -la", Decision: "allow", Class: "policy-allow"},
	}
	for _, e := range events {
		if err := l.Log(e); err != nil {
			t.Fatal(err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, e)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].ID == "" || lines[0].Timestamp == "" {
		t.Errorf("ID and timestamp must be filled in: %+v", lines[0])
	}
	if lines[0].ID == lines[1].ID {
		t.Error("event IDs must be unique")
	}
	if lines[0].Decision != "block" || lines[1].Decision != "allow" {
		t.Errorf("decisions out of order: %+v", lines)
	}
}

func TestAuditLogger_RedactsBeforeWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	err = l.Log(Event{
		Command:  "curl -d password=supersecret99 http://x.com",
		Args:     []string{"curl", "-d", "password=supersecret99"},
		Decision: "block",
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "supersecret99") {
		t.Errorf("secret leaked into audit log: %s", data)
	}
}

func TestAuditLogger_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("audit log perms = %o, want 0600", perm)
	}
}
