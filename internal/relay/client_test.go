package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPostNotification(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notifications" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("user-agent = %q", ua)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.PostNotification(context.Background(), Notification{
		Type:    "notification",
		Source:  "claude-code",
		Content: "build finished",
		Level:   "task_complete",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "build finished" {
		t.Errorf("content = %q", got.Content)
	}
	if got.Timestamp == "" {
		t.Error("timestamp must be filled in")
	}
}

func TestPostNotification_FansOutToUI(t *testing.T) {
	var uiHits atomic.Int32
	ui := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uiHits.Add(1)
	}))
	defer ui.Close()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(srv.URL, WithUI(ui.URL))
	if err := c.PostNotification(context.Background(), Notification{Level: "alert"}); err != nil {
		t.Fatal(err)
	}
	if uiHits.Load() != 1 {
		t.Errorf("ui hits = %d, want 1", uiHits.Load())
	}
}

func TestPostToolLog_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.PostToolLog(context.Background(), ToolLog{Tool: "Bash"}); err == nil {
		t.Error("expected error on 404")
	}
}

func TestSaveSessionState_PostsBothKeys(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var msg map[string]string
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Error(err)
		}
		if msg["role"] != "system" {
			t.Errorf("role = %q", msg["role"])
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.SaveSessionState(context.Background(), "sess-42", map[string]string{"branch": "main"})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "/api/conversations/sess-42" ||
		paths[1] != "/api/conversations/"+LatestStateKey {
		t.Errorf("paths = %v", paths)
	}
}

func TestFetchContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("task"); got != "fix tests" {
			t.Errorf("task = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"context": "last session touched internal/policy"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.FetchContext(context.Background(), "fix tests", "minimal")
	if err != nil {
		t.Fatal(err)
	}
	if got != "last session touched internal/policy" {
		t.Errorf("context = %q", got)
	}
}

func TestPendingMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages":[{},{},{}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	n, err := c.PendingMessages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("pending = %d, want 3", n)
	}
}

func TestClient_ConnectionRefusedIsSoftError(t *testing.T) {
	// Closed server: connection refused must come back as an error value,
	// never a panic, and quickly.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, WithTimeout(500*time.Millisecond))
	if err := c.PostToolLog(context.Background(), ToolLog{Tool: "Bash"}); err == nil {
		t.Error("expected error against closed server")
	}
	if c.Healthy(context.Background(), srv.URL+"/api/health") {
		t.Error("closed server must report unhealthy")
	}
}
