package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// recordingRelay captures relay traffic from hook subcommands.
type recordingRelay struct {
	mu   sync.Mutex
	hits []string
}

func newRecordingRelay(t *testing.T) *recordingRelay {
	t.Helper()
	r := &recordingRelay{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.hits = append(r.hits, req.Method+" "+req.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("HIVEHOOK_RELAY_URL", srv.URL)
	// Point the UI leg somewhere valid too so notify does not stall on
	// a refused connection.
	t.Setenv("HIVEHOOK_UI_URL", srv.URL)
	return r
}

func (r *recordingRelay) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.hits...)
}

func TestNotify_ForwardsActionableLevels(t *testing.T) {
	isolateHome(t)
	relay := newRecordingRelay(t)

	input := `{"type":"error","message":"build broke"}`
	if _, err := execute(t, input, "notify"); err != nil {
		t.Fatal(err)
	}

	paths := relay.paths()
	if len(paths) == 0 || !strings.Contains(paths[0], "/api/notifications") {
		t.Errorf("relay hits = %v, want notification post", paths)
	}
}

func TestNotify_DropsUnforwardedLevels(t *testing.T) {
	isolateHome(t)
	relay := newRecordingRelay(t)

	if _, err := execute(t, `{"type":"debug","message":"noise"}`, "notify"); err != nil {
		t.Fatal(err)
	}
	if len(relay.paths()) != 0 {
		t.Errorf("debug-level notification must not be forwarded: %v", relay.paths())
	}
}

func TestPostTool_SkipsNoisyTools(t *testing.T) {
	isolateHome(t)
	relay := newRecordingRelay(t)

	if _, err := execute(t, `{"tool_name":"Grep","tool_input":{"pattern":"x"}}`, "posttool"); err != nil {
		t.Fatal(err)
	}
	if len(relay.paths()) != 0 {
		t.Errorf("Grep must be skipped: %v", relay.paths())
	}

	if _, err := execute(t, `{"tool_name":"Bash","tool_input":{"command":"make"},"session_id":"s1"}`, "posttool"); err != nil {
		t.Fatal(err)
	}
	paths := relay.paths()
	if len(paths) != 1 || !strings.Contains(paths[0], "/api/logs") {
		t.Errorf("relay hits = %v, want one log post", paths)
	}
}

func TestSessionSave_PostsSnapshot(t *testing.T) {
	isolateHome(t)
	relay := newRecordingRelay(t)
	t.Setenv("CLAUDE_PROJECT_DIR", t.TempDir())

	out, err := execute(t, `{"session_id":"sess-9"}`, "session-save")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Session state saved") {
		t.Errorf("out = %q", out)
	}

	paths := relay.paths()
	if len(paths) != 2 {
		t.Fatalf("relay hits = %v, want session + latest posts", paths)
	}
	if !strings.Contains(paths[0], "/api/conversations/sess-9") {
		t.Errorf("first post = %q", paths[0])
	}
}

func TestContext_PrintsFetchedContext(t *testing.T) {
	isolateHome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/hive/context":
			json.NewEncoder(w).Encode(map[string]string{"context": "resume work on the rule overlay"})
		case "/api/messages/pending":
			w.Write([]byte(`{"messages":[{}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	t.Setenv("HIVEHOOK_RELAY_URL", srv.URL)

	out, err := execute(t, `{"task":"overlay"}`, "context")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "resume work on the rule overlay") {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(out, "PENDING MESSAGES: 1") {
		t.Errorf("pending alert missing: %q", out)
	}
}
