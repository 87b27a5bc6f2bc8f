// Package hook adapts agent-session hook envelopes to the policy engine.
package hook

import "encoding/json"

// Envelope is the JSON payload an agent session delivers on stdin for a
// pre-tool-use hook.
type Envelope struct {
	HookEventName string    `json:"hook_event_name"`
	ToolName      string    `json:"tool_name"`
	ToolInput     ToolInput `json:"tool_input"`
	SessionID     string    `json:"session_id"`
}

// ToolInput carries the tool arguments. Only the command field matters to
// the safety gate.
type ToolInput struct {
	Command string `json:"command"`
}

// ParseEnvelope decodes a raw hook payload.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(raw, &env)
	return env, err
}
