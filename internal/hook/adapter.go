package hook

import (
	"fmt"

	"github.com/stonehive/hivehook/internal/policy"
)

// MonitoredTool is the only tool the safety gate governs. Every other
// tool passes through without touching the rule registry.
const MonitoredTool = "Bash"

// EvaluateFunc matches the policy matcher's signature so tests can
// substitute an instrumented evaluator.
type EvaluateFunc func(command string, reg *policy.Registry) policy.MatchResult

// Adapter is the boundary between the hook envelope format and the policy
// core. It guarantees a decision for every payload: malformed input,
// evaluation panics, and unknown tools all come back as decisions, never
// as errors. Whether validation failures allow or block is the one
// configurable policy choice (fail-open by default, see FailClosed).
type Adapter struct {
	registry *policy.Registry

	// FailClosed flips parse and internal failures from Allow to Block.
	// The default preserves the fail-open contract: availability over
	// strict safety, with the failure recorded in the decision reason.
	FailClosed bool

	// Evaluate runs the matcher. Defaults to policy.Evaluate; tests
	// inject a counting evaluator to prove the short-circuit paths
	// never consult a rule.
	Evaluate EvaluateFunc
}

// NewAdapter wires an adapter around an immutable registry.
func NewAdapter(reg *policy.Registry) *Adapter {
	return &Adapter{
		registry: reg,
		Evaluate: policy.Evaluate,
	}
}

// Result pairs the decision with whatever envelope context survived
// parsing, for audit logging by the caller.
type Result struct {
	Envelope Envelope
	Decision policy.Decision
}

// Handle processes one raw hook payload through
// parse → action filter → match → compose. It never fails; the terminal
// state is always an emitted decision.
func (a *Adapter) Handle(raw []byte) Result {
	env, err := ParseEnvelope(raw)
	if err != nil {
		return Result{Decision: a.failure(policy.ClassParseFailure, "Could not parse hook input")}
	}

	if env.ToolName != MonitoredTool {
		return Result{Envelope: env, Decision: policy.Passthrough()}
	}

	command := env.ToolInput.Command
	if command == "" {
		return Result{Envelope: env, Decision: policy.Passthrough()}
	}

	return Result{Envelope: env, Decision: a.evaluate(command)}
}

// evaluate runs the matcher with a panic guard. A fault inside matching
// must surface as a decision, not take down the hook.
func (a *Adapter) evaluate(command string) (d policy.Decision) {
	defer func() {
		if r := recover(); r != nil {
			d = a.failure(policy.ClassInternalFailure, fmt.Sprintf("Hook error: %v", r))
		}
	}()

	return policy.Compose(a.Evaluate(command, a.registry))
}

func (a *Adapter) failure(class policy.Class, reason string) policy.Decision {
	outcome := policy.OutcomeAllow
	if a.FailClosed {
		outcome = policy.OutcomeBlock
	}
	return policy.Decision{Outcome: outcome, Reason: reason, Class: class}
}
