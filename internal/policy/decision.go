package policy

import "strings"

// Outcome is the engine's verdict for one command.
type Outcome string

const (
	OutcomeAllow Outcome = "allow"
	OutcomeBlock Outcome = "block"
)

// Class records why a decision came out the way it did. It is internal
// bookkeeping for callers and tests; it never appears on the wire.
type Class int

const (
	// ClassPolicyAllow: the command passed, with or without warnings,
	// or was outside the monitored action kind.
	ClassPolicyAllow Class = iota
	// ClassPolicyBlock: a block-tier rule matched.
	ClassPolicyBlock
	// ClassParseFailure: the invocation envelope could not be decoded.
	ClassParseFailure
	// ClassInternalFailure: evaluation itself faulted.
	ClassInternalFailure
)

func (c Class) String() string {
	switch c {
	case ClassPolicyAllow:
		return "policy-allow"
	case ClassPolicyBlock:
		return "policy-block"
	case ClassParseFailure:
		return "parse-failure"
	case ClassInternalFailure:
		return "internal-failure"
	}
	return "unknown"
}

// Decision is the normalized verdict emitted per invocation. It has no
// identity beyond the call it answers.
type Decision struct {
	Outcome  Outcome  `json:"decision"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Class    Class    `json:"-"`
}

// Passthrough is the minimal allow for invocations the engine does not
// govern (non-monitored action kinds, absent commands). No rule was
// consulted to produce it.
func Passthrough() Decision {
	return Decision{Outcome: OutcomeAllow, Class: ClassPolicyAllow}
}

// Compose maps a MatchResult to its Decision.
func Compose(res MatchResult) Decision {
	if res.Blocked != nil {
		return Decision{
			Outcome: OutcomeBlock,
			Reason:  "Security: " + res.Blocked.Message,
			Pattern: res.Blocked.Pattern,
			Class:   ClassPolicyBlock,
		}
	}

	if len(res.Warned) > 0 {
		msgs := make([]string, len(res.Warned))
		for i, r := range res.Warned {
			msgs[i] = r.Message
		}
		return Decision{
			Outcome:  OutcomeAllow,
			Reason:   "Warning: " + strings.Join(msgs, ", "),
			Warnings: msgs,
			Class:    ClassPolicyAllow,
		}
	}

	return Decision{
		Outcome: OutcomeAllow,
		Reason:  "Command passed security check",
		Class:   ClassPolicyAllow,
	}
}
