package policy

// MatchResult is the outcome of running a command through a registry.
// Exactly one of the two shapes is populated: a single blocking rule,
// or the (possibly empty) ordered set of warning rules.
type MatchResult struct {
	Blocked *Rule
	Warned  []Rule
}

// Evaluate runs the command through the registry. Block-tier rules are
// tried first, in registration order, and the first hit wins. Only when
// no block rule matches are warn-tier rules consulted, and those
// accumulate every hit so the caller sees the full risk picture.
//
// Evaluation is a pure function of its inputs: no I/O, no shared state,
// safe for any number of concurrent callers.
func Evaluate(command string, reg *Registry) MatchResult {
	block := reg.BlockRules()
	for i := range block {
		if block[i].Matches(command) {
			return MatchResult{Blocked: &block[i]}
		}
	}

	var warned []Rule
	warn := reg.WarnRules()
	for i := range warn {
		if warn[i].Matches(command) {
			warned = append(warned, warn[i])
		}
	}
	return MatchResult{Warned: warned}
}
