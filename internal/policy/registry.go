// Package policy implements the command safety validation engine:
// an ordered, two-tier rule registry, a matcher, and a decision composer.
//
// Matching is heuristic regexp search against the literal command text.
// The engine deliberately does not parse shell syntax, so quoting,
// variable expansion, and command chaining can evade or trip rules.
// Callers treat the verdict as a pre-execution gate, not a sandbox.
package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// Tier is a rule's priority class. Block rules veto, warn rules annotate.
type Tier string

const (
	TierBlock Tier = "block"
	TierWarn  Tier = "warn"
)

// Category classifies what kind of damage a rule guards against.
type Category string

const (
	CategoryDestructiveFS  Category = "destructive-filesystem"
	CategoryVCSDestructive Category = "vcs-destructive"
	CategoryCredential     Category = "credential-exposure"
	CategorySystemMod      Category = "system-modification"
	CategoryNetwork        Category = "network-security"
)

func validTier(t Tier) bool {
	return t == TierBlock || t == TierWarn
}

func validCategory(c Category) bool {
	switch c {
	case CategoryDestructiveFS, CategoryVCSDestructive, CategoryCredential,
		CategorySystemMod, CategoryNetwork:
		return true
	}
	return false
}

// Rule is one pattern entry in the registry. Immutable once compiled.
type Rule struct {
	// Pattern is the authored regexp. It is compiled case-insensitively
	// and searched (not anchored) against the raw command text.
	Pattern  string
	Category Category
	Tier     Tier
	// Message is the human-readable reason reported when the rule fires.
	Message string

	re *regexp.Regexp
}

// Matches reports whether the command text contains the rule's pattern.
func (r *Rule) Matches(command string) bool {
	return r.re.MatchString(command)
}

// Registry is the immutable, ordered rule set, split into block and warn
// tiers. Construction happens once at startup; evaluation is lock-free
// because nothing mutates after NewRegistry returns.
type Registry struct {
	block []Rule
	warn  []Rule
}

// NewRegistry compiles the given rules into a registry, preserving the
// authored order within each tier. A bad pattern, tier, or category fails
// the whole construction so misconfigured rule sets are caught at startup
// rather than silently skipped per call.
func NewRegistry(rules []Rule) (*Registry, error) {
	reg := &Registry{}
	for i, r := range rules {
		if !validTier(r.Tier) {
			return nil, fmt.Errorf("rule %d (%q): unknown tier %q", i, r.Pattern, r.Tier)
		}
		if !validCategory(r.Category) {
			return nil, fmt.Errorf("rule %d (%q): unknown category %q", i, r.Pattern, r.Category)
		}
		if r.Message == "" {
			return nil, fmt.Errorf("rule %d (%q): empty message", i, r.Pattern)
		}
		re, err := regexp.Compile(caseInsensitive(r.Pattern))
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i, r.Pattern, err)
		}
		r.re = re
		switch r.Tier {
		case TierBlock:
			reg.block = append(reg.block, r)
		case TierWarn:
			reg.warn = append(reg.warn, r)
		}
	}
	return reg, nil
}

// BlockRules returns the block-tier rules in registration order.
func (reg *Registry) BlockRules() []Rule { return reg.block }

// WarnRules returns the warn-tier rules in registration order.
func (reg *Registry) WarnRules() []Rule { return reg.warn }

// Append returns a new registry with extra rules compiled after the
// receiver's, keeping the receiver untouched. Built-in ordering stays
// significant: appended rules can never shadow an earlier block reason.
func (reg *Registry) Append(rules []Rule) (*Registry, error) {
	extra, err := NewRegistry(rules)
	if err != nil {
		return nil, err
	}
	merged := &Registry{
		block: make([]Rule, 0, len(reg.block)+len(extra.block)),
		warn:  make([]Rule, 0, len(reg.warn)+len(extra.warn)),
	}
	merged.block = append(merged.block, reg.block...)
	merged.block = append(merged.block, extra.block...)
	merged.warn = append(merged.warn, reg.warn...)
	merged.warn = append(merged.warn, extra.warn...)
	return merged, nil
}

func caseInsensitive(pattern string) string {
	if strings.HasPrefix(pattern, "(?i)") {
		return pattern
	}
	return "(?i)" + pattern
}
