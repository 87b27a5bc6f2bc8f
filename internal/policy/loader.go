package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk shape of a rule overlay.
type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Pattern  string `yaml:"pattern"`
	Tier     string `yaml:"tier"`
	Category string `yaml:"category"`
	Message  string `yaml:"message"`
}

// LoadOverlay appends user-authored rules from a YAML file to the base
// registry. The overlay never replaces or reorders the built-in catalog;
// appended block rules are only consulted after every built-in block rule.
//
// An empty path or a missing file returns the base registry unchanged;
// the overlay is optional. A present-but-invalid file is an error, so a
// typo in a pattern is caught at startup instead of silently dropping
// the rule.
func LoadOverlay(path string, base *Registry) (*Registry, error) {
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, fmt.Errorf("read rule overlay: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rule overlay %s: %w", path, err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for _, spec := range file.Rules {
		rules = append(rules, Rule{
			Pattern:  spec.Pattern,
			Tier:     Tier(spec.Tier),
			Category: Category(spec.Category),
			Message:  spec.Message,
		})
	}

	merged, err := base.Append(rules)
	if err != nil {
		return nil, fmt.Errorf("rule overlay %s: %w", path, err)
	}
	return merged, nil
}
