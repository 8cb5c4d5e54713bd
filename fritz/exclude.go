package fritz

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExclusionRule drops matching messages from the fetched log. A rule with a
// single substring matches on containment; a rule with several substrings
// matches only when all of them appear in the message.
type ExclusionRule struct {
	All []string
}

func (r ExclusionRule) Matches(message string) bool {
	if len(r.All) == 0 {
		return false
	}
	for _, part := range r.All {
		if !strings.Contains(message, part) {
			return false
		}
	}
	return true
}

// Excluded reports whether any rule matches the message.
func Excluded(message string, rules []ExclusionRule) bool {
	for _, r := range rules {
		if r.Matches(message) {
			return true
		}
	}
	return false
}

// UnmarshalYAML accepts both rule forms:
//
//	exclude:
//	  - "single substring"
//	  - ["all of", "these"]
func (r *ExclusionRule) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		r.All = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		var parts []string
		if err := value.Decode(&parts); err != nil {
			return err
		}
		r.All = parts
		return nil
	default:
		return fmt.Errorf("exclude entries must be a string or a list of strings")
	}
}
