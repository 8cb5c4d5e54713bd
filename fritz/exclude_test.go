package fritz

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestExcluded(t *testing.T) {
	rules := []ExclusionRule{{All: []string{"foo"}}, {All: []string{"bar", "baz"}}}

	cases := []struct {
		message string
		want    bool
	}{
		{"foo happened", true},
		{"bar and baz both", true},
		{"bar only", false},
		{"baz only", false},
		{"nothing to see", false},
	}
	for _, tc := range cases {
		if got := Excluded(tc.message, rules); got != tc.want {
			t.Fatalf("Excluded(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}

func TestExcluded_EmptyRuleNeverMatches(t *testing.T) {
	if Excluded("anything", []ExclusionRule{{}}) {
		t.Fatalf("empty rule must not match")
	}
	if Excluded("anything", nil) {
		t.Fatalf("nil rules must not match")
	}
}

func TestExclusionRule_UnmarshalYAML(t *testing.T) {
	var cfg struct {
		Exclude []ExclusionRule `yaml:"exclude"`
	}
	doc := "exclude:\n  - foo\n  - [bar, baz]\n"
	if err := yaml.Unmarshal([]byte(doc), &cfg); err != nil {
		t.Fatal(err)
	}
	if len(cfg.Exclude) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Exclude))
	}
	if len(cfg.Exclude[0].All) != 1 || cfg.Exclude[0].All[0] != "foo" {
		t.Fatalf("unexpected first rule: %+v", cfg.Exclude[0])
	}
	if len(cfg.Exclude[1].All) != 2 || cfg.Exclude[1].All[0] != "bar" || cfg.Exclude[1].All[1] != "baz" {
		t.Fatalf("unexpected second rule: %+v", cfg.Exclude[1])
	}
}

func TestExclusionRule_UnmarshalYAMLRejectsMapping(t *testing.T) {
	var cfg struct {
		Exclude []ExclusionRule `yaml:"exclude"`
	}
	doc := "exclude:\n  - {pattern: foo}\n"
	if err := yaml.Unmarshal([]byte(doc), &cfg); err == nil {
		t.Fatalf("expected error for mapping rule")
	}
}
