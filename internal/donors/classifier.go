package donors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDonorType is assigned when no rule matches.
const DefaultDonorType = "Individual/Other"

// Rule assigns Type to any donor whose name contains one of Keywords.
// Matching is case-sensitive substring matching.
type Rule struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// Matches reports whether the name contains any keyword.
func (r Rule) Matches(name string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Classifier applies an ordered rule list; the first matching rule wins.
type Classifier struct {
	rules    []Rule
	fallback string
}

// DefaultRules is the built-in rule order. "Co" also matches names such as
// "Committee" and "Columbia", so Corporate wins those.
func DefaultRules() []Rule {
	return []Rule{
		{Type: "Corporate", Keywords: []string{"Inc", "Corp", "LLC", "Co", "Company", "Group"}},
		{Type: "PAC", Keywords: []string{"PAC", "Committee", "Action", "Fund", "America", "Citizens"}},
		{Type: "Union", Keywords: []string{"Union", "Workers", "Labor", "Brotherhood", "Association"}},
		{Type: "University", Keywords: []string{"University", "College", "School"}},
		{Type: "Government", Keywords: []string{"Government", "State of", "Department", "Federal"}},
	}
}

// NewClassifier validates the rules. An empty fallback means DefaultDonorType.
func NewClassifier(rules []Rule, fallback string) (*Classifier, error) {
	for i, r := range rules {
		if strings.TrimSpace(r.Type) == "" {
			return nil, fmt.Errorf("donors: rule %d has no type", i)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("donors: rule %q has no keywords", r.Type)
		}
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultDonorType
	}
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Classifier{rules: copied, fallback: fallback}, nil
}

// DefaultClassifier uses DefaultRules.
func DefaultClassifier() *Classifier {
	c, _ := NewClassifier(DefaultRules(), DefaultDonorType)
	return c
}

// Classify returns the donor type for a name.
func (c *Classifier) Classify(name string) string {
	for _, r := range c.rules {
		if r.Matches(name) {
			return r.Type
		}
	}
	return c.fallback
}

// Types lists every type the classifier can return, in rule order.
func (c *Classifier) Types() []string {
	out := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.Type)
	}
	return append(out, c.fallback)
}

type ruleFile struct {
	Fallback string `yaml:"fallback"`
	Rules    []Rule `yaml:"rules"`
}

// LoadClassifier reads an ordered rule list from a YAML file:
//
//	fallback: Individual/Other
//	rules:
//	  - type: Corporate
//	    keywords: [Inc, Corp, LLC]
func LoadClassifier(path string) (*Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("donors: read rules: %w", err)
	}
	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("donors: parse rules %s: %w", path, err)
	}
	if len(file.Rules) == 0 {
		return nil, errors.New("donors: rules file defines no rules")
	}
	return NewClassifier(file.Rules, file.Fallback)
}
