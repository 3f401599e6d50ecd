package keyword

import (
	"strings"

	"searchconsole-go/pkg/analytics"
)

// MatchType selects how a rule value is compared against a query.
type MatchType string

const (
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
	MatchExact      MatchType = "exact_match"
	MatchEndsWith   MatchType = "ends_with"
)

// Rule is one user-configured branded-keyword rule. Matching is
// case-insensitive.
type Rule struct {
	Type  MatchType `json:"type"`
	Value string    `json:"value"`
}

// RuleProvider supplies the current rule list. Rules are read fresh on
// every classification call so edits take effect immediately; the
// classifier never caches them.
type RuleProvider interface {
	BrandedRules() []Rule
}

// Classifier tags query strings as branded or non-branded.
type Classifier struct {
	rules RuleProvider
}

func NewClassifier(rules RuleProvider) *Classifier {
	return &Classifier{rules: rules}
}

// Classify evaluates rules in order; the first match wins and no match
// means non-branded.
func (c *Classifier) Classify(query string) analytics.KeywordType {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return analytics.KeywordNonBranded
	}

	for _, rule := range c.rules.BrandedRules() {
		value := strings.ToLower(strings.TrimSpace(rule.Value))
		if value == "" {
			continue
		}

		var matched bool
		switch rule.Type {
		case MatchContains:
			matched = strings.Contains(q, value)
		case MatchStartsWith:
			matched = strings.HasPrefix(q, value)
		case MatchExact:
			matched = q == value
		case MatchEndsWith:
			matched = strings.HasSuffix(q, value)
		}

		if matched {
			return analytics.KeywordBranded
		}
	}

	return analytics.KeywordNonBranded
}

// StaticRules is a RuleProvider over a fixed in-memory list, useful for
// tests and one-shot CLI runs.
type StaticRules []Rule

func (s StaticRules) BrandedRules() []Rule {
	return s
}
