package keyword

import (
	"testing"

	"searchconsole-go/pkg/analytics"
)

func TestClassifier_Contains(t *testing.T) {
	c := NewClassifier(StaticRules{{Type: MatchContains, Value: "acme"}})

	cases := []struct {
		query string
		want  analytics.KeywordType
	}{
		{"Acme Widgets", analytics.KeywordBranded},
		{"best acme deals", analytics.KeywordBranded},
		{"widget", analytics.KeywordNonBranded},
		{"", analytics.KeywordNonBranded},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.query); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestClassifier_MatchTypes(t *testing.T) {
	cases := []struct {
		rule  Rule
		query string
		want  analytics.KeywordType
	}{
		{Rule{MatchStartsWith, "acme"}, "acme store hours", analytics.KeywordBranded},
		{Rule{MatchStartsWith, "acme"}, "the acme store", analytics.KeywordNonBranded},
		{Rule{MatchExact, "Acme"}, "acme", analytics.KeywordBranded},
		{Rule{MatchExact, "acme"}, "acme shoes", analytics.KeywordNonBranded},
		{Rule{MatchEndsWith, "acme"}, "buy from acme", analytics.KeywordBranded},
		{Rule{MatchEndsWith, "acme"}, "acme reviews", analytics.KeywordNonBranded},
	}

	for _, tc := range cases {
		c := NewClassifier(StaticRules{tc.rule})
		if got := c.Classify(tc.query); got != tc.want {
			t.Errorf("rule %v: Classify(%q) = %s, want %s", tc.rule, tc.query, got, tc.want)
		}
	}
}

func TestClassifier_FirstMatchWins(t *testing.T) {
	// Both rules could apply; evaluation must stop at the first.
	c := NewClassifier(StaticRules{
		{Type: MatchExact, Value: "acme store"},
		{Type: MatchContains, Value: "acme"},
	})

	if got := c.Classify("acme store"); got != analytics.KeywordBranded {
		t.Errorf("Expected branded, got %s", got)
	}
}

type mutableRules struct {
	rules []Rule
}

func (m *mutableRules) BrandedRules() []Rule {
	return m.rules
}

func TestClassifier_ReadsRulesFresh(t *testing.T) {
	provider := &mutableRules{}
	c := NewClassifier(provider)

	if got := c.Classify("acme"); got != analytics.KeywordNonBranded {
		t.Fatalf("Expected non-branded before rules exist, got %s", got)
	}

	// A rule edit must take effect on the very next call
	provider.rules = []Rule{{Type: MatchContains, Value: "acme"}}
	if got := c.Classify("acme"); got != analytics.KeywordBranded {
		t.Errorf("Expected branded after rule added, got %s", got)
	}
}

func TestClassifier_IgnoresEmptyRuleValues(t *testing.T) {
	c := NewClassifier(StaticRules{{Type: MatchContains, Value: "  "}})

	if got := c.Classify("anything"); got != analytics.KeywordNonBranded {
		t.Errorf("Blank rule value must never match, got %s", got)
	}
}
