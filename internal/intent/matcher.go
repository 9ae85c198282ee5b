// Package intent classifies user input against an ordered table of keyword
// rules. The first rule that matches wins; rules are never scored.
package intent

import (
	"strings"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

// Outcome is the result of a matched rule. Exactly one of Response and
// Trigger is set. A Trigger means the action will post its own messages and
// the caller must not produce another reply for the turn.
type Outcome struct {
	Rule     string
	Response *reply.Response
	Trigger  *domain.Action
}

// Predicate tests lower-cased input.
type Predicate func(text string) bool

// Handler produces the outcome of a matched rule.
type Handler func(text string, sc domain.SessionContext) Outcome

// Rule is one row of the intent table.
type Rule struct {
	Name string
	// Roles restricts the rule to some roles. Empty means every role.
	Roles  []domain.Role
	Match  Predicate
	Handle Handler
}

func (r Rule) appliesTo(role domain.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Matcher evaluates rules in table order. It holds no session state and is
// safe for concurrent use.
type Matcher struct {
	rules []Rule
}

// NewMatcher creates a matcher over a copy of rules.
func NewMatcher(rules []Rule) *Matcher {
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Matcher{rules: cp}
}

// Match classifies text. It returns false when no rule matched and the
// caller should fall through to the AI client.
func (m *Matcher) Match(text string, sc domain.SessionContext) (Outcome, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Outcome{}, false
	}

	for _, r := range m.rules {
		if !r.appliesTo(sc.Role) || !r.Match(lower) {
			continue
		}
		out := r.Handle(lower, sc)
		out.Rule = r.Name
		return out, true
	}
	return Outcome{}, false
}

// RuleNames returns the rule names in evaluation order.
func (m *Matcher) RuleNames() []string {
	names := make([]string, len(m.rules))
	for i, r := range m.rules {
		names[i] = r.Name
	}
	return names
}

// Phrases matches when any phrase is a substring of the input.
func Phrases(phrases ...string) Predicate {
	return func(text string) bool {
		for _, p := range phrases {
			if strings.Contains(text, p) {
				return true
			}
		}
		return false
	}
}

// Words matches when any word appears as a whole token of the input. Unlike
// Phrases it does not match inside longer words, so "hi" misses "this".
func Words(words ...string) Predicate {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return func(text string) bool {
		for _, tok := range strings.FieldsFunc(text, isSeparator) {
			if _, ok := set[tok]; ok {
				return true
			}
		}
		return false
	}
}

// Prefix matches input starting with p.
func Prefix(p string) Predicate {
	return func(text string) bool {
		return strings.HasPrefix(text, p)
	}
}

// Any matches when any predicate matches.
func Any(preds ...Predicate) Predicate {
	return func(text string) bool {
		for _, p := range preds {
			if p(text) {
				return true
			}
		}
		return false
	}
}

func isSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
}
