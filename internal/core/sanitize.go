package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Action is what a rule does with each matched span.
type Action string

const (
	ActionMask    Action = "mask"
	ActionRemove  Action = "remove"
	ActionReplace Action = "replace"
)

// MaskToken replaces every masked span, whatever its length.
const MaskToken = "********"

// Rule is one pattern->action step of the sanitization pipeline.
type Rule struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Pattern     string `json:"pattern" yaml:"pattern" mapstructure:"pattern"`
	Action      Action `json:"action" yaml:"action" mapstructure:"action"`
	Replacement string `json:"replacement,omitempty" yaml:"replacement,omitempty" mapstructure:"replacement"`
	Enabled     bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Order       int    `json:"order" yaml:"order" mapstructure:"order"`
}

func (r Rule) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern
}

// RuleError reports a rule that was skipped because it could not be used.
type RuleError struct {
	Rule Rule
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("sanitization rule %q skipped: %v", e.Rule.label(), e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

type compiledRule struct {
	re   *regexp.Regexp
	with string
}

// Sanitizer applies an ordered rule set. A nil Sanitizer is the identity.
type Sanitizer struct {
	rules []compiledRule
}

// NewSanitizer compiles the enabled rules in ascending Order. Rules that
// cannot be compiled are left out and reported; the rest still apply.
func NewSanitizer(rules []Rule) (*Sanitizer, []error) {
	ordered := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	s := &Sanitizer{rules: make([]compiledRule, 0, len(ordered))}
	var problems []error
	for _, r := range ordered {
		if strings.TrimSpace(r.Pattern) == "" {
			problems = append(problems, &RuleError{Rule: r, Err: fmt.Errorf("empty pattern")})
			continue
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			problems = append(problems, &RuleError{Rule: r, Err: err})
			continue
		}
		var with string
		switch r.Action {
		case ActionMask:
			with = MaskToken
		case ActionRemove:
			with = ""
		case ActionReplace:
			with = r.Replacement
		default:
			problems = append(problems, &RuleError{Rule: r, Err: fmt.Errorf("unknown action %q", r.Action)})
			continue
		}
		s.rules = append(s.rules, compiledRule{re: re, with: with})
	}
	return s, problems
}

// Len returns the number of active rules.
func (s *Sanitizer) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Sanitize runs text through every active rule, each rule seeing the
// previous rule's output.
func (s *Sanitizer) Sanitize(text string) string {
	if s == nil {
		return text
	}
	for _, r := range s.rules {
		text = r.re.ReplaceAllLiteralString(text, r.with)
	}
	return text
}
