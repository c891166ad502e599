package bot

import (
	"fmt"
	"regexp"
)

// Matcher decides whether a rule applies to an event.
// All matchers in this package only ever match text events.
type Matcher interface {
	Match(event InboundEvent) bool
}

type exactText struct {
	literals map[string]struct{}
}

// ExactText matches when the event text equals one of literals.
// Comparison is byte-for-byte: no trimming, no case folding.
func ExactText(literals ...string) Matcher {
	set := make(map[string]struct{}, len(literals))
	for _, l := range literals {
		set[l] = struct{}{}
	}
	return exactText{literals: set}
}

func (m exactText) Match(event InboundEvent) bool {
	if event.Kind != KindText {
		return false
	}
	_, ok := m.literals[event.Text]
	return ok
}

type patternText struct {
	re *regexp.Regexp
}

// PatternText matches when the event text contains a match of pattern.
// Anchor the pattern (^...$) to require a whole-text match.
func PatternText(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return patternText{re: re}, nil
}

// MustPatternText is like PatternText but panics on an invalid pattern.
// Intended for tables built from literals at startup.
func MustPatternText(pattern string) Matcher {
	m, err := PatternText(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func (m patternText) Match(event InboundEvent) bool {
	return event.Kind == KindText && m.re.MatchString(event.Text)
}

type always struct{}

// Always matches every text event. It marks the terminal fallback rule.
func Always() Matcher {
	return always{}
}

func (always) Match(event InboundEvent) bool {
	return event.Kind == KindText
}

func isAlways(m Matcher) bool {
	_, ok := m.(always)
	return ok
}
