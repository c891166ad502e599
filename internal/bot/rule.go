package bot

import (
	"fmt"

	apperrors "github.com/garyellow/kitaku-linebot-go/internal/errors"
	"github.com/garyellow/kitaku-linebot-go/internal/station"
)

// StationReader is the read side of the station cache.
type StationReader interface {
	Get() (station.Record, bool)
}

// BuildFunc produces the messages for a matched rule.
// It must be pure: same event and same cache contents, same output.
type BuildFunc func(event InboundEvent, stations StationReader) []Message

// Rule pairs a matcher with the messages it produces.
type Rule struct {
	Name    string
	Matcher Matcher
	Build   BuildFunc
}

// Table is an ordered, read-only list of rules whose last entry is the
// Always fallback.
type Table struct {
	rules []Rule
}

// NewTable validates and freezes rules.
// The table must end with exactly one Always rule so dispatch is total.
func NewTable(rules ...Rule) (*Table, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no rules", apperrors.ErrInvalidTable)
	}

	last := len(rules) - 1
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: rule %d has no name", apperrors.ErrInvalidTable, i)
		}
		if r.Matcher == nil || r.Build == nil {
			return nil, fmt.Errorf("%w: rule %q needs a matcher and a builder", apperrors.ErrInvalidTable, r.Name)
		}
		if isAlways(r.Matcher) != (i == last) {
			return nil, fmt.Errorf("%w: only the last rule may (and must) use Always, got %q at %d", apperrors.ErrInvalidTable, r.Name, i)
		}
	}

	frozen := make([]Rule, len(rules))
	copy(frozen, rules)
	return &Table{rules: frozen}, nil
}

// Names returns rule names in evaluation order.
func (t *Table) Names() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}

func (t *Table) conditional() []Rule {
	return t.rules[:len(t.rules)-1]
}

func (t *Table) fallback() Rule {
	return t.rules[len(t.rules)-1]
}
