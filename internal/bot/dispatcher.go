package bot

import (
	"fmt"

	apperrors "github.com/garyellow/kitaku-linebot-go/internal/errors"
	"github.com/garyellow/kitaku-linebot-go/internal/station"
)

// Dispatcher evaluates a rule table against inbound events.
// It is safe for concurrent use; the only shared state it touches is the
// station cache, which synchronizes itself.
type Dispatcher struct {
	table    *Table
	stations StationReader
	onMatch  func(rule string)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOnMatch registers a hook called once for every rule that contributed
// messages, including the fallback.
func WithOnMatch(fn func(rule string)) Option {
	return func(d *Dispatcher) {
		d.onMatch = fn
	}
}

// NewDispatcher creates a dispatcher over table, reading stations from the
// given cache. A nil cache behaves as one that was never set.
func NewDispatcher(table *Table, stations StationReader, opts ...Option) *Dispatcher {
	if stations == nil {
		stations = station.NewCache()
	}
	d := &Dispatcher{
		table:    table,
		stations: stations,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch returns the reply messages for event.
//
// Every conditional rule is evaluated in table order and each match appends
// its messages; matches are not exclusive. The fallback rule runs only when
// nothing else matched, so a text event always yields at least one message.
//
// Location events are not consumed by any rule and return
// ErrUnhandledEventKind.
func (d *Dispatcher) Dispatch(event InboundEvent) ([]Message, error) {
	if event.Kind != KindText {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnhandledEventKind, event.Kind)
	}

	var out []Message
	matched := false

	for _, r := range d.table.conditional() {
		if !r.Matcher.Match(event) {
			continue
		}
		matched = true
		out = append(out, r.Build(event, d.stations)...)
		d.notify(r.Name)
	}

	if !matched {
		fb := d.table.fallback()
		out = append(out, fb.Build(event, d.stations)...)
		d.notify(fb.Name)
	}

	return out, nil
}

func (d *Dispatcher) notify(rule string) {
	if d.onMatch != nil {
		d.onMatch(rule)
	}
}
