// Package bot implements the rule table and dispatcher that turn one
// normalized inbound event into an ordered list of reply messages.
//
// The package is platform-neutral: it neither parses webhooks nor sends
// replies. See internal/webhook for both ends.
package bot

// EventKind discriminates the payload carried by an InboundEvent.
type EventKind int

// Event kinds.
const (
	KindText EventKind = iota + 1
	KindLocation
)

func (k EventKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLocation:
		return "location"
	default:
		return "unknown"
	}
}

// InboundEvent is one webhook occurrence after normalization.
// Exactly one of Text or {Latitude, Longitude} is meaningful, matching Kind.
// Text is kept exactly as the user typed it.
type InboundEvent struct {
	Kind        EventKind
	Text        string
	Latitude    float64
	Longitude   float64
	ReplyTarget string // opaque; passed through to the sink
}

// NewTextEvent creates a text event.
func NewTextEvent(text, replyTarget string) InboundEvent {
	return InboundEvent{Kind: KindText, Text: text, ReplyTarget: replyTarget}
}

// NewLocationEvent creates a location event.
func NewLocationEvent(latitude, longitude float64, replyTarget string) InboundEvent {
	return InboundEvent{
		Kind:        KindLocation,
		Latitude:    latitude,
		Longitude:   longitude,
		ReplyTarget: replyTarget,
	}
}
