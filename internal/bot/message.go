package bot

// Message is an outbound message specification.
// It is either a TextMessage or a LocationMessage.
type Message interface {
	isMessage()
}

// TextMessage is a plain text reply.
// RequestLocation marks the message as a prompt for the user's location;
// the sink renders it with a "send location" quick reply button.
type TextMessage struct {
	Body            string
	RequestLocation bool
}

// LocationMessage is a map pin reply.
type LocationMessage struct {
	Title     string
	Address   string
	Latitude  float64
	Longitude float64
}

func (TextMessage) isMessage()     {}
func (LocationMessage) isMessage() {}
