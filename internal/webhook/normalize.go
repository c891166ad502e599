package webhook

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/garyellow/kitaku-linebot-go/internal/bot"
	"github.com/garyellow/kitaku-linebot-go/internal/errors"
)

// eventMeta carries the tracing fields of a LINE event.
type eventMeta struct {
	EventID      string
	Timestamp    int64
	IsRedelivery bool
	UserID       string
	ChatID       string
}

// Normalize maps a LINE event to an InboundEvent. Text and location messages
// with a reply token are mapped; everything else returns an error wrapping
// errors.ErrInvalidInput. Text is passed through untouched.
func Normalize(event webhook.EventInterface) (bot.InboundEvent, error) {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return bot.InboundEvent{}, fmt.Errorf("%w: event type %T", errors.ErrInvalidInput, event)
	}
	if e.ReplyToken == "" {
		return bot.InboundEvent{}, fmt.Errorf("%w: missing reply token", errors.ErrInvalidInput)
	}

	switch m := e.Message.(type) {
	case webhook.TextMessageContent:
		return bot.NewTextEvent(m.Text, e.ReplyToken), nil
	case webhook.LocationMessageContent:
		return bot.NewLocationEvent(m.Latitude, m.Longitude, e.ReplyToken), nil
	default:
		return bot.InboundEvent{}, fmt.Errorf("%w: message type %T", errors.ErrInvalidInput, e.Message)
	}
}

func extractMeta(event webhook.EventInterface) eventMeta {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return eventMeta{}
	}
	meta := eventMeta{
		EventID:   e.WebhookEventId,
		Timestamp: e.Timestamp,
		UserID:    userID(e.Source),
		ChatID:    chatID(e.Source),
	}
	if e.DeliveryContext != nil {
		meta.IsRedelivery = e.DeliveryContext.IsRedelivery
	}
	return meta
}

// eventType labels metrics and logs.
func eventType(event webhook.EventInterface) string {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return "unknown"
	}
	switch e.Message.(type) {
	case webhook.TextMessageContent:
		return bot.KindText.String()
	case webhook.LocationMessageContent:
		return bot.KindLocation.String()
	default:
		return "unknown"
	}
}
