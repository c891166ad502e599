// Package lineutil builds LINE Messaging API message objects.
package lineutil

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// QuickReplyItem represents an item in a quick reply.
type QuickReplyItem struct {
	ImageURL string
	Action   messaging_api.ActionInterface
}

// NewTextMessage creates a text message, truncated to the LINE limit.
func NewTextMessage(text string) *messaging_api.TextMessage {
	return &messaging_api.TextMessage{
		Text: TruncateRunes(text, MaxTextMessageLength),
	}
}

// NewLocationMessage creates a map pin. Title and address are truncated to
// LINE limits.
func NewLocationMessage(title, address string, latitude, longitude float64) *messaging_api.LocationMessage {
	return &messaging_api.LocationMessage{
		Title:     TruncateRunes(title, MaxLocationTitle),
		Address:   TruncateRunes(address, MaxLocationAddress),
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// NewLocationAction opens the location picker in the LINE app.
func NewLocationAction(label string) messaging_api.ActionInterface {
	return &messaging_api.LocationAction{
		Label: TruncateRunes(label, MaxQuickReplyLabel),
	}
}

// QuickReplyLocationAction is the "send location" quick reply button.
func QuickReplyLocationAction() QuickReplyItem {
	return QuickReplyItem{Action: NewLocationAction("位置情報を送る")}
}

// NewQuickReply creates a quick reply component, keeping at most 13 items.
func NewQuickReply(items []QuickReplyItem) *messaging_api.QuickReply {
	if len(items) > MaxQuickReplyItemCount {
		items = items[:MaxQuickReplyItemCount]
	}

	quickReplyItems := make([]messaging_api.QuickReplyItem, len(items))
	for i, item := range items {
		quickReplyItems[i] = messaging_api.QuickReplyItem{
			ImageUrl: item.ImageURL,
			Action:   item.Action,
		}
	}

	return &messaging_api.QuickReply{
		Items: quickReplyItems,
	}
}

// NewTextMessageWithQuickReply creates a text message with quick reply items.
func NewTextMessageWithQuickReply(text string, items ...QuickReplyItem) *messaging_api.TextMessage {
	msg := NewTextMessage(text)
	if len(items) > 0 {
		msg.QuickReply = NewQuickReply(items)
	}
	return msg
}

// TruncateMessages keeps the first max messages. LINE rejects the whole
// reply when it carries more than five.
func TruncateMessages(messages []messaging_api.MessageInterface, max int) []messaging_api.MessageInterface {
	if max <= 0 || len(messages) <= max {
		return messages
	}
	return messages[:max]
}

// TruncateRunes truncates text by rune count, ending with "..." when cut.
func TruncateRunes(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
