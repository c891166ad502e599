package webhook

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/kitaku-linebot-go/internal/bot"
	"github.com/garyellow/kitaku-linebot-go/internal/lineutil"
)

// ApologyText is sent once when a reply could not be delivered.
const ApologyText = "エラーです"

// Render converts dispatcher output to LINE messages, preserving order.
// A location-request text gets a "send location" quick reply button.
func Render(messages []bot.Message) []messaging_api.MessageInterface {
	out := make([]messaging_api.MessageInterface, 0, len(messages))
	for _, msg := range messages {
		switch m := msg.(type) {
		case bot.TextMessage:
			if m.RequestLocation {
				out = append(out, lineutil.NewTextMessageWithQuickReply(m.Body, lineutil.QuickReplyLocationAction()))
			} else {
				out = append(out, lineutil.NewTextMessage(m.Body))
			}
		case bot.LocationMessage:
			out = append(out, lineutil.NewLocationMessage(m.Title, m.Address, m.Latitude, m.Longitude))
		}
	}
	return out
}

func apologyMessages() []messaging_api.MessageInterface {
	return []messaging_api.MessageInterface{lineutil.NewTextMessage(ApologyText)}
}
