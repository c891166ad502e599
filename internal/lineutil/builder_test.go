package lineutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short", "駅", 5, "駅"},
		{"exact", "かえります", 5, "かえります"},
		{"cut multibyte", "お疲れ様でした", 5, "お疲..."},
		{"tiny max", "ありがとう", 2, "あり"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TruncateRunes(tt.text, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestNewTextMessage(t *testing.T) {
	t.Parallel()

	msg := NewTextMessage("どういたしまして😊")
	assert.Equal(t, "どういたしまして😊", msg.Text)
	assert.Nil(t, msg.QuickReply)

	long := NewTextMessage(strings.Repeat("駅", MaxTextMessageLength+10))
	assert.Equal(t, MaxTextMessageLength, utf8.RuneCountInString(long.Text))
}

func TestNewLocationMessage(t *testing.T) {
	t.Parallel()

	msg := NewLocationMessage("新宿駅", "東京都 JR山手線", 35.690921, 139.700258)
	assert.Equal(t, "新宿駅", msg.Title)
	assert.Equal(t, "東京都 JR山手線", msg.Address)
	assert.InDelta(t, 35.690921, msg.Latitude, 1e-9)
	assert.InDelta(t, 139.700258, msg.Longitude, 1e-9)

	long := NewLocationMessage(strings.Repeat("あ", 150), strings.Repeat("い", 150), 0, 0)
	assert.Equal(t, MaxLocationTitle, utf8.RuneCountInString(long.Title))
	assert.Equal(t, MaxLocationAddress, utf8.RuneCountInString(long.Address))
}

func TestNewTextMessageWithQuickReply(t *testing.T) {
	t.Parallel()

	msg := NewTextMessageWithQuickReply("下のボタンから位置情報を送ってね📍", QuickReplyLocationAction())
	require.NotNil(t, msg.QuickReply)
	require.Len(t, msg.QuickReply.Items, 1)

	action, ok := msg.QuickReply.Items[0].Action.(*messaging_api.LocationAction)
	require.True(t, ok, "expected a LocationAction, got %T", msg.QuickReply.Items[0].Action)
	assert.Equal(t, "位置情報を送る", action.Label)

	plain := NewTextMessageWithQuickReply("no items")
	assert.Nil(t, plain.QuickReply)
}

func TestNewQuickReply_Cap(t *testing.T) {
	t.Parallel()

	items := make([]QuickReplyItem, 20)
	for i := range items {
		items[i] = QuickReplyLocationAction()
	}
	assert.Len(t, NewQuickReply(items).Items, MaxQuickReplyItemCount)
}

func TestTruncateMessages(t *testing.T) {
	t.Parallel()

	msgs := make([]messaging_api.MessageInterface, 7)
	for i := range msgs {
		msgs[i] = NewTextMessage("x")
	}

	assert.Len(t, TruncateMessages(msgs, MaxMessagesPerReply), 5)
	assert.Len(t, TruncateMessages(msgs[:3], MaxMessagesPerReply), 3)
	assert.Len(t, TruncateMessages(msgs, 0), 7)
}
