package lineutil

// LINE API limits (rune counts).
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength   = 5000 // Text message content
	MaxLocationTitle       = 100  // Location message title
	MaxLocationAddress     = 100  // Location message address
	MaxQuickReplyItemCount = 13   // Items in a quick reply
	MaxQuickReplyLabel     = 20   // Quick reply action label
	MaxMessagesPerReply    = 5    // Messages in one reply call
)
