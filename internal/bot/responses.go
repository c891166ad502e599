package bot

import "github.com/garyellow/kitaku-linebot-go/internal/station"

// Rule names, also used as metric labels.
const (
	RuleFarewell      = "farewell"
	RuleThanks        = "thanks"
	RuleNearbyStation = "nearby_station"
	RuleFallback      = "fallback"
)

// Trigger phrases.
var (
	farewellPhrases = []string{"帰ります", "かえります", "帰る", "かえる", "帰宅します"}
	thanksPhrases   = []string{"ありがとう", "ありがとうございます", "サンキュー", "thanks"}
)

// StationRequestPhrase asks for the cached nearest station.
const StationRequestPhrase = "近くの駅を教えて"

// Reply bodies. Glyphs are part of the text and must not be altered.
const (
	FarewellText        = "お疲れ様でした！気をつけて帰ってね🏠"
	PromptText          = "最寄り駅を調べておきましょうか？"
	LocationRequestText = "下のボタンから位置情報を送ってね📍"
	ThanksText          = "どういたしまして😊"
	StationIntroText    = "ここが一番近い駅です🚉"
	StationHintText     = "地図をタップすると経路を確認できます🗺️"
	FallbackText        = "ちょっと何言ってるかわからない"
)

// DefaultRules returns the bot's rule list in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleFarewell, Matcher: ExactText(farewellPhrases...), Build: buildFarewell},
		{Name: RuleThanks, Matcher: ExactText(thanksPhrases...), Build: buildThanks},
		{Name: RuleNearbyStation, Matcher: ExactText(StationRequestPhrase), Build: buildNearbyStation},
		{Name: RuleFallback, Matcher: Always(), Build: buildFallback},
	}
}

// DefaultTable returns the validated default rule table.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRules()...)
	if err != nil {
		panic(err) // static table; a failure here is a programming error
	}
	return t
}

func buildFarewell(InboundEvent, StationReader) []Message {
	return []Message{
		TextMessage{Body: FarewellText},
		TextMessage{Body: PromptText},
		TextMessage{Body: LocationRequestText, RequestLocation: true},
	}
}

func buildThanks(InboundEvent, StationReader) []Message {
	return []Message{TextMessage{Body: ThanksText}}
}

func buildNearbyStation(_ InboundEvent, stations StationReader) []Message {
	rec, ok := stations.Get()
	if !ok {
		rec = station.DefaultRecord
	}
	return []Message{
		LocationMessage{
			Title:     rec.Name,
			Address:   rec.Address,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		},
		TextMessage{Body: StationIntroText},
		TextMessage{Body: StationHintText},
	}
}

func buildFallback(InboundEvent, StationReader) []Message {
	return []Message{TextMessage{Body: FallbackText}}
}
