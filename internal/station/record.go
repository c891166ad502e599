// Package station holds the nearest-station record shared between the
// location lookup and the "nearby station" reply, plus the lookup client
// that fills it.
package station

// Record is one station as returned by the lookup service.
type Record struct {
	Name      string  `json:"name" validate:"required"`
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// DefaultRecord is served when no lookup has populated the cache yet.
// LINE rejects location messages with an empty title or address, so the
// placeholder carries text rather than zero values.
var DefaultRecord = Record{
	Name:      "最寄り駅がまだわかりません",
	Address:   "位置情報を送ると最寄り駅を調べます",
	Latitude:  0,
	Longitude: 0,
}
