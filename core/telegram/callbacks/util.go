package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData splits callback data into key and payload.
// Telebot-encoded data ("\f<unique>|<payload>") is unpacked; raw data
// without the prefix is returned as the key unchanged.
func ParseCallbackData(data string) (string, string) {
	if !strings.HasPrefix(data, "\f") {
		return data, ""
	}
	key, payload, _ := strings.Cut(strings.TrimPrefix(data, "\f"), "|")
	return strings.TrimSpace(key), payload
}

// Key resolves the routing key of a callback.
func Key(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	k, _ := ParseCallbackData(cb.Data)
	return k
}
