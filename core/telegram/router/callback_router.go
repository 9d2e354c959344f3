package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/historybot/core/telegram"
	"github.com/m3rciful/historybot/core/telegram/callbacks"
)

// CallbackRoute returns the generic OnCallback handler that routes by key
// through the registry. Every callback query is answered so the client
// clears its progress indicator; unknown keys are skipped silently.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		_ = c.Respond()

		key := callbacks.Key(cb)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		if h, ok := reg.GetCallback(key); ok && h != nil {
			return handleWithSummary(c, name, func() error { return h(c) }, extras...)
		}
		extras = append(extras, slog.String("reason", "not_found"))
		logHandlerSummary(c, name, time.Now(), statusSkip, nil, extras...)
		return nil
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
