package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/historybot/core/logger"
	"github.com/m3rciful/historybot/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := globalDispatcher.Load()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends plain text with optional inline markup to the current chat.
func SendText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if markup != nil {
			return c.Send(text, markup)
		}
		return c.Send(text)
	})
}

// EditText replaces the text and markup of the message the callback came from.
func EditText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return sendAsync(c, "edit.text", "editMessageText", func() error {
		if markup != nil {
			return c.Edit(text, markup)
		}
		return c.Edit(text)
	})
}
