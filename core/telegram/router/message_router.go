package router

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/historybot/core/telegram"
)

// TextRoute handles text that matched no command endpoint. A leading token
// naming a registered command exactly ("/cmd args", "/cmd@bot") is routed
// there; matching is case-sensitive and everything else is skipped.
func TextRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		if reg != nil {
			if tok := commandToken(c.Text()); tok != "" {
				if _, cmd, ok := reg.LookupCommand(tok); ok && cmd.Handler != nil {
					return handleWithSummary(c, "command."+normalizeHandlerName(tok), func() error {
						return cmd.Handler(c)
					})
				}
			}
		}
		logHandlerSummary(c, "unknown_text", time.Now(), statusSkip, nil)
		return nil
	}
	return tg.Route{Endpoint: tele.OnText, Handler: handler}
}

// commandToken extracts "/cmd" from "/cmd@bot args"; non-commands yield "".
func commandToken(text string) string {
	if len(text) < 2 || text[0] != '/' {
		return ""
	}
	end := len(text)
	for i, r := range text {
		if r == ' ' || r == '@' || r == '\n' {
			end = i
			break
		}
	}
	if end < 2 {
		return ""
	}
	return text[:end]
}
