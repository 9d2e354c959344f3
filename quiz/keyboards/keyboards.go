// Package keyboards builds the inline keyboards shown by the bot.
package keyboards

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/historybot/core/telegram/keyboard"
)

// Labeler resolves button labels; it must return the key itself when absent.
type Labeler interface {
	Text(key string) string
}

// Button is a single inline button. ID travels as callback data.
type Button struct {
	ID    string
	Label string
}

// Keyboard is an ordered list of button rows.
type Keyboard struct {
	Rows [][]Button
}

// Buttons returns all buttons in row order.
func (k Keyboard) Buttons() []Button {
	var out []Button
	for _, row := range k.Rows {
		out = append(out, row...)
	}
	return out
}

// BuildInline lays out ids left to right, wrapping every width buttons.
// A width below 1 is treated as 1.
func BuildInline(lex Labeler, width int, ids ...string) Keyboard {
	buttons := make([]Button, 0, len(ids))
	for _, id := range ids {
		label := id
		if lex != nil {
			label = lex.Text(id)
		}
		buttons = append(buttons, Button{ID: id, Label: label})
	}
	return Layout(width, buttons...)
}

// Layout arranges buttons with explicit labels left to right, wrapping every
// width buttons. Labels are used as given; a width below 1 is treated as 1.
func Layout(width int, buttons ...Button) Keyboard {
	return Keyboard{Rows: keyboard.Chunk(buttons, width)}
}

// Markup converts k to telebot inline markup. A nil keyboard yields nil.
func Markup(k *Keyboard) *tele.ReplyMarkup {
	if k == nil {
		return nil
	}
	rows := make([][]keyboard.InlineBtn, len(k.Rows))
	for i, row := range k.Rows {
		r := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			r[j] = keyboard.InlineBtn{Text: b.Label, Data: b.ID}
		}
		rows[i] = r
	}
	return keyboard.InlineButtonsRows(rows...)
}
