package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes an inline button whose callback data is sent verbatim.
type InlineBtn struct {
	Text string
	Data string
}

// Chunk splits a flat list into rows with up to n items per row, preserving order.
// If n <= 1, every item gets its own row.
func Chunk[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	rows := make([][]T, 0, (len(items)+n-1)/n)
	for i := 0; i < len(items); i += n {
		end := min(i+n, len(items))
		row := make([]T, end-i)
		copy(row, items[i:end])
		rows = append(rows, row)
	}
	return rows
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
// Buttons carry no telebot unique prefix, so the raw Data reaches OnCallback.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Data}
		}
		inline[i] = r
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// InlineButtonsNPerRow splits a flat list of buttons into rows with up to n buttons per row.
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	return InlineButtonsRows(Chunk(buttons, n)...)
}
