package dispatch

import (
	"github.com/m3rciful/historybot/core/telegram/state"
	"github.com/m3rciful/historybot/quiz/keyboards"
	"github.com/m3rciful/historybot/quiz/lexicon"
)

// Conversation states of the direction menu.
const (
	StateDefault           = state.StateDefault
	StateAwaitingDirection state.State = "awaiting_direction"
	StateInTimeBoards      state.State = "in_time_boards"
	StateInBattles         state.State = "in_battles"
	StateInWarsAndRiot     state.State = "in_wars_and_riot"
	StateInReforms         state.State = "in_reforms"
)

// Commands understood by the bot.
const (
	CmdStart         = "/start"
	CmdHelp          = "/help"
	CmdCancel        = "/cancel"
	CmdFillDirection = "/filldirection"
)

// Direction is a quiz topic the user can pick.
type Direction struct {
	// ID is the callback payload of the choice button.
	ID    string
	State state.State
}

// Directions in the order they are offered.
var Directions = []Direction{
	{ID: "time_boards", State: StateInTimeBoards},
	{ID: "battles", State: StateInBattles},
	{ID: "wars_and_riot", State: StateInWarsAndRiot},
	{ID: "reforms", State: StateInReforms},
}

// ActiveStates lists every state other than default.
func ActiveStates() []state.State {
	out := []state.State{StateAwaitingDirection}
	for _, d := range Directions {
		out = append(out, d.State)
	}
	return out
}

// StartButtonID is the id of the single button shown after a direction is chosen.
func StartButtonID(direction string) string { return "go_start_" + direction }

func chosenTextKey(direction string) string { return "chosen_" + direction }

type menuRow struct {
	trigger Trigger
	tr      Transition
	from    []state.State
}

// NewMenuTable builds the direction menu machine.
func NewMenuTable(lex *lexicon.Lexicon) (*Table, error) {
	send := func(key string) func(Event) Reply {
		return func(Event) Reply { return Reply{Mode: ModeSend, Text: lex.Text(key)} }
	}
	ids := make([]string, len(Directions))
	for i, d := range Directions {
		ids[i] = d.ID
	}

	rows := []menuRow{
		{Command(CmdStart), Transition{Name: "start", Next: StateDefault, Reply: send(lexicon.KeyStart)}, []state.State{StateDefault}},
		{Command(CmdHelp), Transition{Name: "help", Next: StateDefault, Reply: send(lexicon.KeyHelp)}, []state.State{StateDefault}},
		{Command(CmdCancel), Transition{Name: "cancel.idle", Next: StateDefault, Reply: send(lexicon.KeyCancelIdle)}, []state.State{StateDefault}},
		{Command(CmdCancel), Transition{Name: "cancel", Next: StateDefault, Reply: send(lexicon.KeyCancelExited)}, ActiveStates()},
		{Command(CmdFillDirection), Transition{
			Name: "filldirection",
			Next: StateAwaitingDirection,
			Reply: func(Event) Reply {
				kb := keyboards.BuildInline(lex, 1, ids...)
				return Reply{Mode: ModeSend, Text: lex.Text(lexicon.KeyFillDirection), Keyboard: &kb}
			},
		}, []state.State{StateDefault}},
	}

	for _, d := range Directions {
		id := d.ID
		rows = append(rows, menuRow{
			Callback(id),
			Transition{
				Name: "direction." + id,
				Next: d.State,
				Reply: func(Event) Reply {
					kb := keyboards.BuildInline(lex, 1, StartButtonID(id))
					return Reply{Mode: ModeEdit, Text: lex.Text(chosenTextKey(id)), Keyboard: &kb}
				},
			},
			[]state.State{StateAwaitingDirection},
		})
	}

	t := NewTable()
	for _, r := range rows {
		if err := t.Add(r.trigger, r.tr, r.from...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewMenu returns a dispatcher over the direction menu machine.
func NewMenu(store state.Manager, lex *lexicon.Lexicon) (*Dispatcher, error) {
	table, err := NewMenuTable(lex)
	if err != nil {
		return nil, err
	}
	return New(store, table), nil
}
