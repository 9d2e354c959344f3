// Package dispatch routes user events through the conversation state machine.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/m3rciful/historybot/core/logger"
	"github.com/m3rciful/historybot/core/telegram/state"
	"github.com/m3rciful/historybot/quiz/keyboards"
)

// Event is a single inbound command or callback from a user.
type Event struct {
	UserID int64
	ChatID int64
	Trigger
}

// Mode tells the transport how to deliver a reply.
type Mode int

const (
	// ModeSend posts a new message.
	ModeSend Mode = iota
	// ModeEdit replaces the message the callback button belongs to.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "send"
}

// Reply is what the bot answers with.
type Reply struct {
	Mode     Mode
	Text     string
	Keyboard *keyboards.Keyboard
}

// Dispatcher applies table transitions to the state store.
type Dispatcher struct {
	store state.Manager
	table *Table
}

// New wires a dispatcher over an explicit table.
func New(store state.Manager, table *Table) *Dispatcher {
	return &Dispatcher{store: store, table: table}
}

// Triggers exposes the triggers the table reacts to.
func (d *Dispatcher) Triggers() []Trigger {
	return d.table.Triggers()
}

// Dispatch handles ev. It reports false, with no reply and no state change,
// when the user's current state has no edge for ev.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (Reply, bool) {
	var (
		reply   Reply
		matched bool
		from    state.State
		name    string
	)
	to := d.store.Update(ev.UserID, func(current state.State) state.State {
		from = current
		tr, ok := d.table.Lookup(current, ev.Trigger)
		if !ok {
			return current
		}
		matched = true
		name = tr.Name
		reply = tr.Reply(ev)
		return tr.Next
	})

	if !matched {
		logger.Debug(ctx, "dispatch", "dispatch.skip",
			slog.String("status", "skip"),
			slog.String("trigger", ev.Trigger.String()),
			slog.String("state", string(from)),
		)
		return Reply{}, false
	}

	logger.Debug(ctx, "dispatch", "fsm.transition",
		slog.String("status", "ok"),
		slog.String("op", name),
		slog.String("trigger", ev.Trigger.String()),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("mode", reply.Mode.String()),
	)
	return reply, true
}
