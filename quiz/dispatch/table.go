package dispatch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/m3rciful/historybot/core/telegram/state"
)

// ErrDuplicateTransition is returned when a (state, trigger) pair is added twice.
var ErrDuplicateTransition = errors.New("dispatch: duplicate transition")

// Kind distinguishes command messages from callback presses.
type Kind int

const (
	// KindCommand is a slash command such as /start.
	KindCommand Kind = iota + 1
	// KindCallback is an inline button press carrying an opaque id.
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// Trigger names an inbound event independently of who sent it.
type Trigger struct {
	Kind Kind
	Name string
}

// Command returns a command trigger; name keeps its leading slash.
func Command(name string) Trigger { return Trigger{Kind: KindCommand, Name: name} }

// Callback returns a callback trigger for an inline button id.
func Callback(id string) Trigger { return Trigger{Kind: KindCallback, Name: id} }

func (t Trigger) String() string { return t.Kind.String() + ":" + t.Name }

// Transition is one edge of the conversation machine.
type Transition struct {
	// Name identifies the handler in logs.
	Name string
	Next state.State
	// Reply builds the response; it must not block.
	Reply func(ev Event) Reply
}

type edge struct {
	from    state.State
	trigger Trigger
}

// Table maps (state, trigger) pairs to transitions.
type Table struct {
	edges map[edge]Transition
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{edges: make(map[edge]Transition)}
}

// Add registers tr for every state in from.
func (t *Table) Add(trigger Trigger, tr Transition, from ...state.State) error {
	if tr.Reply == nil {
		return fmt.Errorf("dispatch: transition %q has no reply", tr.Name)
	}
	for _, st := range from {
		e := edge{from: normalize(st), trigger: trigger}
		if _, exists := t.edges[e]; exists {
			return fmt.Errorf("%w: %s in %s", ErrDuplicateTransition, trigger, e.from)
		}
		t.edges[e] = tr
	}
	return nil
}

// Lookup finds the transition for trigger in state st.
func (t *Table) Lookup(st state.State, trigger Trigger) (Transition, bool) {
	tr, ok := t.edges[edge{from: normalize(st), trigger: trigger}]
	return tr, ok
}

// Triggers lists every distinct trigger in the table, commands first, then by name.
func (t *Table) Triggers() []Trigger {
	seen := make(map[Trigger]struct{}, len(t.edges))
	out := make([]Trigger, 0, len(t.edges))
	for e := range t.edges {
		if _, ok := seen[e.trigger]; ok {
			continue
		}
		seen[e.trigger] = struct{}{}
		out = append(out, e.trigger)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func normalize(st state.State) state.State {
	if st.IsDefault() {
		return state.StateDefault
	}
	return st
}
