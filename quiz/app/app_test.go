package app

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/historybot/core/config"
	"github.com/m3rciful/historybot/quiz/dispatch"
	"github.com/m3rciful/historybot/quiz/lexicon"
)

type fakeContext struct {
	tele.Context
	userID int64
	store  map[string]interface{}
}

func newFake(userID int64) *fakeContext {
	return &fakeContext{userID: userID, store: map[string]interface{}{}}
}

func (f *fakeContext) Update() tele.Update             { return tele.Update{ID: 1} }
func (f *fakeContext) Sender() *tele.User              { return &tele.User{ID: f.userID} }
func (f *fakeContext) Chat() *tele.Chat                { return &tele.Chat{ID: f.userID} }
func (f *fakeContext) Get(key string) interface{}      { return f.store[key] }
func (f *fakeContext) Set(key string, val interface{}) { f.store[key] = val }

type delivery struct {
	mode   string
	text   string
	markup *tele.ReplyMarkup
}

func newTestApp(t *testing.T) (*App, *[]delivery) {
	t.Helper()
	a, err := New(&coreconfig.Config{}, lexicon.Default())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	var out []delivery
	a.send = func(_ tele.Context, text string, m *tele.ReplyMarkup) error {
		out = append(out, delivery{"send", text, m})
		return nil
	}
	a.edit = func(_ tele.Context, text string, m *tele.ReplyMarkup) error {
		out = append(out, delivery{"edit", text, m})
		return nil
	}
	return a, &out
}

func TestRegistersMenuTriggers(t *testing.T) {
	a, _ := newTestApp(t)
	menu := a.Registry().ListCommands()
	if len(menu) != 4 {
		t.Fatalf("menu = %+v", menu)
	}
	lex := lexicon.Default()
	for _, cmd := range menu {
		if cmd.Description != lex.Text("cmd_"+cmd.Text) {
			t.Fatalf("command %q has description %q", cmd.Text, cmd.Description)
		}
	}
	for _, d := range dispatch.Directions {
		if _, ok := a.Registry().GetCallback(d.ID); !ok {
			t.Fatalf("callback %q not registered", d.ID)
		}
	}
}

func TestDirectionFlow(t *testing.T) {
	a, out := newTestApp(t)
	lex := lexicon.Default()
	c := newFake(42)

	_, fill, _ := a.Registry().LookupCommand(dispatch.CmdFillDirection)
	if err := fill.Handler(c); err != nil {
		t.Fatal(err)
	}
	pick, _ := a.Registry().GetCallback("battles")
	if err := pick(c); err != nil {
		t.Fatal(err)
	}
	// a second pick has no edge from in_battles and is ignored
	if err := pick(c); err != nil {
		t.Fatal(err)
	}

	if len(*out) != 2 {
		t.Fatalf("deliveries = %+v", *out)
	}
	first, second := (*out)[0], (*out)[1]
	if first.mode != "send" || first.text != lex.Text(lexicon.KeyFillDirection) || len(first.markup.InlineKeyboard) != 4 {
		t.Fatalf("filldirection reply = %+v", first)
	}
	if second.mode != "edit" || second.text != lex.Text("chosen_battles") {
		t.Fatalf("direction reply = %+v", second)
	}
	btn := second.markup.InlineKeyboard[0][0]
	if btn.Data != dispatch.StartButtonID("battles") {
		t.Fatalf("start button data = %q", btn.Data)
	}
	if got := a.store.Get(42); got != dispatch.StateInBattles {
		t.Fatalf("state = %q", got)
	}

	_, cancel, _ := a.Registry().LookupCommand(dispatch.CmdCancel)
	_ = cancel.Handler(c)
	if got := a.store.Get(42); !got.IsDefault() {
		t.Fatalf("state after cancel = %q", got)
	}
}

func TestTelegramRunOptions(t *testing.T) {
	a, _ := newTestApp(t)
	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatal(err)
	}
	// four commands, the callback router and the text fallback
	if len(opts.Routes) != 6 {
		t.Fatalf("routes = %d", len(opts.Routes))
	}
	if opts.Config != a.CoreConfig() || opts.Registry != a.Registry() {
		t.Fatal("run options must carry the app config and registry")
	}
}
