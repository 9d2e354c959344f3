package telegram

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("/start", Command{Handler: noop, Description: "start"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCommand("/debug", Command{Handler: noop, Description: "debug"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCommand("/start", Command{Handler: noop, Description: "again"}); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.RegisterCommand("help", Command{Handler: noop, Description: "help"}); err == nil {
		t.Fatal("expected slash prefix error")
	}
	if err := reg.RegisterCommand("/empty", Command{Handler: noop}); err == nil {
		t.Fatal("expected description error")
	}

	if key, _, ok := reg.LookupCommand("start"); !ok || key != "/start" {
		t.Fatalf("lookup = %q %v", key, ok)
	}

	if _, _, ok := reg.LookupCommand("/Start"); ok {
		t.Fatal("lookup must be case-sensitive")
	}

	menu := reg.ListCommands()
	if len(menu) != 2 || menu[0].Text != "debug" || menu[1].Text != "start" {
		t.Fatalf("menu = %+v", menu)
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("battles", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("battles", noop); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.RegisterCallback("", noop); err == nil {
		t.Fatal("expected invalid key error")
	}
	if _, ok := reg.GetCallback("battles"); !ok {
		t.Fatal("callback not found")
	}
	if _, ok := reg.GetCallback("missing"); ok {
		t.Fatal("unexpected callback")
	}
	_ = reg.RegisterCallback("reforms", noop)
	if got := reg.ListCallbacks(); len(got) != 2 || got[0] != "battles" || got[1] != "reforms" {
		t.Fatalf("callbacks = %v", got)
	}
}

type fakeSetter struct {
	got []tele.Command
	err error
}

func (f *fakeSetter) SetCommands(opts ...interface{}) error {
	if len(opts) > 0 {
		f.got, _ = opts[0].([]tele.Command)
	}
	return f.err
}

func TestSetupCommands(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/help", Command{Handler: noop, Description: "help"})
	_ = reg.RegisterCommand("/cancel", Command{Handler: noop, Description: "cancel"})

	fs := &fakeSetter{}
	if err := SetupCommands(fs, reg); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if len(fs.got) != 2 || fs.got[0].Text != "cancel" {
		t.Fatalf("published = %+v", fs.got)
	}

	fs = &fakeSetter{err: errors.New("boom")}
	if err := SetupCommands(fs, reg); err == nil {
		t.Fatal("expected error")
	}
}
