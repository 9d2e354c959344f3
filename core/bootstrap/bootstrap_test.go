package bootstrap

import (
	"errors"
	"strings"
	"testing"

	coreconfig "github.com/m3rciful/historybot/core/config"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunExecutesStepsInOrder(t *testing.T) {
	var order []string
	err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Steps: []Step{
			{Name: "a", Run: func() error { order = append(order, "a"); return nil }},
			{Name: "skip"},
			{Name: "b", Run: func() error { order = append(order, "b"); return nil }},
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Join(order, ",") != "a,b" {
		t.Fatalf("order = %v", order)
	}
}

func TestRunStopsAtFailure(t *testing.T) {
	boom := errors.New("boom")
	called := false
	err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Steps: []Step{
			{Name: "lexicon", Run: func() error { return boom }},
			{Name: "after", Run: func() error { called = true; return nil }},
		},
	})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "lexicon") {
		t.Fatalf("err = %v", err)
	}
	if called {
		t.Fatal("steps after a failure must not run")
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
	if err := Run(Options{Config: &coreconfig.Config{}, LoggerInit: func(*coreconfig.Config) error { return errors.New("x") }}); err == nil {
		t.Fatal("expected logger init error")
	}
}
