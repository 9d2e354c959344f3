package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/historybot/core/config"
	coretelegram "github.com/m3rciful/historybot/core/telegram"
)

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("HB_CONFIG", "")

	got, err := ResolveConfigPath([]string{"--config", "/etc/flag.yaml"}, "HB_CONFIG", "default.yaml")
	if err != nil || got != "/etc/flag.yaml" {
		t.Fatalf("flag: got %q %v", got, err)
	}
	got, _ = ResolveConfigPath([]string{"-c", "short.yaml"}, "HB_CONFIG", "")
	if got != "short.yaml" {
		t.Fatalf("short flag: got %q", got)
	}
	if got, _ = ResolveConfigPath(nil, "HB_CONFIG", "default.yaml"); got != "default.yaml" {
		t.Fatalf("default: got %q", got)
	}

	t.Setenv("HB_CONFIG", "/env.yaml")
	if got, _ = ResolveConfigPath([]string{}, "HB_CONFIG", "default.yaml"); got != "/env.yaml" {
		t.Fatalf("env: got %q", got)
	}
	if got, _ = ResolveConfigPath([]string{"--config=x.yaml"}, "HB_CONFIG", ""); got != "x.yaml" {
		t.Fatalf("flag over env: got %q", got)
	}

	t.Setenv("HB_CONFIG", "")
	if _, err := ResolveConfigPath(nil, "HB_CONFIG", ""); err == nil {
		t.Fatal("expected error when nothing is provided")
	}
	if _, err := ResolveConfigPath([]string{"--unknown"}, "HB_CONFIG", "d"); err == nil {
		t.Fatal("expected flag parse error")
	}
}

type stubApp struct{ opts coretelegram.RunOptions }

func (s stubApp) TelegramRunOptions() (coretelegram.RunOptions, error) { return s.opts, nil }

func TestRunWiresLifecycleHooks(t *testing.T) {
	cfg := &coreconfig.Config{}
	var started, stopped, loggerClosed bool
	err := Run(Options{
		Args: []string{"--config", "bot.yaml"},
		LoadConfig: func(path string) (ConfigCarrier, error) {
			if path != "bot.yaml" {
				t.Fatalf("path = %q", path)
			}
			return cfg, nil
		},
		Bootstrap: func(ConfigCarrier) (TelegramApp, error) {
			return stubApp{opts: coretelegram.RunOptions{
				Config:  cfg,
				OnStart: func(context.Context, coretelegram.Runtime) error { started = true; return nil },
				OnStop:  func(context.Context, coretelegram.Runtime) error { stopped = true; return nil },
			}}, nil
		},
		ShutdownLogger: func() error { loggerClosed = true; return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !started || !stopped || !loggerClosed {
		t.Fatalf("started=%v stopped=%v loggerClosed=%v", started, stopped, loggerClosed)
	}
}

func TestRunPropagatesBootstrapError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(Options{
		Args:       []string{"-c", "x.yaml"},
		LoadConfig: func(string) (ConfigCarrier, error) { return &coreconfig.Config{}, nil },
		Bootstrap:  func(ConfigCarrier) (TelegramApp, error) { return nil, boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
