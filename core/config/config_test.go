package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "123:abc", RunMode: "Polling"}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Logging.MaxSizeMB != 50 || cfg.Logging.MaxBackups != 3 || cfg.Logging.MaxAgeDays != 30 {
		t.Fatalf("unexpected rotation defaults: %+v", cfg.Logging)
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{name: "missing token", cfg: Config{}},
		{name: "unknown run mode", cfg: Config{Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}}},
		{name: "webhook without url", cfg: Config{Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook}}},
		{name: "negative timeout", cfg: Config{Telegram: TelegramConfig{Token: "t", LongPollTimeoutSeconds: -1}}},
		{name: "bad exclude", cfg: Config{
			Telegram:  TelegramConfig{Token: "t"},
			RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline_query"}},
		}},
		{name: "negative retries", cfg: Config{
			Telegram: TelegramConfig{Token: "t"},
			Sender:   SenderConfig{MaxRetries: -2},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			if err := Normalize(&cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("telegram:\n  token: from-file\nlexicon:\n  path: ' texts.yaml '\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q, want env override", cfg.Telegram.Token)
	}
	if cfg.Lexicon.Path != "texts.yaml" {
		t.Fatalf("lexicon path = %q", cfg.Lexicon.Path)
	}
	if cfg.CoreConfig() != cfg {
		t.Fatal("CoreConfig should return the receiver")
	}
}
