package telegram

import (
	"testing"

	coreconfig "github.com/m3rciful/historybot/core/config"
)

func middlewareNames(mws []Middleware) []string {
	names := make([]string, 0, len(mws))
	for _, mw := range mws {
		names = append(names, mw.Name)
	}
	return names
}

func TestDefaultMiddlewares(t *testing.T) {
	cases := []struct {
		name string
		cfg  *coreconfig.Config
		want []string
	}{
		{"nil config", nil, []string{"recover", "logger", "metrics"}},
		{"no rate limit", &coreconfig.Config{}, []string{"recover", "logger", "metrics"}},
		{"rate limit", &coreconfig.Config{RateLimit: coreconfig.RateLimitConfig{IntervalMS: 300}}, []string{"recover", "rate_limit", "logger", "metrics"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := middlewareNames(DefaultMiddlewares(tc.cfg, nil))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}
