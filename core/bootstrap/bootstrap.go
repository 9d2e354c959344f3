package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/historybot/core/config"
	"github.com/m3rciful/historybot/core/logger"
)

// Step is a named initialization action run after the logger is ready.
type Step struct {
	Name string
	Run  func() error
}

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Steps      []Step
}

// Run initializes the logger and then executes the steps in order,
// stopping at the first failure.
func Run(opts Options) error {
	if opts.Config == nil {
		return fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	for _, step := range opts.Steps {
		if step.Run == nil {
			continue
		}
		start := time.Now()
		if err := step.Run(); err != nil {
			return fmt.Errorf("bootstrap: %s failed: %w", step.Name, err)
		}
		logger.Info(context.Background(), "app", "bootstrap.step",
			slog.String("step", step.Name),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
	}
	return nil
}
