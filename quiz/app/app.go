// Package app binds the direction menu to the Telegram runtime.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/historybot/core/bootstrap"
	corecmd "github.com/m3rciful/historybot/core/cmd"
	coreconfig "github.com/m3rciful/historybot/core/config"
	"github.com/m3rciful/historybot/core/logger"
	coretelegram "github.com/m3rciful/historybot/core/telegram"
	tghelpers "github.com/m3rciful/historybot/core/telegram/helpers"
	"github.com/m3rciful/historybot/core/telegram/router"
	"github.com/m3rciful/historybot/core/telegram/state"
	"github.com/m3rciful/historybot/quiz/dispatch"
	"github.com/m3rciful/historybot/quiz/keyboards"
	"github.com/m3rciful/historybot/quiz/lexicon"
)

type renderFunc func(c tele.Context, text string, markup *tele.ReplyMarkup) error

// App owns the bot's domain components.
type App struct {
	cfg   *coreconfig.Config
	lex   *lexicon.Lexicon
	store state.Manager
	menu  *dispatch.Dispatcher
	reg   *coretelegram.Registry

	send renderFunc
	edit renderFunc
}

// New assembles the app around an already loaded lexicon.
func New(cfg *coreconfig.Config, lex *lexicon.Lexicon) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	store := state.NewMemoryManager()
	menu, err := dispatch.NewMenu(store, lex)
	if err != nil {
		return nil, fmt.Errorf("app: build menu: %w", err)
	}

	a := &App{
		cfg:   cfg,
		lex:   lex,
		store: store,
		menu:  menu,
		reg:   coretelegram.NewRegistry(),
		send:  tghelpers.SendText,
		edit:  tghelpers.EditText,
	}
	if err := a.register(); err != nil {
		return nil, err
	}
	return a, nil
}

// Bootstrap initializes logging, loads the lexicon and builds the app.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()
	var lex *lexicon.Lexicon
	err := bootstrap.Run(bootstrap.Options{
		Config: cfg,
		Steps: []bootstrap.Step{{
			Name: "lexicon",
			Run: func() (err error) {
				lex, err = lexicon.Load(cfg.Lexicon.Path)
				return err
			},
		}},
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, lex)
}

// CoreConfig satisfies core/cmd.ConfigCarrier.
func (a *App) CoreConfig() *coreconfig.Config { return a.cfg }

// Registry exposes the command and callback registry.
func (a *App) Registry() *coretelegram.Registry { return a.reg }

// TelegramRunOptions satisfies core/cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	routes := router.CommandRoutes(a.reg)
	routes = append(routes,
		router.CallbackRoute(a.reg),
		router.TextRoute(a.reg),
	)
	return coretelegram.RunOptions{
		Config:            a.cfg,
		Registry:          a.reg,
		DispatcherOptions: coretelegram.SenderOptions(a.cfg.Sender),
		Middlewares:       coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:            routes,
	}, nil
}

func (a *App) register() error {
	for _, trig := range a.menu.Triggers() {
		h := a.handler(trig)
		switch trig.Kind {
		case dispatch.KindCommand:
			desc := a.lex.Text("cmd_" + strings.TrimPrefix(trig.Name, "/"))
			if err := a.reg.RegisterCommand(trig.Name, coretelegram.Command{Handler: h, Description: desc}); err != nil {
				return fmt.Errorf("app: %w", err)
			}
		case dispatch.KindCallback:
			if err := a.reg.RegisterCallback(trig.Name, h); err != nil {
				return fmt.Errorf("app: %w", err)
			}
		}
	}
	return nil
}

func (a *App) handler(trig dispatch.Trigger) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID, chatID := tghelpers.IDs(c)
		ctx := tghelpers.BuildContext(c)
		reply, ok := a.menu.Dispatch(ctx, dispatch.Event{UserID: userID, ChatID: chatID, Trigger: trig})
		if !ok {
			return nil
		}
		return a.render(ctx, c, reply)
	}
}

func (a *App) render(ctx context.Context, c tele.Context, reply dispatch.Reply) error {
	markup := keyboards.Markup(reply.Keyboard)
	var err error
	if reply.Mode == dispatch.ModeEdit {
		err = a.edit(c, reply.Text, markup)
	} else {
		err = a.send(c, reply.Text, markup)
	}
	if err != nil {
		logger.Warn(ctx, "app", "reply.fail",
			slog.String("mode", reply.Mode.String()),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("app: deliver %s reply: %w", reply.Mode, err)
	}
	return nil
}
