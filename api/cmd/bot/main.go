package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fortune-proxy/api/internal/app"
	"fortune-proxy/api/internal/config"
	"fortune-proxy/api/internal/handle"
	"fortune-proxy/api/internal/httpserver"
	"fortune-proxy/api/internal/llm"
	"fortune-proxy/api/internal/logger"
	"fortune-proxy/api/internal/telegram"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("bot stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return err
	}
	bot.Debug = false
	log.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

	r := &telegram.Router{
		Bot:        bot,
		Svc:        a.Service,
		Log:        log,
		Engines:    a.Engines,
		EngManager: llm.NewManager(a.Engine),
	}

	// /ping и /metrics рядом с ботом; сам /fortune тут тоже доступен
	mux := http.NewServeMux()
	handle.New(a.Service, log, a.Registry).Routes(mux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, "0.0.0.0:"+cfg.Port, mux, log)
	})
	g.Go(func() error {
		telegram.RunPolling(gctx, bot, log, func(upd tgbotapi.Update) {
			r.HandleUpdate(gctx, upd)
		})
		return nil
	})
	return g.Wait()
}
