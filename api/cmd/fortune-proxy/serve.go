package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fortune-proxy/api/internal/app"
	"fortune-proxy/api/internal/config"
	"fortune-proxy/api/internal/handle"
	"fortune-proxy/api/internal/httpserver"
	"fortune-proxy/api/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer func() { _ = a.Close() }()

	mux := http.NewServeMux()
	handle.New(a.Service, log, a.Registry).Routes(mux)

	return httpserver.Run(ctx, "0.0.0.0:"+cfg.Port, mux, log)
}
