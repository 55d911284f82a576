package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"fortune-proxy/api/internal/config"
	"fortune-proxy/api/internal/fortune"
	"fortune-proxy/api/internal/llm"
	"fortune-proxy/api/internal/llm/gemini"
	"fortune-proxy/api/internal/llm/gpt"
	"fortune-proxy/api/internal/metrics"
	"fortune-proxy/api/internal/store"
)

// App держит то, что общее у HTTP-сервера и бота.
type App struct {
	Engines  *llm.Engines
	Engine   llm.Engine // движок по умолчанию (LLM_PROVIDER)
	Service  *fortune.Service
	Registry *prometheus.Registry
	DB       *sql.DB
}

func NewEngines(cfg *config.Config) *llm.Engines {
	return &llm.Engines{
		OpenAI: gpt.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBase),
		Gemini: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
	}
}

// New собирает сервис. Без ключа провайдера стартуем (запросы будут падать с 500),
// а неизвестный провайдер или недоступная БД дают ошибку.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg.ProviderKey() == "" {
		log.Error("provider API key is not set; every /fortune call will fail", zap.String("provider", cfg.Provider))
	}

	engines := NewEngines(cfg)
	engine, err := engines.GetEngine(cfg.Provider)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &App{Engines: engines, Engine: engine, Registry: reg}
	opts := fortune.Options{
		Temperature: cfg.Temperature,
		Logger:      log,
		Metrics:     metrics.New(reg),
	}

	if cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("reading log: %w", err)
		}
		repo := store.NewReadingRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("reading log enabled", zap.String("db", store.SafeDSNSummary(cfg.DatabaseURL)))
		a.DB = db
		opts.Recorder = repo
	}

	a.Service = fortune.NewService(engine, opts)
	log.Info("fortune service ready",
		zap.String("provider", engine.Name()),
		zap.String("model", engine.GetModel()),
		zap.Float64("temperature", cfg.Temperature),
	)
	return a, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
