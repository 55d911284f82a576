package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	Provider     string
	Temperature  float64
	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIBase   string
	GeminiAPIKey string
	GeminiModel  string

	// DatabaseURL включает журнал гаданий; пустое значение выключает журнал.
	DatabaseURL      string
	TelegramBotToken string
}

// Load читает .env (если есть) и переменные окружения. Отсутствие ключа провайдера
// не ошибка: запросы упадут позже, а main только залогирует это.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8787")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_TEMPERATURE", 0.9)
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")

	return &Config{
		Port:      strings.TrimSpace(v.GetString("PORT")),
		LogLevel:  strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogFormat: strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),

		Provider:     strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		Temperature:  v.GetFloat64("LLM_TEMPERATURE"),
		OpenAIAPIKey: strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIModel:  strings.TrimSpace(v.GetString("OPENAI_MODEL")),
		OpenAIBase:   strings.TrimRight(strings.TrimSpace(v.GetString("OPENAI_BASE_URL")), "/"),
		GeminiAPIKey: strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiModel:  strings.TrimSpace(v.GetString("GEMINI_MODEL")),

		DatabaseURL:      strings.TrimSpace(v.GetString("DATABASE_URL")),
		TelegramBotToken: strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
	}
}

// ProviderKey возвращает ключ выбранного провайдера (пустая строка, если не задан).
func (c *Config) ProviderKey() string {
	switch c.Provider {
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}
