package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fortune-proxy/api/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Provider:     "openai",
		Temperature:  0.9,
		OpenAIAPIKey: "sk-test",
		OpenAIModel:  "gpt-4o-mini",
		OpenAIBase:   "https://api.openai.com/v1",
		GeminiModel:  "gemini-2.5-flash",
	}
}

func TestNew_WithoutDatabase(t *testing.T) {
	a, err := New(context.Background(), baseConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Service)
	assert.Nil(t, a.DB)
	assert.Equal(t, "gpt", a.Engine.Name())

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_MissingKeyStillStarts(t *testing.T) {
	cfg := baseConfig()
	cfg.Provider = "gemini"

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.NotNil(t, a.Service)
	assert.Equal(t, "gemini", a.Engine.Name())
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.Provider = "claude"

	_, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, `unknown llm provider "claude"`)
}

func TestNewEngines(t *testing.T) {
	engs := NewEngines(baseConfig())

	e, err := engs.GetEngine("openai")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", e.GetModel())

	e, err = engs.GetEngine("gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", e.GetModel())
}
