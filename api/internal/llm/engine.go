package llm

import (
	"context"
	"fmt"
	"strings"
)

type Prompt struct {
	System      string
	User        string
	Temperature float64
}

// Один вызов Complete на запрос, без ретраев.
type Engine interface {
	Name() string
	GetModel() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

type Engines struct {
	OpenAI Engine
	Gemini Engine
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(llmName)) {
	case "", "gpt", "openai":
		if e.OpenAI != nil {
			return e.OpenAI, nil
		}
	case "gemini":
		if e.Gemini != nil {
			return e.Gemini, nil
		}
	default:
		return nil, fmt.Errorf("unknown llm provider %q; use 'openai' or 'gemini'", llmName)
	}
	return nil, fmt.Errorf("llm provider %q is not configured", llmName)
}
