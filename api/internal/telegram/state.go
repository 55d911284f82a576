package telegram

import (
	"sync"
)

// по кнопке повторяем последний запрос чата с другим тоном
var lastBody sync.Map // chatID -> map[string]any

func rememberBody(chatID int64, body map[string]any) { lastBody.Store(chatID, body) }

func recallBody(chatID int64) (map[string]any, bool) {
	v, ok := lastBody.Load(chatID)
	if !ok {
		return nil, false
	}
	src := v.(map[string]any)
	cp := make(map[string]any, len(src))
	for k, val := range src {
		cp[k] = val
	}
	return cp, true
}

func forgetBody(chatID int64) { lastBody.Delete(chatID) }
