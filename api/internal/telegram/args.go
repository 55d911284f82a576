package telegram

import (
	"errors"
	"strings"

	"fortune-proxy/api/internal/fortune"
	"fortune-proxy/api/internal/fortune/types"
)

var errUsage = errors.New("使い方: /fortune YYYY-MM-DD [ura] [占術…]")

// ParseFortuneArgs разбирает "1990-05-15 ura タロット 数秘術" в тело запроса /fortune.
// Дата обязательна и идёт первой; "ura" или "裏" включает тон ura; остальное идёт в methods.
func ParseFortuneArgs(args string) (map[string]any, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return nil, errUsage
	}
	if _, err := fortune.ParseYMD(fields[0]); err != nil {
		return nil, errUsage
	}

	body := map[string]any{
		"birth": fields[0],
		"tone":  string(types.ModeNormal),
	}
	var methods []any
	for _, f := range fields[1:] {
		switch strings.ToLower(f) {
		case "ura", "裏":
			body["tone"] = string(types.ModeUra)
		default:
			methods = append(methods, f)
		}
	}
	if len(methods) > 0 {
		body["methods"] = methods
	}
	return body, nil
}
