package fortune

import (
	"strings"

	"fortune-proxy/api/internal/fortune/types"
	"fortune-proxy/api/internal/util"
)

// Ограничения длины полей, уходящих в промпт.
const (
	maxFieldRunes  = 500
	maxMethodRunes = 40
)

// Sanitize вытаскивает поля из произвольного тела запроса. Никогда не падает:
// не-строки превращаются в "", а пустой список методов в ["ミックス"].
func Sanitize(body map[string]any) types.FortuneRequest {
	return types.FortuneRequest{
		Birth:      safeString(body["birth"]),
		Gender:     util.ClampRunes(safeString(body["gender"]), maxFieldRunes),
		Theme:      util.ClampRunes(safeString(body["theme"]), maxFieldRunes),
		BaseResult: util.ClampRunes(safeString(body["baseResult"]), maxFieldRunes),
		Wish:       util.ClampRunes(safeString(body["wish"]), maxFieldRunes),
		Methods:    sanitizeMethods(body["methods"]),
		Mode:       sanitizeMode(body),
	}
}

func safeString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func sanitizeMethods(v any) []string {
	arr, _ := v.([]any)
	out := make([]string, 0, types.MaxMethods)
	for _, it := range arr {
		if len(out) >= types.MaxMethods {
			break
		}
		if s := safeString(it); s != "" {
			out = append(out, util.ClampRunes(s, maxMethodRunes))
		}
	}
	if len(out) == 0 {
		return []string{types.MethodMixed}
	}
	return out
}

// tone приоритетнее mode; всё, кроме "ura", считается обычным режимом.
func sanitizeMode(body map[string]any) types.Mode {
	token := safeString(body["tone"])
	if token == "" {
		token = safeString(body["mode"])
	}
	if types.Mode(token) == types.ModeUra {
		return types.ModeUra
	}
	return types.ModeNormal
}
