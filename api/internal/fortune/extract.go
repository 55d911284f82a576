package fortune

import (
	"encoding/json"
	"strings"

	"fortune-proxy/api/internal/util"
)

type ParseStage string

const (
	StageStrict ParseStage = "strict"
	StageBraces ParseStage = "braces"
	StageEmpty  ParseStage = "empty"
)

// ExtractJSON пробует строгий разбор всего текста, затем подстроку от первой «{»
// до последней «}», иначе пустой объект. Никогда не возвращает nil.
func ExtractJSON(text string) (map[string]any, ParseStage) {
	if m, ok := decodeObject(util.StripCodeFences(text)); ok {
		return m, StageStrict
	}
	if i, j := strings.Index(text, "{"), strings.LastIndex(text, "}"); i >= 0 && j > i {
		if m, ok := decodeObject(text[i : j+1]); ok {
			return m, StageBraces
		}
	}
	return map[string]any{}, StageEmpty
}

func decodeObject(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}
