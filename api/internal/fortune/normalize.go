package fortune

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"fortune-proxy/api/internal/fortune/types"
)

const (
	maxAdvice     = 5
	maxWarnings   = 2
	maxKeywords   = 6
	maxChanceDays = 3
	chanceStep    = 7

	defaultLuckyColor  = "黄緑"
	defaultLuckyNumber = "7"
)

// Report описывает, что нормализатору пришлось чинить (идёт в логи и метрики).
type Report struct {
	Stage   ParseStage
	Repairs []string
}

func (r *Report) repaired(field string) { r.Repairs = append(r.Repairs, field) }

// Normalize превращает сырой текст модели в полный FortuneResult. Любое поле,
// которого нет или которое не той формы, заменяется значением по умолчанию.
// Применённый к собственному сериализованному результату, ничего не меняет.
func Normalize(raw string, pol Policy, today time.Time) (types.FortuneResult, Report) {
	data, stage := ExtractJSON(raw)
	rep := Report{Stage: stage}

	res := types.FortuneResult{
		Title:       nonEmpty(data, "title", pol.DefaultTitle(), &rep),
		Lead:        nonEmpty(data, "lead", pol.DefaultLead(), &rep),
		Overview:    nonEmpty(data, "overview", "", &rep),
		Advice:      stringList(data, "advice", adviceCap(pol), &rep),
		Warnings:    stringList(data, "warnings", maxWarnings, &rep),
		ChanceDays:  chanceDays(data["chance_days"], today, &rep),
		LuckyColor:  nonEmpty(data, "lucky_color", defaultLuckyColor, &rep),
		LuckyNumber: luckyNumber(data["lucky_number"], &rep),
		Keywords:    stringList(data, "keywords", maxKeywords, &rep),
		Tone:        pol.Mode,
	}

	if pol.Ranking {
		res.Ranking = ranking(data["ranking"], &rep)
	}
	if len(pol.ExtraKeys) > 0 {
		res.Extras = make(map[string]string, len(pol.ExtraKeys))
		for _, k := range pol.ExtraKeys {
			s, ok := scalarString(data[k.Name])
			if !ok {
				rep.repaired(k.Name)
			}
			res.Extras[k.Name] = s
		}
	}
	return res, rep
}

func adviceCap(pol Policy) int {
	if n := pol.Persona.AdviceCount; n > 0 && n < maxAdvice {
		return n
	}
	return maxAdvice
}

func nonEmpty(data map[string]any, key, def string, rep *Report) string {
	if s, ok := data[key].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	rep.repaired(key)
	return def
}

func stringList(data map[string]any, key string, max int, rep *Report) []string {
	out, ok := toStrings(data[key], max)
	if !ok {
		rep.repaired(key)
	}
	return out
}

// toStrings оставляет непустые строки и обрезает до max. ok=false, если пришёл
// не массив или что-то пришлось выкинуть.
func toStrings(v any, max int) ([]string, bool) {
	arr, isArr := v.([]any)
	out := make([]string, 0, max)
	clean := isArr
	for _, it := range arr {
		s, isStr := it.(string)
		s = strings.TrimSpace(s)
		if !isStr || s == "" {
			clean = false
			continue
		}
		if len(out) >= max {
			clean = false
			break
		}
		out = append(out, s)
	}
	return out, clean
}

// Только YYYY-MM-DD строго после today (JST), без повторов, не больше трёх;
// недостающие добиваются today+7, +14, +21… Итог по возрастанию.
func chanceDays(v any, today time.Time, rep *Report) []string {
	arr, _ := v.([]any)
	seen := make(map[string]bool, maxChanceDays)
	out := make([]string, 0, maxChanceDays)
	for _, it := range arr {
		s, _ := it.(string)
		s = strings.TrimSpace(s)
		if seen[s] || !IsFutureYMD(s, today) {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == maxChanceDays {
			break
		}
	}
	if len(out) != len(arr) || len(out) < maxChanceDays {
		rep.repaired("chance_days")
	}
	for k := 1; len(out) < maxChanceDays; k++ {
		d := AddDaysYMD(today, chanceStep*k)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

func luckyNumber(v any, rep *Report) string {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			rep.repaired("lucky_number")
			return defaultLuckyNumber
		}
		n = float64(i)
	default:
		rep.repaired("lucky_number")
		return defaultLuckyNumber
	}
	if n != math.Trunc(n) || n < 0 || n > 99 {
		rep.repaired("lucky_number")
		return defaultLuckyNumber
	}
	return strconv.Itoa(int(n))
}

func ranking(v any, rep *Report) map[string][]string {
	obj, ok := v.(map[string]any)
	if !ok {
		rep.repaired("ranking")
	}
	out := make(map[string][]string, len(types.RankingCategories))
	for _, cat := range types.RankingCategories {
		list, clean := toStrings(obj[cat], types.RankingSize)
		if ok && !clean {
			rep.repaired("ranking." + cat)
		}
		out[cat] = list
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}
