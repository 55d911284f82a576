package types

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Ranking categories requested in the "ura" persona.
const (
	RankingFoods = "foods"
	RankingSpots = "spots"
	RankingItems = "items"
)

// RankingCategories in the order they are shown in the prompt.
var RankingCategories = []string{RankingFoods, RankingSpots, RankingItems}

const RankingSize = 3

// FortuneResult: нормализованный ответ. Extras (пары ключей конкретного метода,
// напр. tarot_card/tarot_position) сериализуются на верхнем уровне объекта.
type FortuneResult struct {
	Title       string              `json:"title"`
	Lead        string              `json:"lead"`
	Overview    string              `json:"overview"`
	Advice      []string            `json:"advice"`
	Warnings    []string            `json:"warnings"`
	ChanceDays  []string            `json:"chance_days"`
	LuckyColor  string              `json:"lucky_color"`
	LuckyNumber string              `json:"lucky_number"`
	Keywords    []string            `json:"keywords"`
	Ranking     map[string][]string `json:"ranking,omitempty"`
	Tone        Mode                `json:"tone"`
	Profile     *SymbolicProfile    `json:"profile,omitempty"`

	Extras map[string]string `json:"-"`
}

func (r FortuneResult) MarshalJSON() ([]byte, error) {
	type plain FortuneResult
	b, err := json.Marshal(plain(r))
	if err != nil || len(r.Extras) == 0 {
		return b, err
	}

	keys := make([]string, 0, len(r.Extras))
	for k := range r.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	for _, k := range keys {
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(r.Extras[k])
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Response is the /fortune envelope: {ok:true,data,raw} or {ok:false,error}.
type Response struct {
	OK    bool
	Data  *FortuneResult
	Raw   string
	Error string
}

type okEnvelope struct {
	OK   bool           `json:"ok"`
	Data *FortuneResult `json:"data"`
	Raw  string         `json:"raw"`
}

type errEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// raw присутствует в успешном ответе всегда, даже пустой.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.OK {
		return json.Marshal(okEnvelope{OK: true, Data: r.Data, Raw: r.Raw})
	}
	return json.Marshal(errEnvelope{OK: false, Error: r.Error})
}
