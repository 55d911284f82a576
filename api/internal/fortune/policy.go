package fortune

import (
	"fortune-proxy/api/internal/fortune/types"
)

type PersonaKey string

const (
	PersonaGentle PersonaKey = "gentle"
	PersonaOsaka  PersonaKey = "osaka"
	PersonaAllure PersonaKey = "allure"
)

// вместе с «裏» и возрастом 20+ включает персону allure
const MethodAllure = "大人の恋愛占い"

const allureMinAge = 20

type Persona struct {
	Key         PersonaKey
	Style       string
	OverviewMin int
	OverviewMax int
	AdviceCount int
}

var personas = map[PersonaKey]Persona{
	PersonaGentle: {
		Key: PersonaGentle,
		Style: `- 口調：あたたかく、背中をそっと押す。やさしめ・丁寧語。
- 比喩は月/風/灯りなど柔らかいイメージを中心に。
- 現実的な「次の一歩」を1〜2つ含める。`,
		OverviewMin: 450,
		OverviewMax: 750,
		AdviceCount: 5,
	},
	PersonaOsaka: {
		Key: PersonaOsaka,
		Style: `- 口調：大阪のおばちゃん。ズバッと言うけど情は厚い。短文でテンポよく。
- 多少ピリッとした表現OK。ただし人格攻撃・蔑視・下品すぎる表現はNG。恐怖を煽らない。不幸の断定は禁止。
- 語尾や合いの手：〜やで／〜やんか／ほな／あかん／しゃーない／ちゃっちゃと など適度に。
- テンポ：出だしに軽いツッコミ→核心→最後に気合いの一言。「ほな、やるで？」など前向きな締め。`,
		OverviewMin: 400,
		OverviewMax: 650,
		AdviceCount: 5,
	},
	PersonaAllure: {
		Key: PersonaAllure,
		Style: `- 口調：大阪のおばちゃんが大人の恋の指南役に。艶っぽさは匂わせる程度、露骨・具体的描写はNG。
- 相手との距離の縮め方、身だしなみ、会話の間合いなど実践的な「大人の作法」を中心に。
- 相手の同意と尊重を必ず前提にする。執着や駆け引きを煽らない。
- 締めは「ほな、ええ夜を」など軽やかに前向きに。`,
		OverviewMin: 300,
		OverviewMax: 500,
		AdviceCount: 3,
	},
}

type ExtraKey struct {
	Name string
	Hint string
}

// пары доп. ключей, когда выбран ровно один метод
var methodKeys = map[string][2]ExtraKey{
	"タロット":  {{"tarot_card", "引いたカード名"}, {"tarot_position", "正位置/逆位置"}},
	"西洋占星術": {{"sun_sign", "太陽星座"}, {"ruling_planet", "守護星"}},
	"数秘術":   {{"life_path_number", "ライフパスナンバー"}, {"personal_year", "パーソナルイヤー"}},
	"九星気学":  {{"honmei_star", "本命星"}, {"lucky_direction", "吉方位"}},
	"四柱推命":  {{"day_master", "日主（日干）"}, {"favorable_element", "喜神の五行"}},
	"動物占い":  {{"animal", "動物キャラ"}, {"animal_trait", "そのキャラの特徴"}},
}

// Policy is the per-request decision: persona, extra schema keys, ranking.
type Policy struct {
	Mode      types.Mode
	Persona   Persona
	ExtraKeys []ExtraKey
	Ranking   bool
}

// Decide is the single decision table {mode, age, methods} → Policy.
func Decide(mode types.Mode, age int, methods []string) Policy {
	p := Policy{Mode: mode, Persona: personas[PersonaGentle]}

	if mode == types.ModeUra {
		p.Persona = personas[PersonaOsaka]
		p.Ranking = true
		if age >= allureMinAge && contains(methods, MethodAllure) {
			p.Persona = personas[PersonaAllure]
		}
	}

	if p.Persona.Key == PersonaAllure || len(methods) != 1 || methods[0] == types.MethodMixed {
		return p
	}
	if keys, ok := methodKeys[methods[0]]; ok {
		p.ExtraKeys = []ExtraKey{keys[0], keys[1]}
	}
	return p
}

// DefaultTitle / DefaultLead: подстановки, когда модель не вернула заголовок.
func (p Policy) DefaultTitle() string {
	if p.Mode == types.ModeUra {
		return "言い訳はいらん、進むで"
	}
	return "運命の糸がほどけ、光が射す"
}

func (p Policy) DefaultLead() string {
	if p.Mode == types.ModeUra {
		return "あんた、できる子やから遠慮せんと行き"
	}
	return "静かな追い風が、あなたを望む方角へ。"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
