package fortune

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fortune-proxy/api/internal/fortune/types"
	"fortune-proxy/api/internal/llm"
)

const systemHeader = `あなたは一流の占い師「田橋 矢男無（たばし やおな）」です。
使える占術：四柱推命／西洋占星術／数秘術／タロット／動物占い／九星気学 など。
今回の占術選択：%s。複数の場合は示唆が重なるポイントを核に整合的に統合。

出力は日本語のJSONオブジェクトのみ（Markdownや説明文は禁止）。`

// Compose собирает инструкцию и пользовательский блок. Внешних вызовов нет.
func Compose(req types.FortuneRequest, prof types.SymbolicProfile, pol Policy, today time.Time) llm.Prompt {
	methods := strings.Join(req.Methods, "・")

	var sys strings.Builder
	fmt.Fprintf(&sys, systemHeader, methods)
	sys.WriteString("\n\n【口調（トーン）】\n")
	sys.WriteString(pol.Persona.Style)
	sys.WriteString("\n\n【必須条件】\n")
	fmt.Fprintf(&sys, "- \"chance_days\" は **今日（%s, JST）より後** のISO日付（YYYY-MM-DD）のみ。1〜3件。無理なら今日から90日以内で合成。\n", FormatYMD(today))
	sys.WriteString("- \"warnings\" は1〜2件。軽い注意だが最後は前向きに導く。\n")
	sys.WriteString("- \"lucky_color\" は具体的な日本語色名1つ（例：黄緑/藍色/桜色/群青/朱色/翡翠/藤色/若草色/琥珀/空色…）。\n")
	sys.WriteString("- \"lucky_number\" は 0〜99 の自然数1つ（文字列）。\n")
	fmt.Fprintf(&sys, "- \"overview\" は%d〜%d字。\n", pol.Persona.OverviewMin, pol.Persona.OverviewMax)
	fmt.Fprintf(&sys, "- アドバイスは%d件、表現を毎回変える（格言風・丁寧語・具体行動・比喩・宣言文などを混ぜる）。\n", pol.Persona.AdviceCount)
	if pol.Ranking {
		sys.WriteString("- \"ranking\" は各カテゴリ3件を1位から順に。実在の一般名詞で、ブランド名は避ける。\n")
	}
	sys.WriteString("\n【JSONスキーマ（このキーのみ）】\n")
	sys.WriteString(schemaBlock(pol))

	var user strings.Builder
	fmt.Fprintf(&user, "生年月日: %s\n", orDefault(req.Birth, "(未入力)"))
	fmt.Fprintf(&user, "性別: %s\n", orDefault(req.Gender, "(未入力)"))
	fmt.Fprintf(&user, "テーマ: %s\n", orDefault(req.Theme, "(未指定)"))
	fmt.Fprintf(&user, "占術の選択: %s\n", methods)
	fmt.Fprintf(&user, "ベース情報: %s\n", orDefault(req.BaseResult, "(なし)"))
	fmt.Fprintf(&user, "願い: %s\n", orDefault(req.Wish, "(なし)"))
	fmt.Fprintf(&user, "本命星（九星）: %s\n", prof.KyuseiStar)
	fmt.Fprintf(&user, "十二運: %s\n", prof.LifeStage)
	if best := bestDays(prof.Series, 3); len(best) > 0 {
		fmt.Fprintf(&user, "運気の高い日（参考）: %s", strings.Join(best, "・"))
	}

	return llm.Prompt{
		System: strings.TrimSpace(sys.String()),
		User:   strings.TrimSpace(user.String()),
	}
}

func schemaBlock(pol Policy) string {
	lines := []string{
		`  "title": "見出し（20字以内）"`,
		`  "lead": "導入一行（15〜30字）"`,
		fmt.Sprintf(`  "overview": "総合の流れ（%d〜%d字）"`, pol.Persona.OverviewMin, pol.Persona.OverviewMax),
		fmt.Sprintf(`  "advice": [%s]`, numbered(pol.Persona.AdviceCount)),
		`  "warnings": ["1", "2(任意)"]`,
		`  "chance_days": ["YYYY-MM-DD(1〜3件/未来日)"]`,
		`  "lucky_color": "具体色名1つ"`,
		`  "lucky_number": "数字1つ（文字列）"`,
		`  "keywords": ["キーワード1","2","3"]`,
	}
	if pol.Ranking {
		lines = append(lines, `  "ranking": {"foods": ["1位","2位","3位"], "spots": ["1位","2位","3位"], "items": ["1位","2位","3位"]}`)
	}
	for _, k := range pol.ExtraKeys {
		lines = append(lines, fmt.Sprintf(`  %q: %q`, k.Name, k.Hint))
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n}"
}

func numbered(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%q", fmt.Sprint(i+1))
	}
	return strings.Join(parts, ",")
}

// даты n лучших дней, по хронологии
func bestDays(series []types.DayScore, n int) []string {
	if len(series) == 0 {
		return nil
	}
	sorted := append([]types.DayScore(nil), series...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	out := make([]string, 0, len(sorted))
	for _, d := range sorted {
		out = append(out, d.Date)
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
