package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fortune-proxy/api/internal/fortune/types"
	"fortune-proxy/api/internal/util"
)

const (
	cbAgainUra    = "again_ura"
	cbAgainNormal = "again_normal"

	maxMessageLen = 3900
)

// Кнопка «ещё раз в другом тоне»
func makeAgainKeyboard(current types.Mode) tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData("裏モードでもう一度", cbAgainUra)
	if current == types.ModeUra {
		btn = tgbotapi.NewInlineKeyboardButtonData("通常モードでもう一度", cbAgainNormal)
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
}

var rankingTitles = map[string]string{
	types.RankingFoods: "食べ物",
	types.RankingSpots: "スポット",
	types.RankingItems: "アイテム",
}

func FormatResult(r *types.FortuneResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔮 %s\n%s\n", r.Title, r.Lead)
	if r.Overview != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Overview)
	}
	if len(r.Advice) > 0 {
		b.WriteString("\n■ アドバイス\n")
		for i, a := range r.Advice {
			fmt.Fprintf(&b, "%d. %s\n", i+1, a)
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n■ 注意\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "・%s\n", w)
		}
	}
	fmt.Fprintf(&b, "\n■ チャンスの日: %s\n", strings.Join(r.ChanceDays, "、"))
	fmt.Fprintf(&b, "■ ラッキーカラー: %s\n", r.LuckyColor)
	fmt.Fprintf(&b, "■ ラッキーナンバー: %s\n", r.LuckyNumber)
	if len(r.Keywords) > 0 {
		fmt.Fprintf(&b, "■ キーワード: %s\n", strings.Join(r.Keywords, "・"))
	}
	if r.Ranking != nil {
		b.WriteString("\n■ ランキング\n")
		for _, cat := range types.RankingCategories {
			if list := r.Ranking[cat]; len(list) > 0 {
				fmt.Fprintf(&b, "%s: %s\n", rankingTitles[cat], strings.Join(list, " / "))
			}
		}
	}
	if r.Profile != nil {
		fmt.Fprintf(&b, "\n本命星: %s / 十二運: %s\n", r.Profile.KyuseiStar, r.Profile.LifeStage)
	}
	return truncate(strings.TrimSpace(b.String()), maxMessageLen)
}

// truncate режет по рунам, чтобы не ломать UTF-8.
func truncate(s string, n int) string {
	if c := util.ClampRunes(s, n); c != s {
		return c + "…"
	}
	return s
}
