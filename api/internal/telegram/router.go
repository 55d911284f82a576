package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fortune-proxy/api/internal/fortune"
	"fortune-proxy/api/internal/fortune/types"
	"fortune-proxy/api/internal/llm"
)

const fortuneTimeout = 120 * time.Second

// Sender покрывает *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// engine=nil значит движок по умолчанию
type Teller interface {
	TellWith(ctx context.Context, engine llm.Engine, body map[string]any) (*types.Response, error)
}

type Router struct {
	Bot Sender
	Svc Teller
	Log *zap.Logger

	// выбор движка по чату через /engine; оба поля опциональны
	Engines    *llm.Engines
	EngManager *llm.Manager
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, *upd.CallbackQuery)
		return
	}
	if upd.Message == nil || !upd.Message.IsCommand() {
		return
	}
	r.HandleCommand(ctx, upd.Message)
}

func (r *Router) HandleCommand(ctx context.Context, m *tgbotapi.Message) {
	cid := m.Chat.ID
	switch m.Command() {
	case "start", "help":
		forgetBody(cid)
		r.send(cid, "田橋 矢男無です。生年月日を教えてください。\n"+
			"/fortune 1990-05-15 — 通常モード\n"+
			"/fortune 1990-05-15 ura タロット — 裏モード＋占術\n"+
			"/engine gpt|gemini — 占いエンジンの切り替え")
	case "engine":
		r.handleEngineCommand(cid, m.CommandArguments())
	case "fortune":
		body, err := ParseFortuneArgs(m.CommandArguments())
		if err != nil {
			r.send(cid, err.Error())
			return
		}
		r.tell(ctx, cid, body)
	default:
		r.send(cid, "知らないコマンドです。/help をどうぞ")
	}
}

func (r *Router) handleCallback(ctx context.Context, cb tgbotapi.CallbackQuery) {
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID

	var tone types.Mode
	switch cb.Data {
	case cbAgainUra:
		tone = types.ModeUra
	case cbAgainNormal:
		tone = types.ModeNormal
	default:
		return
	}
	body, ok := recallBody(cid)
	if !ok {
		r.send(cid, "前回の入力が見つかりません。/fortune からどうぞ")
		return
	}
	// убрать клавиатуру
	edit := tgbotapi.NewEditMessageReplyMarkup(cid, cb.Message.MessageID, tgbotapi.InlineKeyboardMarkup{})
	_, _ = r.Bot.Send(edit)

	body["tone"] = string(tone)
	r.tell(ctx, cid, body)
}

func (r *Router) tell(ctx context.Context, chatID int64, body map[string]any) {
	_, _ = r.Bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))

	ctx, cancel := context.WithTimeout(ctx, fortuneTimeout)
	defer cancel()

	resp, err := r.Svc.TellWith(ctx, r.pickEngine(chatID), body)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	rememberBody(chatID, body)

	msg := tgbotapi.NewMessage(chatID, FormatResult(resp.Data))
	msg.ReplyMarkup = makeAgainKeyboard(resp.Data.Tone)
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) pickEngine(chatID int64) llm.Engine {
	if r.EngManager == nil {
		return nil
	}
	return r.EngManager.Get(chatID)
}

// "/engine" показывает текущий движок, "/engine gpt|gemini" переключает.
func (r *Router) handleEngineCommand(chatID int64, args string) {
	if r.Engines == nil || r.EngManager == nil {
		r.send(chatID, "エンジンの切り替えは無効です。")
		return
	}
	name := strings.TrimSpace(args)
	if name == "" {
		cur := r.EngManager.Get(chatID)
		r.send(chatID, "現在のエンジン: "+cur.Name()+" ("+cur.GetModel()+")\n使い方: /engine gpt | /engine gemini")
		return
	}
	eng, err := r.Engines.GetEngine(name)
	if err != nil {
		r.send(chatID, "知らないエンジンです。gpt か gemini をどうぞ")
		return
	}
	r.EngManager.Set(chatID, eng)
	r.send(chatID, "✅ エンジン: "+eng.Name()+" ("+eng.GetModel()+")")
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) SendError(chatID int64, err error) {
	if errors.Is(err, fortune.ErrInvalidBirth) {
		r.send(chatID, "生年月日は YYYY-MM-DD 形式でお願いします。")
		return
	}
	r.logger().Error("fortune failed", zap.Int64("chat_id", chatID), zap.Error(err))
	r.send(chatID, fmt.Sprintf("占いに失敗しました: %v", err))
}

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
