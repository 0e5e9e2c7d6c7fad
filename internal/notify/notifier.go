package notify

import (
	"fmt"

	"copytrade/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier carries low-volume operator notifications (bridge connected,
// upstream lost). Best-effort: a failed send is never an error for the caller.
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Telegram — пассивный нотифайер, только исходящие сообщения.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Warn("[NOTIFY] telegram send failed: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Stdout routes notifications into the service log when Telegram is not
// configured.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Send(msg string)                  { logger.Info("[NOTIFY] %s", msg) }
func (s *Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }
