// Package notifier шлёт отчёты и найденные тренды в Telegram-чат.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"storepilot/internal/domain/entity"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64, opts ...telego.BotOption) (*TelegramBot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run пересылает алерты из канала, пока он открыт.
func (b *TelegramBot) Run(ctx context.Context, alerts <-chan entity.TrendAlert) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case alert, ok := <-alerts:
			if !ok {
				return nil
			}

			if err := b.SendAlert(ctx, alert); err != nil {
				logger(ctx).Error("failed to send alert",
					slog.String(logx.FieldProduct, alert.Product.Name),
					logx.Error(err),
				)
			}
		}
	}
}

func (b *TelegramBot) SendAlert(ctx context.Context, alert entity.TrendAlert) error {
	return b.sendHTML(ctx, FormatAlert(alert))
}

// NotifyReport sends the run summary.
func (b *TelegramBot) NotifyReport(ctx context.Context, report entity.Report) error {
	return b.sendHTML(ctx, FormatReport(report))
}

func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	_, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(b.chatID), text))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (b *TelegramBot) sendHTML(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}
