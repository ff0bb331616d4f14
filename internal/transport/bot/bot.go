package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"storepilot/internal/config"
	"storepilot/internal/transport/bot/handler"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot это админский Telegram-бот: наблюдение за категориями и запуск прогонов.
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler

	handler *handler.Handler
}

func New(ctx context.Context, cfg config.Bot, commandHandler *handler.Handler) (*Bot, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	commandHandler.RegisterRoutes(botHandler, cfg.AdminIDs)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
		handler:    commandHandler,
	}, nil
}

// Run блокируется до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("bot handler start", logx.Error(err))
		}
	}()

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("bot handler stop", logx.Error(err))
	}

	return nil
}
