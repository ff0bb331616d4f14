package handler

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/notifier"
	"storepilot/internal/transport/bot/view"
	"storepilot/pkg/logx"
)

var (
	errRunUsage      = errors.New("usage")
	errInvalidBudget = errors.New("invalid budget")
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	status := view.StatusStopped
	if h.watcher.IsRunning() {
		status = view.StatusRunning
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.StatusTemplate, status, len(h.watcher.Categories())))
}

func (h *Handler) OnStartWatch(ctx *th.Context, msg telego.Message) error {
	if h.watcher.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.WatcherAlreadyRunning)
	}

	if err := h.watcher.Start(h.appCtx); err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf(view.WatcherStartFailed, err))
	}

	return h.send(ctx, msg.Chat.ID, view.WatcherStarted)
}

func (h *Handler) OnStopWatch(ctx *th.Context, msg telego.Message) error {
	if !h.watcher.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.WatcherNotRunning)
	}

	h.watcher.Stop()

	return h.send(ctx, msg.Chat.ID, view.WatcherStopped)
}

func (h *Handler) OnWatch(ctx *th.Context, msg telego.Message) error {
	category := commandArg(msg.Text)
	if category == "" {
		return h.sendHTML(ctx, msg.Chat.ID, view.WatchUsage)
	}

	if !h.watcher.AddCategory(category) {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.WatchDuplicate, html.EscapeString(category)))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.WatchAdded, html.EscapeString(category)))
}

func (h *Handler) OnUnwatch(ctx *th.Context, msg telego.Message) error {
	category := commandArg(msg.Text)
	if category == "" {
		return h.sendHTML(ctx, msg.Chat.ID, view.UnwatchUsage)
	}

	if !h.watcher.RemoveCategory(category) {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.WatchMissing, html.EscapeString(category)))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.WatchRemoved, html.EscapeString(category)))
}

func (h *Handler) OnWatchlist(ctx *th.Context, msg telego.Message) error {
	categories := h.watcher.Categories()
	if len(categories) == 0 {
		return h.sendHTML(ctx, msg.Chat.ID, view.WatchlistEmpty)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "📋 <b>Категории (%d):</b>\n\n", len(categories))

	for i, c := range categories {
		fmt.Fprintf(&sb, "%d. <code>%s</code>\n", i+1, html.EscapeString(c))
	}

	return h.sendHTML(ctx, msg.Chat.ID, sb.String())
}

// OnRun запускает прогон в фоне и присылает сводку, когда он закончится.
// Использование: /run 500 eco pet toys
func (h *Handler) OnRun(ctx *th.Context, msg telego.Message) error {
	req, err := ParseRunArgs(msg.Text)
	if err != nil {
		text := view.RunUsage
		if errors.Is(err, errInvalidBudget) {
			text = view.RunInvalidBudget
		}

		return h.sendHTML(ctx, msg.Chat.ID, text)
	}

	if err := h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.RunStarted, html.EscapeString(req.Goal), req.Budget)); err != nil {
		return err
	}

	bot := ctx.Bot()
	chatID := msg.Chat.ID

	go func() {
		report, err := h.runner.Run(h.appCtx, req)

		text := notifier.FormatReport(report)
		if err != nil {
			text = fmt.Sprintf(view.RunFailed, html.EscapeString(err.Error()))
		}

		_, sendErr := bot.SendMessage(h.appCtx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
		if sendErr != nil {
			logger(h.appCtx).Error("send run report", logx.Error(sendErr))
		}
	}()

	return nil
}

// ParseRunArgs разбирает "/run <budget> <goal...>". Прогон из бота всегда
// без отправки писем.
func ParseRunArgs(text string) (entity.RunRequest, error) {
	args := strings.Fields(text)
	if len(args) < 3 {
		return entity.RunRequest{}, errRunUsage
	}

	budget, err := strconv.ParseFloat(strings.TrimPrefix(args[1], "$"), 64)
	if err != nil || budget <= 0 {
		return entity.RunRequest{}, errInvalidBudget
	}

	return entity.RunRequest{
		Goal:   strings.Join(args[2:], " "),
		Budget: budget,
	}, nil
}

func commandArg(text string) string {
	_, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(arg)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})

	return err //nolint:wrapcheck
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})

	return err //nolint:wrapcheck
}
