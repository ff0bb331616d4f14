package handler

import (
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"storepilot/internal/domain/value"
	"storepilot/internal/infrastructure/persistence"
	"storepilot/internal/transport/bot/view"
)

const (
	runsPageSize  = 10
	runsMaxListed = 100
)

func (h *Handler) OnRuns(ctx *th.Context, msg telego.Message) error {
	runs, err := h.reports.Recent(ctx, runsMaxListed)
	if err != nil {
		return h.send(ctx, msg.Chat.ID, view.RunsError)
	}

	if len(runs) == 0 {
		return h.send(ctx, msg.Chat.ID, view.RunsEmpty)
	}

	text, keyboard := runsPage(runs, 1)

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: msg.Chat.ID},
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})

	return err //nolint:wrapcheck
}

func (h *Handler) OnRunsCallback(ctx *th.Context, query telego.CallbackQuery) error {
	// Формат: "runs_page:<number>"
	var page int

	if _, err := fmt.Sscanf(query.Data, "runs_page:%d", &page); err != nil || page < 1 {
		page = 1
	}

	runs, err := h.reports.Recent(ctx, runsMaxListed)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(view.RunsError).WithShowAlert())

		return err //nolint:wrapcheck
	}

	text, keyboard := runsPage(runs, page)

	// Telegram отвечает ошибкой, если текст не изменился; это не страшно.
	_, _ = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})

	_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))

	return nil
}

func runsPage(runs []persistence.ReportSummary, page int) (string, *telego.InlineKeyboardMarkup) {
	totalPages := max((len(runs)+runsPageSize-1)/runsPageSize, 1)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * runsPageSize
	end := min(start+runsPageSize, len(runs))

	var sb strings.Builder

	fmt.Fprintf(&sb, view.RunsPaginationTemplate, page, totalPages)

	for _, r := range runs[start:end] {
		fmt.Fprintf(&sb, view.RunsItemTemplate, outcomeIcon(r.Outcome), r.RunID, html.EscapeString(r.Goal))
	}

	return sb.String(), createPaginationKeyboard(page, totalPages)
}

func outcomeIcon(o value.Outcome) string {
	switch o {
	case value.OutcomeCompleted:
		return "✅"
	case value.OutcomeNoResults:
		return "🤷"
	default:
		return "❌"
	}
}

func createPaginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("runs_page:%d", page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("runs_page:%d", page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}
