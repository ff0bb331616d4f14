package middleware

import (
	"slices"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// AdminOnly пропускает апдейты только от перечисленных пользователей.
func AdminOnly(adminIDs ...int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		var userID int64

		switch {
		case update.Message != nil && update.Message.From != nil:
			userID = update.Message.From.ID
		case update.CallbackQuery != nil:
			userID = update.CallbackQuery.From.ID
		default:
			return nil
		}

		if IsAdmin(adminIDs, userID) {
			return ctx.Next(update)
		}

		return nil
	}
}

func IsAdmin(adminIDs []int64, userID int64) bool {
	return slices.Contains(adminIDs, userID)
}
