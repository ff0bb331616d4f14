package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"storepilot/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminIDs []int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminIDs...))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnWatch, th.CommandEqual("watch"))
	adminGroup.HandleMessage(h.OnUnwatch, th.CommandEqual("unwatch"))
	adminGroup.HandleMessage(h.OnWatchlist, th.CommandEqual("watchlist"))
	adminGroup.HandleMessage(h.OnStartWatch, th.CommandEqual("startwatch"))
	adminGroup.HandleMessage(h.OnStopWatch, th.CommandEqual("stopwatch"))
	adminGroup.HandleMessage(h.OnRun, th.CommandEqual("run"))
	adminGroup.HandleMessage(h.OnRuns, th.CommandEqual("runs"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminIDs...))

	cbGroup.HandleCallbackQuery(h.OnRunsCallback, th.CallbackDataPrefix("runs_page"))
}
