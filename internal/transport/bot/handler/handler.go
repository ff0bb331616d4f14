package handler

import (
	"context"

	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/persistence"
	"storepilot/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type trendWatcher interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	AddCategory(category string) bool
	RemoveCategory(category string) bool
	Categories() []string
}

type pipelineRunner interface {
	Run(ctx context.Context, req entity.RunRequest) (entity.Report, error)
}

type reportLister interface {
	Recent(ctx context.Context, limit int) ([]persistence.ReportSummary, error)
}

type Handler struct {
	//nolint:containedctx // фоновые прогоны живут дольше апдейта
	appCtx  context.Context
	watcher trendWatcher
	runner  pipelineRunner
	reports reportLister
}

func New(appCtx context.Context, watcher trendWatcher, runner pipelineRunner, reports reportLister) *Handler {
	return &Handler{
		appCtx:  appCtx,
		watcher: watcher,
		runner:  runner,
		reports: reports,
	}
}
