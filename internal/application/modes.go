package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"storepilot/internal/domain/entity"
	"storepilot/internal/server"
	"storepilot/internal/transport/bot"
	"storepilot/internal/transport/bot/handler"
	"storepilot/internal/transport/queue"
	"storepilot/internal/worker"
	"storepilot/pkg/application/modules"
	"storepilot/pkg/logx"
)

const alertsBuffer = 64

// Serve runs the HTTP API with probe and metrics servers. The admin bot and
// its trend watcher start too when BOT_TOKEN is set.
func (a *App) Serve(ctx context.Context) (err error) {
	logStarted(ctx, "serve", a.cfg)
	defer func() { logStopped(ctx, err) }()

	g, ctx := errgroup.WithContext(ctx)

	runServer := server.NewRunServer(a, nil, a.reports)

	if a.redis.Enabled() {
		client := asynq.NewClient(a.asynqRedis())
		defer client.Close()

		enqueuer := queue.NewEnqueuer(client, a.cfg.Pipeline.DefaultQueue).
			WithMaxRetry(a.cfg.Pipeline.TaskMaxRetry).
			WithTimeout(a.cfg.Pipeline.RunTimeout)

		runServer = server.NewRunServer(a, enqueuer, a.reports)
	}

	s := server.NewServer(
		runServer,
		server.NewStoreServer(a.provisioner),
		server.NewAdServer(a.predict),
	)

	httpServer := &http.Server{ //nolint:exhaustruct
		Addr:              a.cfg.Server.HTTPAddress,
		Handler:           server.NewRouter(s, logx.NewSensitiveDataMasker(), a.cfg.App.LogFieldMaxLen),
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: a.cfg.Server.ReadTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
	}

	// бот поднимаем первым: при ошибке ещё нечего останавливать
	if a.cfg.Bot.Enabled() {
		if err := a.runAdminBot(ctx, g); err != nil {
			return err
		}
	}

	modules.HTTPServer{ShutdownTimeout: shutdownTimeout(a.cfg.Server.ShutdownTimeout)}.Run(ctx, g, httpServer)
	a.runSidecars(ctx, g)

	return waitGroup(g)
}

// Worker consumes pipeline:run tasks from asynq.
func (a *App) Worker(ctx context.Context) (err error) {
	if !a.redis.Enabled() {
		return fmt.Errorf("application.Worker: %w", errRedisRequired)
	}

	logStarted(ctx, "worker", a.cfg)
	defer func() { logStopped(ctx, err) }()

	g, ctx := errgroup.WithContext(ctx)

	h := queue.NewHandler(a).WithReports(a.reports)
	if a.notify != nil {
		h = h.WithNotifier(a.notify)
	}

	modules.AsynqServer{
		RedisUsername:   a.cfg.Redis.Username,
		RedisPassword:   a.cfg.Redis.Password,
		RedisAddress:    a.cfg.Redis.Address,
		RedisDB:         a.cfg.Redis.DB,
		Concurrency:     a.cfg.Pipeline.WorkerParallel,
		ShutdownTimeout: shutdownTimeout(a.cfg.Server.ShutdownTimeout),
	}.Run(ctx, g,
		modules.AsynqQueues{a.cfg.Pipeline.DefaultQueue: 1},
		modules.AsynqHandler{Pattern: queue.TypePipelineRun, Handle: h.ProcessTask},
	)

	a.runSidecars(ctx, g)

	return waitGroup(g)
}

// Watch rescans the given categories (WATCH_CATEGORIES when empty) until ctx
// is cancelled. Alerts go to Telegram, or to the log without a bot.
func (a *App) Watch(ctx context.Context, categories []string) (err error) {
	logStarted(ctx, "watch", a.cfg)
	defer func() { logStopped(ctx, err) }()

	g, ctx := errgroup.WithContext(ctx)

	alerts := make(chan entity.TrendAlert, alertsBuffer)

	watcher := a.newWatcher(alerts)
	if len(categories) > 0 {
		watcher.SetCategories(categories)
	}

	if len(watcher.Categories()) == 0 {
		return errors.New("application.Watch: no categories to watch")
	}

	if a.notify != nil {
		text := "👀 Наблюдение запущено: " + strings.Join(watcher.Categories(), ", ")
		if err := a.notify.SendText(ctx, text); err != nil {
			logger(ctx).Warn("notify.SendText", logx.Error(err))
		}
	}

	g.Go(func() error {
		return watcher.Run(ctx)
	})

	a.forwardAlerts(ctx, g, alerts)

	return waitGroup(g)
}

func (a *App) newWatcher(alerts chan<- entity.TrendAlert) *worker.TrendWatcher {
	return worker.NewTrendWatcher(a.scanner, alerts).
		WithCategories(a.cfg.Watch.Categories...).
		WithMinScore(a.cfg.Watch.MinScore).
		WithRateControl(a.cfg.Watch.Interval, a.cfg.Watch.RequestInterval).
		WithSeenTTL(a.cfg.Watch.SeenTTL)
}

func (a *App) forwardAlerts(ctx context.Context, g *errgroup.Group, alerts <-chan entity.TrendAlert) {
	if a.notify != nil {
		g.Go(func() error {
			return a.notify.Run(ctx, alerts) //nolint:wrapcheck
		})

		return
	}

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case alert := <-alerts:
				logger(ctx).Info("trend alert",
					slog.String(logx.FieldCategory, alert.Category),
					slog.String(logx.FieldProduct, alert.Product.Name),
					slog.Float64("score", alert.Product.TrendScore),
				)
			}
		}
	})
}

// runAdminBot starts the admin bot. The watcher it controls is stopped
// until /startwatch.
func (a *App) runAdminBot(ctx context.Context, g *errgroup.Group) error {
	alerts := make(chan entity.TrendAlert, alertsBuffer)
	watcher := a.newWatcher(alerts)

	adminBot, err := bot.New(ctx, a.cfg.Bot, handler.New(ctx, watcher, a, a.reports))
	if err != nil {
		return fmt.Errorf("bot.New: %w", err)
	}

	g.Go(func() error {
		defer watcher.Stop()
		return adminBot.Run(ctx)
	})

	a.forwardAlerts(ctx, g, alerts)

	return nil
}

func (a *App) runSidecars(ctx context.Context, g *errgroup.Group) {
	modules.ProbeServer{
		Name:          a.cfg.App.Name,
		Version:       a.cfg.App.Version,
		ListenAddress: a.cfg.Server.ProbeAddress,
		ReadyChecks:   a.readyChecks(),
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: a.cfg.Server.MetricsAddress}.Run(ctx, g)
}

func waitGroup(g *errgroup.Group) error {
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}
