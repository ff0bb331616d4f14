// Package application собирает зависимости из конфига и запускает режимы
// работы: разовый прогон, HTTP API, воркер очереди и наблюдение за трендами.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"

	"storepilot/internal/config"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/service/ad"
	"storepilot/internal/domain/service/compliance"
	"storepilot/internal/domain/service/guard"
	"storepilot/internal/domain/service/negotiation"
	"storepilot/internal/domain/service/pipeline"
	"storepilot/internal/domain/service/store"
	"storepilot/internal/domain/service/supplier"
	"storepilot/internal/domain/service/trend"
	"storepilot/internal/infrastructure/cache"
	"storepilot/internal/infrastructure/catalog"
	"storepilot/internal/infrastructure/llm"
	"storepilot/internal/infrastructure/mailer"
	"storepilot/internal/infrastructure/notifier"
	"storepilot/internal/infrastructure/persistence"
	"storepilot/internal/infrastructure/storehost"
	"storepilot/internal/infrastructure/suppliers"
	"storepilot/internal/infrastructure/trends"
	"storepilot/pkg/application/connectors"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
	"storepilot/pkg/probe"
	"storepilot/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	TrendSourceCatalog = "catalog"
	TrendSourceLLM     = "llm"
)

var errRedisRequired = errors.New("REDIS_ADDRESS is required")

// App держит собранные зависимости. Соединения открываются в New и
// закрываются в Close.
type App struct {
	cfg config.Config

	sql   *connectors.SQL
	redis *connectors.Redis

	db          *sqlx.DB
	stores      *persistence.StoreRepository
	reports     *persistence.ReportRepository
	scanner     *trend.Scanner
	provisioner *store.Provisioner
	predict     ad.Predictor
	pipeline    *pipeline.Orchestrator
	notify      *notifier.TelegramBot
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
		sql: &connectors.SQL{
			Driver:          cfg.Database.Driver,
			DSN:             cfg.Database.DSN,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		},
		redis: &connectors.Redis{
			Address:        cfg.Redis.Address,
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DatabaseNumber: cfg.Redis.DB,
			PoolSize:       cfg.Redis.PoolSize,
		},
		predict: ad.NewPredictor(),
	}

	app.db = app.sql.Client(ctx)

	if err := persistence.Migrate(ctx, app.db); err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("persistence.Migrate: %w", err)
	}

	app.stores = persistence.NewStoreRepository(app.db)
	app.reports = persistence.NewReportRepository(app.db)

	if cfg.Bot.Enabled() && cfg.Bot.ChatID != 0 {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		app.notify = bot
	}

	if err := app.wirePipeline(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}

	return app, nil
}

func (a *App) wirePipeline(ctx context.Context) error {
	cfg := a.cfg
	maxLen := cfg.App.LogFieldMaxLen

	generator, err := llm.New(ctx, cfg.LLM, maxLen)
	if err != nil {
		return fmt.Errorf("llm.New: %w", err)
	}

	policy := retry.Policy{
		Attempts:        cfg.Pipeline.RetryAttempts,
		InitialInterval: cfg.Pipeline.RetryInitial,
		MaxInterval:     cfg.Pipeline.RetryMax,
	}

	scanner, serp, err := a.trendScanner(generator)
	if err != nil {
		return err
	}

	a.scanner = scanner.
		WithCache(a.trendCache(ctx)).
		WithRateLimit(cfg.Trends.RatePerSecond, cfg.Trends.Burst).
		WithConcurrency(cfg.Pipeline.Concurrency).
		WithCallTimeout(cfg.Trends.CallTimeout).
		WithRetryPolicy(policy)

	directory := suppliers.NewDirectory(suppliers.Options{
		BaseURL:        cfg.Suppliers.BaseURL,
		APIKey:         cfg.Suppliers.APIKey,
		Timeout:        cfg.Suppliers.CallTimeout,
		LogFieldMaxLen: maxLen,
	})

	finder := supplier.NewFinder(directory).
		WithMinTrust(cfg.Suppliers.MinTrust).
		WithConcurrency(cfg.Pipeline.Concurrency).
		WithCallTimeout(cfg.Suppliers.CallTimeout).
		WithRateLimit(cfg.Suppliers.RatePerSecond, cfg.Suppliers.Burst).
		WithRetryPolicy(policy)

	mail := mailer.NewSendGrid(mailer.Options{
		BaseURL:        cfg.Mail.BaseURL,
		APIKey:         cfg.Mail.APIKey,
		From:           cfg.Mail.From,
		FromName:       cfg.Mail.FromName,
		Timeout:        cfg.Mail.Timeout,
		LogFieldMaxLen: maxLen,
	})

	host := storehost.New(storehost.Options{
		ShopURL:        cfg.StoreHost.ShopURL,
		AccessToken:    cfg.StoreHost.AccessToken,
		APIVersion:     cfg.StoreHost.APIVersion,
		TrialDays:      cfg.StoreHost.TrialDays,
		Timeout:        cfg.StoreHost.Timeout,
		LogFieldMaxLen: maxLen,
	})

	a.provisioner = store.NewProvisioner(host, a.stores).WithRetryPolicy(policy)

	var (
		textGen  negotiation.TextGenerator
		retrying *llm.Retrying
		required = []pipeline.Verifier{directory}
	)

	// сканер трендов повторяет сам, поэтому ему идёт generator без обёртки
	if generator != nil {
		retrying = llm.WithRetry(generator, policy)
		textGen = retrying
		required = append(required, generator)
	}

	if serp != nil {
		required = append(required, serp)
	}

	handlers := pipeline.Handlers{
		Trends:      a.scanner,
		Suppliers:   finder,
		Negotiation: negotiation.NewDrafter(textGen, mail).WithSender(cfg.Mail.FromName).WithRetryPolicy(policy),
		Store:       a.provisioner,
		Compliance:  compliance.NewDrafter(textGen).WithContactEmail(cfg.Pipeline.ContactEmail),
		Ads:         a.predict,
	}

	preflight := pipeline.NewPreflight(host, required...).WithMailer(mail)

	a.pipeline = pipeline.NewOrchestrator(handlers, preflight).
		WithReports(a.reports).
		WithTopProducts(cfg.Pipeline.TopProducts).
		WithConcurrency(cfg.Pipeline.Concurrency)

	if cfg.LLM.TopicGuard {
		var classifier guard.Classifier
		if retrying != nil {
			classifier = retrying
		}

		a.pipeline = a.pipeline.WithGuard(guard.NewTopicFilter(classifier))
	}

	if cfg.LLM.UsePlanner && retrying != nil {
		a.pipeline = a.pipeline.WithPlanner(pipeline.NewLLMPlanner(retrying))
	}

	return nil
}

// trendScanner returns the configured candidate source plus the SerpAPI
// client when a key is set.
func (a *App) trendScanner(generator llm.Client) (*trend.Scanner, *trends.SerpAPI, error) {
	cfg := a.cfg.Trends

	var (
		source    trend.ProductSource
		providers []trend.Provider
	)

	switch cfg.Source {
	case TrendSourceLLM:
		if generator == nil {
			return nil, nil, fmt.Errorf("TRENDS_SOURCE=%s needs LLM_PROVIDER", cfg.Source)
		}

		source = trends.NewIdeas(generator).WithCount(cfg.IdeasPerQuery)
	case TrendSourceCatalog, "":
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog.Load: %w", err)
		}

		source = c
		providers = append(providers, c)
	default:
		return nil, nil, fmt.Errorf("unknown TRENDS_SOURCE %q", cfg.Source)
	}

	var serp *trends.SerpAPI

	if cfg.SerpAPIKey != "" {
		serp = trends.NewSerpAPI(trends.SerpAPIOptions{
			APIKey:         cfg.SerpAPIKey,
			BaseURL:        cfg.SerpAPIURL,
			Timezone:       cfg.SerpTimezone,
			Timeout:        cfg.CallTimeout,
			LogFieldMaxLen: a.cfg.App.LogFieldMaxLen,
		})
		providers = append(providers, serp)
	}

	return trend.NewScanner(source, providers...), serp, nil
}

func (a *App) trendCache(ctx context.Context) trend.Cache {
	if a.redis.Enabled() {
		logger(ctx).Info("trend cache backed by redis", slog.Duration("ttl", a.cfg.Trends.CacheTTL))
		return cache.NewRedis(a.redis.Client(ctx), a.cfg.Trends.CacheTTL)
	}

	return cache.NewMemory(a.cfg.Trends.CacheTTL)
}

// Run executes one pipeline run in the calling goroutine.
func (a *App) Run(ctx context.Context, req entity.RunRequest) (entity.Report, error) {
	if a.cfg.Pipeline.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Pipeline.RunTimeout)
		defer cancel()
	}

	report, err := a.pipeline.Run(ctx, req)
	if err != nil {
		return report, fmt.Errorf("pipeline.Run: %w", err)
	}

	return report, nil
}

func (a *App) asynqRedis() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     a.cfg.Redis.Address,
		Username: a.cfg.Redis.Username,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	}
}

func (a *App) readyChecks() map[string]probe.ReadyCheck {
	checks := map[string]probe.ReadyCheck{
		"database": a.sql.Ping,
	}

	if a.redis.Enabled() {
		checks["redis"] = a.redis.Ping
	}

	return checks
}

func (a *App) Close(ctx context.Context) {
	a.redis.Close(ctx)
	a.sql.Close(ctx)
}

func shutdownTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Second
	}

	return d
}

func logStarted(ctx context.Context, mode string, cfg config.Config) {
	logger(ctx).Info("application started",
		slog.String("mode", mode),
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
		slog.String("llm", cfg.LLM.Provider),
		slog.String("trends", cfg.Trends.Source),
	)
}

func logStopped(ctx context.Context, err error) {
	if err != nil && !errors.Is(err, context.Canceled) {
		logger(ctx).Error("application stopped", logx.Error(err))
		return
	}

	logger(ctx).Info("application stopped")
}
