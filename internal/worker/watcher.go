package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/pkg/logx"
)

const (
	defaultInterval        = time.Hour
	defaultRequestInterval = 5 * time.Second
	defaultMinScore        = 60
	defaultSeenTTL         = 24 * time.Hour
)

type TrendScanner interface {
	Scan(ctx context.Context, categories []string) ([]entity.Product, error)
}

type TrendWatcher struct {
	scanner    TrendScanner
	alerts     chan<- entity.TrendAlert
	categories []string
	minScore   float64
	seen       *gocache.Cache
	now        func() time.Time

	interval        time.Duration
	requestInterval time.Duration
	lastRequest     time.Time

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewTrendWatcher(scanner TrendScanner, alerts chan<- entity.TrendAlert) *TrendWatcher {
	return &TrendWatcher{
		scanner:         scanner,
		alerts:          alerts,
		minScore:        defaultMinScore,
		seen:            gocache.New(defaultSeenTTL, time.Hour),
		now:             time.Now,
		interval:        defaultInterval,
		requestInterval: defaultRequestInterval,
	}
}

func (w *TrendWatcher) WithCategories(categories ...string) *TrendWatcher {
	w.SetCategories(categories)
	return w
}

func (w *TrendWatcher) WithMinScore(score float64) *TrendWatcher {
	w.minScore = score
	return w
}

// WithRateControl sets the pause between whole cycles and between the
// category scans inside one cycle.
func (w *TrendWatcher) WithRateControl(interval, requestInterval time.Duration) *TrendWatcher {
	if interval > 0 {
		w.interval = interval
	}

	if requestInterval >= 0 {
		w.requestInterval = requestInterval
	}

	return w
}

func (w *TrendWatcher) WithSeenTTL(ttl time.Duration) *TrendWatcher {
	if ttl > 0 {
		w.seen = gocache.New(ttl, min(ttl, time.Hour))
	}

	return w
}

func (w *TrendWatcher) WithClock(now func() time.Time) *TrendWatcher {
	w.now = now
	return w
}

func (w *TrendWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("watcher is already running")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("trend watcher stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *TrendWatcher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *TrendWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

// Run blocks until ctx is cancelled.
func (w *TrendWatcher) Run(ctx context.Context) error {
	logger(ctx).Info("trend watcher started", slog.Duration("interval", w.interval))

	for {
		w.ScanOnce(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("trend watcher stopped")
			return ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// ScanOnce runs one cycle over the watchlist and returns how many alerts
// were emitted.
func (w *TrendWatcher) ScanOnce(ctx context.Context) int {
	var found int

	for _, category := range w.Categories() {
		select {
		case <-ctx.Done():
			return found
		default:
		}

		count, err := w.scanOne(ctx, category)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger(ctx).Error("watch scan failed", slog.String(logx.FieldCategory, category), logx.Error(err))
			}

			continue
		}

		found += count
	}

	if found > 0 {
		logger(ctx).Info("watch cycle completed", slog.Int("alerts", found))
	}

	return found
}

func (w *TrendWatcher) scanOne(ctx context.Context, category string) (int, error) {
	if err := w.waitForNextSlot(ctx); err != nil {
		return 0, err
	}

	products, err := w.scanner.Scan(ctx, []string{category})
	if err != nil {
		if domain.IsNoResults(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("scanner.Scan: %w", err)
	}

	var sent int

	for _, p := range products {
		if p.TrendScore < w.minScore {
			continue
		}

		key := category + "|" + strings.ToLower(p.Name)
		if _, ok := w.seen.Get(key); ok {
			continue
		}

		alert := entity.TrendAlert{Category: category, Product: p, SeenAt: w.now().UTC()}

		select {
		case w.alerts <- alert:
			w.seen.SetDefault(key, struct{}{})
			sent++
		case <-ctx.Done():
			return sent, ctx.Err()
		}
	}

	return sent, nil
}

func (w *TrendWatcher) waitForNextSlot(ctx context.Context) error {
	if w.lastRequest.IsZero() || w.requestInterval == 0 {
		w.lastRequest = time.Now()
		return nil
	}

	elapsed := time.Since(w.lastRequest)
	if elapsed >= w.requestInterval {
		w.lastRequest = time.Now()
		return nil
	}

	select {
	case <-time.After(w.requestInterval - elapsed):
		w.lastRequest = time.Now()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
