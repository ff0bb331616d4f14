// Package queue запускает конвейер асинхронно через asynq.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/xid"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/pkg/contextx"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/logx"
	"storepilot/pkg/rest"
)

var (
	logger = contextx.LoggerFromContextOrDefault         //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
)

const TypePipelineRun = "pipeline:run"

func NewPipelineRunTask(req entity.RunRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypePipelineRun, payload), nil
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Enqueuer struct {
	client   taskEnqueuer
	queue    string
	maxRetry int
	timeout  time.Duration
}

func NewEnqueuer(client taskEnqueuer, queue string) *Enqueuer {
	return &Enqueuer{
		client:   client,
		queue:    queue,
		maxRetry: 2,
		timeout:  10 * time.Minute,
	}
}

func (e *Enqueuer) WithMaxRetry(n int) *Enqueuer {
	if n >= 0 {
		e.maxRetry = n
	}

	return e
}

func (e *Enqueuer) WithTimeout(d time.Duration) *Enqueuer {
	if d > 0 {
		e.timeout = d
	}

	return e
}

// Enqueue assigns the run ID up front so the caller can poll the report.
// The run ID doubles as the task ID, so a duplicate submit is rejected.
func (e *Enqueuer) Enqueue(ctx context.Context, req entity.RunRequest) (rest.RunAccepted, error) {
	if req.RunID == "" {
		req.RunID = xid.New().String()
	}

	task, err := NewPipelineRunTask(req)
	if err != nil {
		return rest.RunAccepted{}, err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(e.queue),
		asynq.MaxRetry(e.maxRetry),
		asynq.Timeout(e.timeout),
		asynq.TaskID(req.RunID),
	)
	if err != nil {
		return rest.RunAccepted{}, fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).Info("run enqueued",
		slog.String(logx.FieldRunID, req.RunID),
		slog.String(logx.FieldTaskID, info.ID),
	)

	return rest.RunAccepted{TaskID: info.ID, RunID: req.RunID, Queue: info.Queue}, nil
}

type pipelineRunner interface {
	Run(ctx context.Context, req entity.RunRequest) (entity.Report, error)
}

type reportNotifier interface {
	NotifyReport(ctx context.Context, report entity.Report) error
}

type reportSaver interface {
	Save(ctx context.Context, report entity.Report) error
}

type Handler struct {
	runner   pipelineRunner
	notifier reportNotifier
	reports  reportSaver
	now      func() time.Time
}

func NewHandler(runner pipelineRunner) *Handler {
	return &Handler{runner: runner, now: time.Now}
}

// WithReports stores a failed report for runs that stop before their first
// step, so GET /v1/runs/{id} answers instead of 404.
func (h *Handler) WithReports(r reportSaver) *Handler {
	h.reports = r
	return h
}

func (h *Handler) WithNotifier(n reportNotifier) *Handler {
	h.notifier = n
	return h
}

// ProcessTask runs the pipeline. Validation and authentication failures are
// not retried; anything else goes back to asynq.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var req entity.RunRequest
	if err := json.Unmarshal(task.Payload(), &req); err != nil {
		return fmt.Errorf("json.Unmarshal: %v: %w", err, asynq.SkipRetry)
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldRunID, req.RunID)))

	report, err := h.runner.Run(ctx, req)
	if err != nil {
		final := domain.IsValidation(err) || domain.IsAuthentication(err)

		// отчёта нет: прогон упал до первого шага
		if report.RunID == "" && (final || lastAttempt(ctx)) {
			h.saveFailed(ctx, req, err)
		}

		if final {
			return fmt.Errorf("runner.Run: %w", errors.Join(err, asynq.SkipRetry))
		}

		return fmt.Errorf("runner.Run: %w", err)
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyReport(ctx, report); err != nil {
			logger(ctx).Warn("notifier.NotifyReport", logx.Error(err))
		}
	}

	return nil
}

func (h *Handler) saveFailed(ctx context.Context, req entity.RunRequest, runErr error) {
	if h.reports == nil || req.RunID == "" {
		return
	}

	code := string(errcodes.InternalServerError)
	if c, ok := domain.GetCode(runErr); ok {
		code = string(c)
	}

	report := entity.NewFailedReport(req, runErr, code, h.now().UTC())
	if err := h.reports.Save(context.WithoutCancel(ctx), report); err != nil {
		logger(ctx).Error("reports.Save", logx.Error(err))
		return
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyReport(ctx, report); err != nil {
			logger(ctx).Warn("notifier.NotifyReport", logx.Error(err))
		}
	}
}

// lastAttempt is true outside asynq too, where nothing retries the task.
func lastAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}

	limit, ok := asynq.GetMaxRetry(ctx)

	return !ok || retried >= limit
}
