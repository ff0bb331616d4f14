package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
	"storepilot/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultTopProducts = 3
	defaultConcurrency = 4
)

type TrendScanner interface {
	Scan(ctx context.Context, categories []string) ([]entity.Product, error)
}

type SupplierFinder interface {
	Find(ctx context.Context, product entity.Product, limit int) ([]entity.Supplier, []entity.SupplierFailure, error)
}

type NegotiationDrafter interface {
	Draft(ctx context.Context, supplier entity.Supplier, product entity.Product, quantity int) (entity.NegotiationResult, error)
	Send(ctx context.Context, draft entity.NegotiationResult, confirm bool) (entity.NegotiationResult, error)
}

type StoreProvisioner interface {
	Provision(ctx context.Context, name string, products []entity.Product) (entity.StoreRecord, error)
}

type ComplianceDrafter interface {
	Draft(ctx context.Context, store entity.StoreRecord, products []entity.Product, leadDays int) ([]entity.PolicyDocument, error)
}

type AdPredictor interface {
	Predict(product entity.Product, headline string) entity.AdPrediction
}

type GoalGuard interface {
	Check(ctx context.Context, goal string) error
}

type ReportRepository interface {
	Save(ctx context.Context, report entity.Report) error
}

type Handlers struct {
	Trends      TrendScanner
	Suppliers   SupplierFinder
	Negotiation NegotiationDrafter
	Store       StoreProvisioner
	Compliance  ComplianceDrafter
	Ads         AdPredictor
}

// Orchestrator прогоняет шаги в фиксированном порядке и собирает отчёт.
type Orchestrator struct {
	handlers    Handlers
	preflight   *Preflight
	planner     Planner
	guard       GoalGuard
	reports     ReportRepository
	topProducts int
	concurrency int
	now         func() time.Time
}

func NewOrchestrator(handlers Handlers, preflight *Preflight) *Orchestrator {
	return &Orchestrator{
		handlers:    handlers,
		preflight:   preflight,
		planner:     FixedPlanner{},
		topProducts: defaultTopProducts,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
}

func (o *Orchestrator) WithPlanner(p Planner) *Orchestrator {
	if p != nil {
		o.planner = p
	}

	return o
}

func (o *Orchestrator) WithGuard(g GoalGuard) *Orchestrator {
	o.guard = g
	return o
}

func (o *Orchestrator) WithReports(r ReportRepository) *Orchestrator {
	o.reports = r
	return o
}

func (o *Orchestrator) WithTopProducts(n int) *Orchestrator {
	if n > 0 {
		o.topProducts = n
	}

	return o
}

func (o *Orchestrator) WithConcurrency(n int) *Orchestrator {
	if n > 0 {
		o.concurrency = n
	}

	return o
}

func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Run executes one pipeline run. Validation and authentication failures are
// returned as errors; every other step failure is recorded in the report.
// Credentials are checked before the goal guard, which may call the LLM.
func (o *Orchestrator) Run(ctx context.Context, req entity.RunRequest) (entity.Report, error) {
	req = req.WithDefaults()

	if err := Validate(req); err != nil {
		return entity.Report{}, err
	}

	name, err := storeName(req)
	if err != nil {
		return entity.Report{}, err
	}

	if req.RunID == "" {
		req.RunID = xid.New().String()
	}

	ctx = contextx.WithRunID(ctx, contextx.RunID(req.RunID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldRunID, req.RunID)))

	if o.preflight != nil {
		if err := o.preflight.Check(ctx, req); err != nil {
			metrics.PipelineRuns.WithLabelValues(string(value.OutcomeFailed)).Inc()
			return entity.Report{}, err
		}
	}

	// guard может звать LLM, поэтому только после проверки ключей
	if o.guard != nil {
		if err := o.guard.Check(ctx, req.Goal); err != nil {
			metrics.PipelineRuns.WithLabelValues(string(value.OutcomeFailed)).Inc()
			return entity.Report{}, fmt.Errorf("guard.Check: %w", err)
		}
	}

	plan, err := o.planner.Plan(ctx, req)
	if err != nil {
		if domain.IsAuthentication(err) {
			return entity.Report{}, fmt.Errorf("planner.Plan: %w", err)
		}

		logger(ctx).Warn("planner failed, using fixed plan", logx.Error(err))

		plan = value.Steps()
	}

	plan = Restrict(plan)

	logger(ctx).Info("run started", slog.String("goal", req.Goal), slog.Any("plan", plan))

	r := &run{
		o:      o,
		req:    req,
		store:  name,
		report: entity.NewReport(req.RunID, req, plan, o.now().UTC()),
	}

	runErr := r.execute(ctx)

	r.report.FinishedAt = o.now().UTC()

	metrics.PipelineRuns.WithLabelValues(string(r.report.Outcome)).Inc()

	if o.reports != nil {
		if err := o.reports.Save(context.WithoutCancel(ctx), r.report); err != nil {
			logger(ctx).Error("reports.Save", logx.Error(err))
		}
	}

	logger(ctx).Info("run finished",
		slog.String("outcome", string(r.report.Outcome)),
		slog.Int("products", len(r.report.Selected)),
		slog.Int("suppliers", len(r.report.Suppliers)),
	)

	return r.report, runErr
}
