package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
	"storepilot/pkg/metrics"
)

// errStop прерывает цепочку без ошибки: дальше делать нечего.
var errStop = errors.New("stop")

type run struct {
	o      *Orchestrator
	req    entity.RunRequest
	store  string
	report entity.Report

	// лучший поставщик по каждому товару, для переговоров и сроков доставки
	best map[string]entity.Supplier
}

func (r *run) execute(ctx context.Context) error {
	steps := []struct {
		step value.Step
		fn   func(ctx context.Context) (value.SectionStatus, error)
	}{
		{value.StepScanTrends, r.scanTrends},
		{value.StepFilterMargin, r.filterMargin},
		{value.StepFindSuppliers, r.findSuppliers},
		{value.StepDraftNegotiation, r.draftNegotiation},
		{value.StepProvisionStore, r.provisionStore},
		{value.StepGenerateCompliance, r.generateCompliance},
		{value.StepPredictAds, r.predictAds},
	}

	for _, s := range steps {
		if !slices.Contains(r.report.Plan, s.step) {
			continue
		}

		if err := ctx.Err(); err != nil {
			r.report.Outcome = value.OutcomeFailed
			return fmt.Errorf("pipeline.Run: %w", err)
		}

		stop, err := r.runStep(ctx, s.step, s.fn)
		if err != nil {
			r.report.Outcome = value.OutcomeFailed
			return fmt.Errorf("pipeline.Run(%s): %w", s.step, err)
		}

		if stop {
			return nil
		}
	}

	return nil
}

// runStep возвращает stop=true, если следующие шаги не имеют смысла.
// Ошибка возвращается только для фатальных (auth) случаев.
func (r *run) runStep(
	ctx context.Context,
	step value.Step,
	fn func(ctx context.Context) (value.SectionStatus, error),
) (bool, error) {
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldStep, step.String())))
	start := time.Now()

	status, err := fn(ctx)

	metrics.PipelineStepDuration.WithLabelValues(step.String()).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, errStop):
		metrics.PipelineSteps.WithLabelValues(step.String(), string(status)).Inc()
		r.report.Mark(step, status, nil, "")

		return true, nil
	case err == nil:
		metrics.PipelineSteps.WithLabelValues(step.String(), string(status)).Inc()
		r.report.Mark(step, status, nil, "")

		return false, nil
	}

	code, _ := domain.GetCode(err)

	metrics.PipelineSteps.WithLabelValues(step.String(), string(value.SectionFailed)).Inc()
	r.report.Mark(step, value.SectionFailed, err, string(code))

	if domain.IsAuthentication(err) {
		return true, err
	}

	logger(ctx).Warn("step failed", logx.Error(err))

	if step == value.StepScanTrends {
		// без товаров остальные шаги бессмысленны
		r.report.Outcome = value.OutcomeFailed
		return true, nil
	}

	return false, nil
}

func (r *run) scanTrends(ctx context.Context) (value.SectionStatus, error) {
	products, err := r.o.handlers.Trends.Scan(ctx, categories(r.req))
	if err != nil {
		if domain.IsNoResults(err) {
			r.report.Outcome = value.OutcomeNoResults
			return value.SectionEmpty, errStop
		}

		return value.SectionFailed, fmt.Errorf("trends.Scan: %w", err)
	}

	r.report.Products = products

	return value.SectionOK, nil
}

func (r *run) filterMargin(context.Context) (value.SectionStatus, error) {
	selected := Filter(r.report.Products, r.req.MinMargin, r.req.Budget)
	if len(selected) == 0 {
		r.report.Outcome = value.OutcomeNoResults
		return value.SectionEmpty, errStop
	}

	if len(selected) > r.o.topProducts {
		selected = selected[:r.o.topProducts]
	}

	r.report.Selected = selected

	return value.SectionOK, nil
}

func (r *run) findSuppliers(ctx context.Context) (value.SectionStatus, error) {
	type result struct {
		suppliers []entity.Supplier
		failures  []entity.SupplierFailure
		err       error
	}

	results := make([]result, len(r.report.Selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.o.concurrency)

	for i, product := range r.report.Selected {
		g.Go(func() error {
			suppliers, failures, err := r.o.handlers.Suppliers.Find(gctx, product, r.req.MaxSuppliers)
			if domain.IsAuthentication(err) {
				return err
			}

			results[i] = result{suppliers: suppliers, failures: failures, err: err}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return value.SectionFailed, err //nolint:wrapcheck
	}

	r.best = make(map[string]entity.Supplier, len(results))

	var (
		errs      []error
		succeeded int
	)

	for i, res := range results {
		r.report.SupplierFailures = append(r.report.SupplierFailures, res.failures...)

		switch {
		case res.err == nil:
			succeeded++
		case domain.IsNoResults(res.err):
			succeeded++
			continue
		default:
			errs = append(errs, res.err)
			continue
		}

		r.report.Suppliers = append(r.report.Suppliers, res.suppliers...)

		if len(res.suppliers) > 0 {
			r.best[r.report.Selected[i].Name] = res.suppliers[0]
		}
	}

	switch {
	case succeeded == 0 && len(errs) > 0:
		return value.SectionFailed, errors.Join(errs...)
	case len(r.report.Suppliers) == 0:
		return value.SectionEmpty, nil
	default:
		return value.SectionOK, nil
	}
}

func (r *run) draftNegotiation(ctx context.Context) (value.SectionStatus, error) {
	if len(r.best) == 0 {
		return value.SectionSkipped, nil
	}

	var errs []error

	for _, product := range r.report.Selected {
		supplier, ok := r.best[product.Name]
		if !ok {
			continue
		}

		draft, err := r.o.handlers.Negotiation.Draft(ctx, supplier, product, r.req.Quantity)
		if err != nil {
			if domain.IsAuthentication(err) {
				return value.SectionFailed, err //nolint:wrapcheck
			}

			errs = append(errs, err)

			continue
		}

		draft.DryRun = r.req.DryRun

		if r.req.SendEmails {
			draft, err = r.o.handlers.Negotiation.Send(ctx, draft, true)
			if err != nil {
				if domain.IsAuthentication(err) {
					return value.SectionFailed, err //nolint:wrapcheck
				}

				errs = append(errs, err)
			}
		}

		r.report.Negotiations = append(r.report.Negotiations, draft)
	}

	if len(r.report.Negotiations) == 0 && len(errs) > 0 {
		return value.SectionFailed, errors.Join(errs...)
	}

	return value.SectionOK, nil
}

func (r *run) provisionStore(ctx context.Context) (value.SectionStatus, error) {
	if r.req.DryRun {
		logger(ctx).Info("dry run, store not provisioned", slog.String(logx.FieldStore, r.store))
		return value.SectionSkipped, nil
	}

	record, err := r.o.handlers.Store.Provision(ctx, r.store, r.report.Selected)
	if err != nil {
		return value.SectionFailed, fmt.Errorf("store.Provision: %w", err)
	}

	r.report.Store = &record

	return value.SectionOK, nil
}

func (r *run) generateCompliance(ctx context.Context) (value.SectionStatus, error) {
	record := entity.StoreRecord{Name: r.store}
	if r.report.Store != nil {
		record = *r.report.Store
	}

	docs, err := r.o.handlers.Compliance.Draft(ctx, record, r.report.Selected, r.leadDays())
	if err != nil {
		return value.SectionFailed, fmt.Errorf("compliance.Draft: %w", err)
	}

	r.report.Policies = docs

	return value.SectionOK, nil
}

func (r *run) predictAds(context.Context) (value.SectionStatus, error) {
	ads := make([]entity.AdPrediction, 0, len(r.report.Selected))

	for _, product := range r.report.Selected {
		ads = append(ads, r.o.handlers.Ads.Predict(product, r.req.AdCopy))
	}

	r.report.Ads = ads

	return value.SectionOK, nil
}

func (r *run) leadDays() int {
	days := 0

	for _, s := range r.best {
		days = max(days, int(s.LeadTime.Hours()/24))
	}

	return days
}
