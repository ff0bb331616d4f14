package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/internal/domain/value"
	"storepilot/internal/transport/queue"
	"storepilot/pkg/errcodes"
)

type fakeClient struct {
	task *asynq.Task
}

func (f *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.task = task
	return &asynq.TaskInfo{ID: "task-1", Queue: "pipeline"}, nil
}

type fakeRunner struct {
	got entity.RunRequest
	err error
}

func (f *fakeRunner) Run(_ context.Context, req entity.RunRequest) (entity.Report, error) {
	f.got = req
	if f.err != nil {
		return entity.Report{}, f.err
	}

	return entity.Report{RunID: req.RunID}, nil
}

type fakeReports struct {
	saved []entity.Report
}

func (f *fakeReports) Save(_ context.Context, r entity.Report) error {
	f.saved = append(f.saved, r)
	return nil
}

type fakeNotifier struct {
	reports []entity.Report
}

func (f *fakeNotifier) NotifyReport(_ context.Context, r entity.Report) error {
	f.reports = append(f.reports, r)
	return nil
}

func TestEnqueueThenProcess(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	client := &fakeClient{}

	accepted, err := queue.NewEnqueuer(client, "pipeline").Enqueue(ctx, entity.RunRequest{Goal: "pet toys", Budget: 100})
	rq.NoError(err)
	rq.Equal("task-1", accepted.TaskID)
	rq.Equal("pipeline", accepted.Queue)
	rq.NotEmpty(accepted.RunID)
	rq.Equal(queue.TypePipelineRun, client.task.Type())

	runner := &fakeRunner{}
	notifier := &fakeNotifier{}

	rq.NoError(queue.NewHandler(runner).WithNotifier(notifier).ProcessTask(ctx, client.task))
	rq.Equal(accepted.RunID, runner.got.RunID)
	rq.Equal("pet toys", runner.got.Goal)
	rq.Len(notifier.reports, 1)
}

func TestProcessTaskRetryPolicy(t *testing.T) {
	rq := require.New(t)

	task, err := queue.NewPipelineRunTask(entity.RunRequest{Goal: "x", Budget: 1})
	rq.NoError(err)

	testCases := []struct {
		name      string
		err       error
		skipRetry bool
	}{
		{name: "Validation", err: domain.NewValidationError(errcodes.InvalidBudget, "budget"), skipRetry: true},
		{name: "Auth", err: domain.NewAuthenticationError("gemini", errors.New("401")), skipRetry: true},
		{name: "Network", err: domain.NewNetworkError("serpapi", errors.New("reset")), skipRetry: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			err := queue.NewHandler(&fakeRunner{err: tc.err}).ProcessTask(context.Background(), task)
			rq.Error(err)
			rq.Equal(tc.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}

	err = queue.NewHandler(&fakeRunner{}).ProcessTask(context.Background(), asynq.NewTask(queue.TypePipelineRun, []byte("{")))
	rq.ErrorIs(err, asynq.SkipRetry)
}

func TestProcessTaskSavesFailedRun(t *testing.T) {
	rq := require.New(t)

	req := entity.RunRequest{RunID: "run-42", Goal: "write me a poem", Budget: 30}

	task, err := queue.NewPipelineRunTask(req)
	rq.NoError(err)

	testCases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "Off topic goal",
			err:      domain.NewValidationError(errcodes.OffTopicGoal, "goal is not about e-commerce"),
			wantCode: string(errcodes.OffTopicGoal),
		},
		{
			name:     "Rejected store key",
			err:      domain.NewAuthenticationError("storehost", errors.New("401")),
			wantCode: string(errcodes.Unauthenticated),
		},
		{
			name:     "Network outside asynq",
			err:      domain.NewNetworkError("serpapi", errors.New("reset")),
			wantCode: string(errcodes.NetworkFailure),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			reports := &fakeReports{}
			notifier := &fakeNotifier{}

			err := queue.NewHandler(&fakeRunner{err: tc.err}).
				WithReports(reports).
				WithNotifier(notifier).
				ProcessTask(context.Background(), task)
			rq.Error(err)

			rq.Len(reports.saved, 1)

			saved := reports.saved[0]
			rq.Equal("run-42", saved.RunID)
			rq.Equal(value.OutcomeFailed, saved.Outcome)
			rq.NotNil(saved.Failure)
			rq.Equal(tc.wantCode, saved.Failure.Code)
			rq.Len(notifier.reports, 1)
		})
	}
}

func TestProcessTaskKeepsReportOfStartedRun(t *testing.T) {
	rq := require.New(t)

	task, err := queue.NewPipelineRunTask(entity.RunRequest{RunID: "run-43", Goal: "pet toys", Budget: 30})
	rq.NoError(err)

	reports := &fakeReports{}

	err = queue.NewHandler(startedRunner{}).WithReports(reports).ProcessTask(context.Background(), task)
	rq.ErrorIs(err, asynq.SkipRetry)
	rq.Empty(reports.saved)
}

// startedRunner fails mid-run, after the orchestrator saved its own report.
type startedRunner struct{}

func (startedRunner) Run(_ context.Context, req entity.RunRequest) (entity.Report, error) {
	return entity.Report{RunID: req.RunID}, domain.NewAuthenticationError("sendgrid", errors.New("401"))
}
