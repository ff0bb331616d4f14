package server

import (
	"context"
	"fmt"
	"net/http"

	"storepilot/internal/domain"
	"storepilot/internal/domain/entity"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/httpx/reply"
	"storepilot/pkg/httpx/req"
	"storepilot/pkg/rest"
)

type pipelineRunner interface {
	Run(ctx context.Context, req entity.RunRequest) (entity.Report, error)
}

type runEnqueuer interface {
	Enqueue(ctx context.Context, req entity.RunRequest) (rest.RunAccepted, error)
}

type reportReader interface {
	GetByRunID(ctx context.Context, runID string) (entity.Report, error)
}

type RunServer struct {
	runner   pipelineRunner
	enqueuer runEnqueuer
	reports  reportReader
}

func NewRunServer(runner pipelineRunner, enqueuer runEnqueuer, reports reportReader) RunServer {
	return RunServer{
		runner:   runner,
		enqueuer: enqueuer,
		reports:  reports,
	}
}

func (s RunServer) postV1Run(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.RunRequest

	if err := req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	report, err := s.runner.Run(ctx, newDomainRunRequest(request))
	if err != nil {
		return fmt.Errorf("runner.Run: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, report)

	return nil
}

func (s RunServer) postV1RunAsync(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.RunRequest

	if err := req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if s.enqueuer == nil {
		return domain.NewError(errcodes.QueueUnavailable, "async runs need REDIS_ADDRESS")
	}

	accepted, err := s.enqueuer.Enqueue(ctx, newDomainRunRequest(request))
	if err != nil {
		return fmt.Errorf("enqueuer.Enqueue: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, accepted)

	return nil
}

func (s RunServer) getV1Run(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	report, err := s.reports.GetByRunID(ctx, r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("reports.GetByRunID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, report)

	return nil
}
