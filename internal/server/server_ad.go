package server

import (
	"fmt"
	"net/http"

	"storepilot/internal/domain/entity"
	"storepilot/pkg/httpx/reply"
	"storepilot/pkg/httpx/req"
	"storepilot/pkg/rest"
)

type adPredictor interface {
	Predict(product entity.Product, headline string) entity.AdPrediction
}

type AdServer struct {
	predictor adPredictor
}

func NewAdServer(predictor adPredictor) AdServer {
	return AdServer{predictor: predictor}
}

func (s AdServer) postV1AdPredict(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.AdPredictRequest

	if err := req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	product := entity.Product{
		Name:       request.ProductName,
		Price:      request.Price,
		TrendScore: request.TrendScore,
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTAdPrediction(s.predictor.Predict(product, request.Headline)))

	return nil
}
