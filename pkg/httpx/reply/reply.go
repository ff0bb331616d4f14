package reply

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"storepilot/pkg/contextx"
	"storepilot/pkg/errcodes"
	"storepilot/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

// codedError is implemented by domain errors that carry their own code.
type codedError interface {
	error
	ErrorCode() failure.ErrorCode
	Description() string
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("error", logx.Error(err))

	var coded codedError
	if errors.As(err, &coded) {
		response := errorResponse{
			Code:      coded.ErrorCode().String(),
			Message:   coded.Description(),
			SupportID: supportID(ctx),
		}

		JSON(ctx, w, StatusFor(coded.ErrorCode()), response)

		return
	}

	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
		JSON(ctx, w, http.StatusBadRequest, response)
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
		JSON(ctx, w, http.StatusNotFound, response)
	case failure.IsUnauthorizedError(err):
		response.WithDefaultCode(errcodes.Unauthenticated)
		JSON(ctx, w, http.StatusUnauthorized, response)
	case failure.IsForbiddenError(err):
		response.WithDefaultCode(errcodes.Forbidden)
		JSON(ctx, w, http.StatusForbidden, response)
	case failure.IsConflictError(err):
		JSON(ctx, w, http.StatusConflict, response)
	case failure.IsUnprocessableEntityError(err):
		JSON(ctx, w, http.StatusUnprocessableEntity, response)
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

// StatusFor maps an application error code onto an HTTP status.
func StatusFor(code failure.ErrorCode) int {
	switch code {
	case errcodes.ValidationError, errcodes.InvalidBudget, errcodes.InvalidMargin,
		errcodes.InvalidStoreName, errcodes.OffTopicGoal:
		return http.StatusBadRequest
	case errcodes.Unauthenticated:
		return http.StatusUnauthorized
	case errcodes.NotFound, errcodes.NoResults, errcodes.StoreNotFound, errcodes.RunNotFound:
		return http.StatusNotFound
	case errcodes.NetworkFailure:
		return http.StatusBadGateway
	case errcodes.TimeoutExceeded:
		return http.StatusGatewayTimeout
	case errcodes.QueueUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
