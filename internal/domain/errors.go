package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"storepilot/pkg/errcodes"
)

// AppError представляет доменную ошибку приложения.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// ErrorCode и Description нужны reply.Error для выбора HTTP-статуса.
func (e *AppError) ErrorCode() failure.ErrorCode {
	return e.Code
}

func (e *AppError) Description() string {
	return e.Message
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func NewAuthenticationError(provider string, cause error) *AppError {
	return WrapError(cause, errcodes.Unauthenticated, provider+": authentication failed")
}

func NewNetworkError(provider string, cause error) *AppError {
	return WrapError(cause, errcodes.NetworkFailure, provider+": unreachable")
}

func NewNoResultsError(message string) *AppError {
	return NewError(errcodes.NoResults, message)
}

func NewValidationError(code failure.ErrorCode, message string) *AppError {
	return NewError(code, message)
}

// IsAppError проверяет, является ли ошибка доменной.
func IsAppError(err error) bool {
	var appErr *AppError

	return errors.As(err, &appErr)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}

	return "", false
}

func IsAuthentication(err error) bool {
	return hasCode(err, errcodes.Unauthenticated)
}

func IsNetwork(err error) bool {
	return hasCode(err, errcodes.NetworkFailure, errcodes.TimeoutExceeded)
}

func IsNoResults(err error) bool {
	return hasCode(err, errcodes.NoResults)
}

// IsValidation также учитывает invalid-argument ошибки failure из слоя транспорта.
func IsValidation(err error) bool {
	if failure.IsInvalidArgumentError(err) {
		return true
	}

	return hasCode(err,
		errcodes.ValidationError,
		errcodes.InvalidBudget,
		errcodes.InvalidMargin,
		errcodes.InvalidStoreName,
		errcodes.OffTopicGoal,
	)
}

func hasCode(err error, codes ...failure.ErrorCode) bool {
	code, ok := GetCode(err)
	if !ok {
		return false
	}

	for _, c := range codes {
		if code == c {
			return true
		}
	}

	return false
}
