package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Pipeline error kinds.
	Unauthenticated failure.ErrorCode = "Unauthenticated"
	NetworkFailure  failure.ErrorCode = "NetworkFailure"
	NoResults       failure.ErrorCode = "NoResults"

	// Request validation.
	InvalidBudget    failure.ErrorCode = "InvalidBudget"
	InvalidMargin    failure.ErrorCode = "InvalidMargin"
	InvalidStoreName failure.ErrorCode = "InvalidStoreName"
	OffTopicGoal     failure.ErrorCode = "OffTopicGoal"

	// Lookups.
	StoreNotFound failure.ErrorCode = "StoreNotFound"
	RunNotFound   failure.ErrorCode = "RunNotFound"

	// Upstream responses that are neither auth nor transient.
	UpstreamRejected  failure.ErrorCode = "UpstreamRejected"
	MalformedResponse failure.ErrorCode = "MalformedResponse"

	QueueUnavailable failure.ErrorCode = "QueueUnavailable"
)
