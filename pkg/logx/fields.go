package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldAttempt         = "attempt"
	FieldCategory        = "category"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldProduct         = "product"
	FieldProvider        = "provider"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldRoute           = "route"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldRunID           = "run-id"
	FieldStack           = "stack"
	FieldStep            = "step"
	FieldStore           = "store"
	FieldSupplierID      = "supplier-id"
	FieldTaskID          = "task-id"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
)
