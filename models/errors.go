package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout      = "DEVICE_TIMEOUT"
	ErrCodeUnreachable  = "DEVICE_UNREACHABLE"
	ErrCodeHTTPStatus   = "DEVICE_HTTP_STATUS"
	ErrCodeReadFailed   = "DEVICE_READ_FAILED"
	ErrCodeUnavailable  = "DEVICE_UNAVAILABLE"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FetchError is the error type returned by the device fetcher.
// StatusCode is set only for ErrCodeHTTPStatus.
type FetchError struct {
	Code       string
	Message    string
	StatusCode int
	Err        error // wrapped original error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(code, message string, err error) *FetchError {
	return &FetchError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *FetchError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
