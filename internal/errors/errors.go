package errors

import (
	"errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeMissingArgument   ErrCode = "MISSING_ARGUMENT"
	ErrCodeInvalidArgument   ErrCode = "INVALID_ARGUMENT"
	ErrCodeNetworkFailure    ErrCode = "NETWORK_FAILURE"
	ErrCodeMalformedResponse ErrCode = "MALFORMED_RESPONSE"
	ErrCodeDuplicateOwner    ErrCode = "DUPLICATE_OWNER"
	ErrCodeDuplicateRecord   ErrCode = "DUPLICATE_RECORD"
	ErrCodeNotFound          ErrCode = "NOT_FOUND"
	ErrCodeInternal          ErrCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewMissingArgumentError creates a new missing argument error
func NewMissingArgumentError(name string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingArgument,
		Message: fmt.Sprintf("%s argument is required", name),
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(name, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("%s: %s", name, message),
	}
}

// NewNetworkFailureError creates a new network failure error
func NewNetworkFailureError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeNetworkFailure,
		Message: message,
		Err:     err,
	}
}

// NewMalformedResponseError creates a new malformed response error
func NewMalformedResponseError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedResponse,
		Message: message,
		Err:     err,
	}
}

// NewDuplicateOwnerError creates a new duplicate owner error
func NewDuplicateOwnerError(owner string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateOwner,
		Message: fmt.Sprintf("repositories for %s are already cached, use --refresh to refetch", owner),
	}
}

// NewDuplicateRecordError creates a new duplicate record error
func NewDuplicateRecordError(htmlURL string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateRecord,
		Message: fmt.Sprintf("repository %s already exists", htmlURL),
		Err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" if there is none
func CodeOf(err error) ErrCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsMissingArgument checks if the error is a missing argument error
func IsMissingArgument(err error) bool {
	return CodeOf(err) == ErrCodeMissingArgument
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return CodeOf(err) == ErrCodeInvalidArgument
}

// IsNetworkFailure checks if the error is a network failure error
func IsNetworkFailure(err error) bool {
	return CodeOf(err) == ErrCodeNetworkFailure
}

// IsMalformedResponse checks if the error is a malformed response error
func IsMalformedResponse(err error) bool {
	return CodeOf(err) == ErrCodeMalformedResponse
}

// IsDuplicateOwner checks if the error is a duplicate owner error
func IsDuplicateOwner(err error) bool {
	return CodeOf(err) == ErrCodeDuplicateOwner
}

// IsDuplicateRecord checks if the error is a duplicate record error
func IsDuplicateRecord(err error) bool {
	return CodeOf(err) == ErrCodeDuplicateRecord
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}
