package domain

import (
	"errors"
	"fmt"
)

// ErrorKind splits failures into user mistakes and runtime faults.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindUser
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUser    = 2
)

// ExitCode maps the kind to the process exit status.
func (k ErrorKind) ExitCode() int {
	if k == KindUser {
		return ExitUser
	}
	return ExitRuntime
}

func (k ErrorKind) String() string {
	if k == KindUser {
		return "user"
	}
	return "runtime"
}

// ErrorCode is a stable machine token surfaced as error.code.
type ErrorCode string

const (
	CodeInvalidInput           ErrorCode = "user.invalid_input"
	CodeMissingCredential      ErrorCode = "user.missing_credential"
	CodeOutputModeConflict     ErrorCode = "user.output_mode_conflict"
	CodeReadmeNotFound         ErrorCode = "user.readme_not_found"
	CodeRemoteImageNotAllowed  ErrorCode = "user.remote_image_not_allowed"
	CodeUpstreamUnavailable    ErrorCode = "runtime.upstream_unavailable"
	CodeUpstreamInvalidPayload ErrorCode = "runtime.upstream_invalid_response"
	CodeStorageFailure         ErrorCode = "runtime.storage_failure"
	CodeInternal               ErrorCode = "runtime.internal"
)

// Kind derives the error kind from the code prefix.
func (c ErrorCode) Kind() ErrorKind {
	switch c {
	case CodeInvalidInput, CodeMissingCredential, CodeOutputModeConflict,
		CodeReadmeNotFound, CodeRemoteImageNotAllowed:
		return KindUser
	default:
		return KindRuntime
	}
}

// AppError is the typed failure every layer hands to the CLI edge.
type AppError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Details   map[string]interface{}
	Err       error
}

// NewError builds an AppError for code.
func NewError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// UserError is a shorthand for user.invalid_input style failures.
func UserError(code ErrorCode, format string, args ...interface{}) *AppError {
	return NewError(code, fmt.Sprintf(format, args...))
}

// InvalidInput reports a rejected user or config value.
func InvalidInput(format string, args ...interface{}) *AppError {
	return NewError(CodeInvalidInput, fmt.Sprintf(format, args...))
}

// StorageFailure wraps a local I/O error.
func StorageFailure(message string, err error) *AppError {
	return &AppError{Code: CodeStorageFailure, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind reports whether the error is a user or runtime failure.
func (e *AppError) Kind() ErrorKind {
	return e.Code.Kind()
}

// WithDetail attaches one detail entry and returns e.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

// AsAppError extracts an AppError from err, falling back to runtime.internal.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: CodeInternal, Message: err.Error(), Err: err}
}
