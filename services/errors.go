package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the stable category the API layer maps to a response class.
// Internal storage error text never leaves the service layer.
type ErrorKind string

const (
	KindInternal           ErrorKind = "internal"
	KindInvalid            ErrorKind = "invalid"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindCycleDetected      ErrorKind = "cycle_detected"
	KindCrossDepartment    ErrorKind = "cross_department"
	KindVersionMismatch    ErrorKind = "version_mismatch"
	KindStorageWriteFailed ErrorKind = "storage_write_failed"
	KindTimeout            ErrorKind = "timeout"
	KindPermissionDenied   ErrorKind = "permission_denied"
)

type AppError struct {
	Kind     ErrorKind
	HTTPCode int
	Message  string
	Data     interface{}
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newAppError(httpCode int, message string, err error) *AppError {
	return &AppError{Kind: KindInternal, HTTPCode: httpCode, Message: message, Err: err}
}

func newInvalid(message string) *AppError {
	return &AppError{Kind: KindInvalid, HTTPCode: http.StatusBadRequest, Message: message}
}

func newNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, HTTPCode: http.StatusNotFound, Message: message}
}

func newConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, HTTPCode: http.StatusConflict, Message: message}
}

func newCycleDetected(message string) *AppError {
	return &AppError{Kind: KindCycleDetected, HTTPCode: http.StatusConflict, Message: message}
}

func newCrossDepartment(message string) *AppError {
	return &AppError{Kind: KindCrossDepartment, HTTPCode: http.StatusConflict, Message: message}
}

func newVersionMismatch(message string) *AppError {
	return &AppError{Kind: KindVersionMismatch, HTTPCode: http.StatusConflict, Message: message}
}

func newStorageWriteFailed(message string, err error) *AppError {
	return &AppError{Kind: KindStorageWriteFailed, HTTPCode: http.StatusBadGateway, Message: message, Err: err}
}

func newTimeout(message string, err error) *AppError {
	return &AppError{Kind: KindTimeout, HTTPCode: http.StatusGatewayTimeout, Message: message, Err: err}
}

func newPermissionDenied(message string) *AppError {
	return &AppError{Kind: KindPermissionDenied, HTTPCode: http.StatusForbidden, Message: message}
}

// KindOf extracts the error kind; non-AppError values are internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// storageError classifies a blob-layer failure: deadline overruns become
// Timeout, everything else StorageWriteFailed.
func storageError(op string, err error) *AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newTimeout(op+" timed out", err)
	}
	return newStorageWriteFailed(op+" failed", err)
}
