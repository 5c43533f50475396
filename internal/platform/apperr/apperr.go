// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

/*
Package apperr defines the centralized error handling framework for Tipon.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Meta: Structured diagnostic values (e.g. observed count vs. limit) safe for clients.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the Tipon API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, an optional slice of field-level validation errors, and an optional
// metadata block with structured diagnostics.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CAPACITY_EXCEEDED").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
	// Meta holds structured, client-safe diagnostic values
	// (e.g. current_count and limit for CAPACITY_EXCEEDED).
	Meta map[string]any `json:"meta,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Registration") // Returns "Registration not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// CapacityExceeded creates a 400 [AppError] raised when the admission gate is
// closed at write time. The observed count and the configured limit travel in
// the Meta block so the client can render a precise message.
func CapacityExceeded(currentCount, limit int) *AppError {
	return &AppError{
		Code:       "CAPACITY_EXCEEDED",
		Message:    "Registration is closed: the capacity limit has been reached",
		HTTPStatus: http.StatusBadRequest,
		Meta: map[string]any{
			"current_count": currentCount,
			"limit":         limit,
		},
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Unprocessable creates a 422 [AppError] for semantically invalid input.
func Unprocessable(msg string) *AppError {
	return &AppError{
		Code:       "UNPROCESSABLE",
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// AllocationExhausted creates a 503 [AppError] raised when the transaction-id
// allocator hits its retry bound. A hundred consecutive collisions in a 36^6
// keyspace means the existence check itself is systemically broken.
func AllocationExhausted(attempts int, cause error) *AppError {
	return &AppError{
		Code:       "ALLOCATION_EXHAUSTED",
		Message:    "Could not allocate a transaction id. Please try again later.",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
		Meta:       map[string]any{"attempts": attempts},
	}
}

// Timeout creates a 504 [AppError] for a bounded storage or blob operation
// that exceeded its deadline.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code:       "TIMEOUT",
		Message:    "The operation took too long. Please try again later.",
		HTTPStatus: http.StatusGatewayTimeout,
		Cause:      fmt.Errorf("%s: %w", operation, cause),
	}
}

// Inconsistent creates a 500 [AppError] for an unrecoverable partial failure:
// a compensating delete failed after a detail-write failure, leaving an orphan
// header that requires manual reconciliation.
func Inconsistent(msg string, cause error) *AppError {
	return &AppError{
		Code:       "INCONSISTENT_STATE",
		Message:    msg,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries the given machine-readable code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
