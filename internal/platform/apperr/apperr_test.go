// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipon-events/tipon/internal/platform/apperr"
)

/*
TestConstructors_StatusMapping verifies each constructor maps to its HTTP
status and machine code.
*/
func TestConstructors_StatusMapping(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *apperr.AppError
		wantCode   string
		wantStatus int
	}{
		{"not_found", apperr.NotFound("Registration"), "NOT_FOUND", http.StatusNotFound},
		{"conflict", apperr.Conflict("duplicate"), "CONFLICT", http.StatusConflict},
		{"validation", apperr.ValidationError("bad input"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"capacity", apperr.CapacityExceeded(50, 50), "CAPACITY_EXCEEDED", http.StatusBadRequest},
		{"rate_limited", apperr.RateLimited(1), "RATE_LIMITED", http.StatusTooManyRequests},
		{"unprocessable", apperr.Unprocessable("no room"), "UNPROCESSABLE", http.StatusUnprocessableEntity},
		{"internal", apperr.Internal(cause), "INTERNAL_ERROR", http.StatusInternalServerError},
		{"exhausted", apperr.AllocationExhausted(100, cause), "ALLOCATION_EXHAUSTED", http.StatusServiceUnavailable},
		{"timeout", apperr.Timeout("insert_header", cause), "TIMEOUT", http.StatusGatewayTimeout},
		{"inconsistent", apperr.Inconsistent("orphan header", cause), "INCONSISTENT_STATE", http.StatusInternalServerError},
		{"maintenance", apperr.ServiceUnavailable("down for maintenance"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

/*
TestCapacityExceeded_Meta verifies the observed count and limit are carried
in the client-safe metadata block.
*/
func TestCapacityExceeded_Meta(t *testing.T) {
	err := apperr.CapacityExceeded(73, 50)

	require.NotNil(t, err.Meta)
	assert.Equal(t, 73, err.Meta["current_count"])
	assert.Equal(t, 50, err.Meta["limit"])
}

/*
TestUnwrap_PreservesCauseChain verifies errors.Is can see through an AppError
to the original cause.
*/
func TestUnwrap_PreservesCauseChain(t *testing.T) {
	root := errors.New("connection reset")
	wrapped := apperr.Internal(fmt.Errorf("insert failed: %w", root))

	assert.ErrorIs(t, wrapped, root)
	assert.Equal(t, "An unexpected error occurred", wrapped.Error())
}

/*
TestHelpers_ExtractionAndCodeChecks covers IsAppError, As, and IsCode against
wrapped and plain errors.
*/
func TestHelpers_ExtractionAndCodeChecks(t *testing.T) {
	appErr := apperr.NotFound("Scope")
	wrapped := fmt.Errorf("lookup: %w", appErr)
	plain := errors.New("plain")

	assert.True(t, apperr.IsAppError(wrapped))
	assert.False(t, apperr.IsAppError(plain))

	extracted := apperr.As(wrapped)
	require.NotNil(t, extracted)
	assert.Equal(t, "NOT_FOUND", extracted.Code)
	assert.Nil(t, apperr.As(plain))

	assert.True(t, apperr.IsCode(wrapped, "NOT_FOUND"))
	assert.False(t, apperr.IsCode(wrapped, "CONFLICT"))
	assert.False(t, apperr.IsCode(plain, "NOT_FOUND"))
}
