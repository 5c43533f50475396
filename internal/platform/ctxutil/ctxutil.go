// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/tipon-events/tipon/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Conference Scope

// WithScope returns a new context carrying the scope code resolved from the
// request domain.
func WithScope(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyScope, code)
}

// GetScope retrieves the resolved scope code from the context.
// Returns an empty string if none was resolved.
func GetScope(ctx context.Context) string {
	code, _ := ctx.Value(ctxkey.KeyScope).(string)
	return code
}
