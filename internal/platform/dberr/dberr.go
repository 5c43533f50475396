// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tipon-events/tipon/internal/platform/apperr"
)

// Postgres SQLSTATE codes this service cares about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Classification order matters: a cancelled context often wraps the driver
// error, so deadline checks run before SQLSTATE checks.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Bounded operations that ran out of time surface as a distinct
	// timeout failure, never as a generic internal error.
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(action, err)
	}

	// 2. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 3. Constraint violations carry a SQLSTATE worth distinguishing:
	// duplicate keys are reported as conflicts so callers (e.g. concurrent
	// payment-proof uploads racing for the same sequence number) can react.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Conflict("A record with the same key already exists")
		case codeForeignKeyViolation:
			return apperr.Unprocessable("Referenced record does not exist")
		}
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsDuplicate reports whether err is a unique-constraint violation, either as
// the raw driver error or already wrapped by [Wrap].
func IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return true
	}
	return apperr.IsCode(err, "CONFLICT")
}
