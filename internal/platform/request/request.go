// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tipon-events/tipon/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ScopeCode retrieves the {code} URL parameter uppercased and trimmed.

Scope codes are persisted in uppercase, so every comparison key coming off the
wire is normalized here before it reaches a service.
*/
func ScopeCode(request *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(request, "code")))
}

/*
TransactionID retrieves the {transId} URL parameter uppercased and trimmed.
*/
func TransactionID(request *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(request, "transId")))
}

/*
Query retrieves a query-string parameter with surrounding whitespace removed.
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}
