// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Collaborator Deadlines: Bounds on storage and blob operations.
  - Registration: Transaction-id alphabet, session-timer durations.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tipon-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 35 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Collaborator Deadlines

const (
	// StorageReadTimeout bounds every persistence read (capacity counts,
	// lookups, existence checks).
	StorageReadTimeout = 10 * time.Second

	// StorageWriteTimeout bounds header/detail/proof row writes.
	StorageWriteTimeout = 10 * time.Second

	// BlobUploadTimeout bounds payment-proof uploads to object storage.
	BlobUploadTimeout = 30 * time.Second
)

// # Request Gate

const (
	// DefaultGateRPS is the requests per second allowed per client key.
	DefaultGateRPS = 20.0

	// DefaultGateBurst is the maximum burst allowed per client key.
	DefaultGateBurst = 40

	// GateWindow is the fixed window used by the Redis-backed gate counter.
	GateWindow = 1 * time.Second

	// GateCleanupInterval is how often idle in-process limiter entries are removed.
	GateCleanupInterval = 1 * time.Minute

	// GateClientTTL is how long a client must be idle before its entry is deleted.
	GateClientTTL = 3 * time.Minute
)

// # Registration

const (
	// TransactionIDLength is the length of the public transaction identifier.
	TransactionIDLength = 6

	// TransactionIDAlphabet is the character set transaction ids are drawn from.
	TransactionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// TransactionIDMaxAttempts bounds the collision-retry loop of the allocator.
	TransactionIDMaxAttempts = 100

	// MaxParticipantsPerSubmission caps a single roster.
	MaxParticipantsPerSubmission = 50

	// StatusPending is the status every new registration header is created with.
	StatusPending = "PENDING"

	// StatusApproved marks a registration confirmed by moderation.
	StatusApproved = "APPROVED"

	// StatusRejected marks a registration excluded from capacity counting.
	StatusRejected = "REJECTED"
)

// # Form Session Timer

const (
	// FormSessionDuration is the advisory countdown a registrant gets on an
	// open form before being redirected away.
	FormSessionDuration = 30 * time.Minute

	// FormSessionWarnBefore is how long before expiry the client re-queries
	// admission and shows the extend prompt.
	FormSessionWarnBefore = 5 * time.Minute

	// FormSessionExtension is the single extension granted on request.
	FormSessionExtension = 10 * time.Minute
)

// # Payment Proofs

const (
	// MaxProofSizeBytes is the upload size cap for a payment-proof file.
	MaxProofSizeBytes = 5 << 20
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Database Schemas

const (
	SchemaReg = "reg"
	SchemaRef = "ref"
)

// # Redis Prefixes (Key Taxonomy)

const (
	RedisPrefixGate        = "gate:rps:"
	RedisKeyMaintenance    = "gate:maintenance"
	RedisPrefixFormSession = "form:session:"
)
