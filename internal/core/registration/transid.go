package registration

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/tipon-events/tipon/internal/platform/apperr"
	"github.com/tipon-events/tipon/internal/platform/constants"
)

// ExistenceChecker answers whether a candidate transaction id is already
// persisted. Implemented by the registration store.
type ExistenceChecker interface {
	TransactionIDExists(ctx context.Context, transID string) (bool, error)
}

// Allocator mints short public transaction identifiers.
//
// Candidates are drawn uniformly from [A-Z0-9]^6 (about 2.18e9 ids), checked
// against storage, and re-drawn on collision. The retry bound is a circuit
// breaker against a systemically broken existence check, not an expected-path
// condition.
type Allocator struct {
	checker ExistenceChecker
}

// NewAllocator constructs an Allocator over the given existence checker.
func NewAllocator(checker ExistenceChecker) *Allocator {
	return &Allocator{checker: checker}
}

// Allocate returns a fresh transaction id not present in storage.
//
// Storage failures abort immediately and surface as-is: they are a different
// condition from exhausting the retry budget and must stay distinguishable.
// After [constants.TransactionIDMaxAttempts] consecutive collisions it fails
// with ALLOCATION_EXHAUSTED.
func (allocator *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < constants.TransactionIDMaxAttempts; attempt++ {
		candidate, err := randomTransID()
		if err != nil {
			return "", fmt.Errorf("transaction id generation failed: %w", err)
		}

		exists, err := allocator.checker.TransactionIDExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("transaction id existence check failed: %w", err)
		}

		if !exists {
			return candidate, nil
		}
	}

	return "", apperr.AllocationExhausted(constants.TransactionIDMaxAttempts, nil)
}

// randomTransID draws one candidate id with uniform, unbiased characters.
func randomTransID() (string, error) {
	const alphabet = constants.TransactionIDAlphabet
	// Rejection sampling bound: the largest multiple of len(alphabet) <= 256.
	const max = byte(256 / len(alphabet) * len(alphabet))

	id := make([]byte, constants.TransactionIDLength)
	buf := make([]byte, 1)

	for i := 0; i < len(id); {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		if buf[0] >= max {
			continue
		}
		id[i] = alphabet[int(buf[0])%len(alphabet)]
		i++
	}

	return string(id), nil
}
