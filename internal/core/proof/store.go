package proof

import (
	"context"
	"io"
)

// Repository is the persistence collaborator for payment proofs.
type Repository interface {
	// ResolveRegistration maps a public transaction id to its owning
	// (regnum, scope) key.
	ResolveRegistration(ctx context.Context, transID string) (regnum int, scope string, err error)

	// CountDetails returns the participant-line count of a registration,
	// the cap on its proof uploads.
	CountDetails(ctx context.Context, regnum int, scope string) (int, error)

	// ListProofs returns a registration's proofs ordered by sequence number.
	ListProofs(ctx context.Context, regnum int, scope string) ([]*Proof, error)

	// InsertProof persists one proof row. A concurrent upload racing for the
	// same sequence number surfaces as a duplicate-key conflict.
	InsertProof(ctx context.Context, p *Proof) error

	// DeleteProof removes one proof row and returns the deleted record so
	// the backing blob can be cleaned up.
	DeleteProof(ctx context.Context, regnum int, scope string, seq int) (*Proof, error)
}

// BlobStore is the object-storage collaborator. Implemented by platform/blob.
type BlobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}
