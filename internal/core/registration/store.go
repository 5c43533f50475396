package registration

import "context"

// Repository is the persistence collaborator for registrations.
//
// Every read is fresh: implementations must never serve a cached admission
// row set, because both the pre-check and the submit-time gate depend on
// re-reading current state.
type Repository interface {
	// ListAdmissionRows returns one row per participant line in the scope,
	// left-joined to its header's status.
	ListAdmissionRows(ctx context.Context, scope string) ([]AdmissionRow, error)

	// TransactionIDExists reports whether a transaction id is already taken.
	TransactionIDExists(ctx context.Context, transID string) (bool, error)

	// InsertHeader persists a header and assigns its Regnum and CreatedAt.
	InsertHeader(ctx context.Context, header *Header) error

	// InsertDetails persists all participant lines of one submission in a
	// single batch.
	InsertDetails(ctx context.Context, details []*Detail) error

	// DeleteHeader removes a header row: the compensating action after a
	// failed detail write.
	DeleteHeader(ctx context.Context, regnum int, scope string) error

	// GetByTransactionID loads a header and its details, ordered by line number.
	GetByTransactionID(ctx context.Context, transID string) (*Registration, error)
}
