package proof

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tipon-events/tipon/internal/platform/apperr"
	"github.com/tipon-events/tipon/internal/platform/constants"
	"github.com/tipon-events/tipon/internal/platform/validate"
)

// Service manages payment-proof uploads for a registration.
//
// The only quantity rule is a cap: a registration may hold at most as many
// proofs as it has participant lines. Sequence numbers start at 1 and are
// assigned as max(existing)+1; concurrent uploads may race for the same
// number, which surfaces as a conflict from the unique constraint rather
// than silent duplication.
type Service struct {
	repo   Repository
	blobs  BlobStore
	logger *slog.Logger
}

func NewService(repo Repository, blobs BlobStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		logger: logger,
	}
}

// Upload stores a payment-proof file and records it under the next sequence
// number.
func (service *Service) Upload(ctx context.Context, transID string, file io.Reader, size int64, contentType string) (*Proof, error) {
	extension, allowed := allowedContentTypes[contentType]

	validator := &validate.Validator{}
	validator.
		Required("trans_id", transID).
		Custom("file", size <= 0, "An uploaded file is required").
		Custom("file", size > constants.MaxProofSizeBytes,
			fmt.Sprintf("File exceeds the %d MiB limit", constants.MaxProofSizeBytes>>20)).
		Custom("file", !allowed, "Only JPEG, PNG, and PDF files are accepted")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	readCtx, cancelRead := context.WithTimeout(ctx, constants.StorageReadTimeout)
	defer cancelRead()

	regnum, scope, err := service.repo.ResolveRegistration(readCtx, transID)
	if err != nil {
		return nil, err
	}

	detailCount, err := service.repo.CountDetails(readCtx, regnum, scope)
	if err != nil {
		return nil, err
	}

	existing, err := service.repo.ListProofs(readCtx, regnum, scope)
	if err != nil {
		return nil, err
	}

	// One proof slot per participant; purely a quantity cap, not a 1:1 pairing.
	if len(existing) >= detailCount {
		return nil, apperr.Unprocessable(
			fmt.Sprintf("Proof limit reached: %d of %d slots used", len(existing), detailCount))
	}

	seq := 1
	for _, p := range existing {
		if p.Seq >= seq {
			seq = p.Seq + 1
		}
	}

	// Fresh unique key per upload; object storage is never overwritten.
	objectKey := fmt.Sprintf("proofs/%s/%s/%s%s", scope, transID, uuid.NewString(), extension)

	uploadCtx, cancelUpload := context.WithTimeout(ctx, constants.BlobUploadTimeout)
	defer cancelUpload()

	url, err := service.blobs.Put(uploadCtx, objectKey, file, size, contentType)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("proof upload failed: %w", err))
	}

	record := &Proof{
		Regnum:    regnum,
		Scope:     scope,
		Seq:       seq,
		ObjectKey: objectKey,
		URL:       url,
	}

	writeCtx, cancelWrite := context.WithTimeout(ctx, constants.StorageWriteTimeout)
	defer cancelWrite()

	if err := service.repo.InsertProof(writeCtx, record); err != nil {
		// The blob is orphaned if this cleanup fails; acceptable, logged.
		service.removeBlob(ctx, objectKey)
		return nil, err
	}

	service.logger.Info("proof_uploaded",
		slog.String("trans_id", transID),
		slog.Int("seq", record.Seq),
	)
	return record, nil
}

// List returns a registration's proofs ordered by sequence number.
func (service *Service) List(ctx context.Context, transID string) ([]*Proof, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StorageReadTimeout)
	defer cancel()

	regnum, scope, err := service.repo.ResolveRegistration(ctx, transID)
	if err != nil {
		return nil, err
	}

	return service.repo.ListProofs(ctx, regnum, scope)
}

// Delete removes one proof row, then best-effort deletes the backing blob.
// A blob-removal failure is logged, never surfaced: the row is already gone.
func (service *Service) Delete(ctx context.Context, transID string, seq int) error {
	readCtx, cancelRead := context.WithTimeout(ctx, constants.StorageReadTimeout)
	defer cancelRead()

	regnum, scope, err := service.repo.ResolveRegistration(readCtx, transID)
	if err != nil {
		return err
	}

	writeCtx, cancelWrite := context.WithTimeout(ctx, constants.StorageWriteTimeout)
	defer cancelWrite()

	deleted, err := service.repo.DeleteProof(writeCtx, regnum, scope, seq)
	if err != nil {
		return err
	}

	service.removeBlob(ctx, deleted.ObjectKey)

	service.logger.Info("proof_deleted",
		slog.String("trans_id", transID),
		slog.Int("seq", seq),
	)
	return nil
}

func (service *Service) removeBlob(ctx context.Context, objectKey string) {
	removeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.StorageWriteTimeout)
	defer cancel()

	if err := service.blobs.Remove(removeCtx, objectKey); err != nil {
		service.logger.Warn("proof_blob_remove_failed",
			slog.String("object_key", objectKey),
			slog.Any("error", err),
		)
	}
}
