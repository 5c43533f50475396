package proof

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipon-events/tipon/internal/platform/apperr"
)

type fakeRepository struct {
	regnum      int
	scope       string
	resolveErr  error
	detailCount int
	proofs      []*Proof
	insertErr   error
	deleteErr   error

	inserted *Proof
	deleted  *Proof
}

func (repository *fakeRepository) ResolveRegistration(_ context.Context, _ string) (int, string, error) {
	if repository.resolveErr != nil {
		return 0, "", repository.resolveErr
	}
	return repository.regnum, repository.scope, nil
}

func (repository *fakeRepository) CountDetails(_ context.Context, _ int, _ string) (int, error) {
	return repository.detailCount, nil
}

func (repository *fakeRepository) ListProofs(_ context.Context, _ int, _ string) ([]*Proof, error) {
	return repository.proofs, nil
}

func (repository *fakeRepository) InsertProof(_ context.Context, p *Proof) error {
	if repository.insertErr != nil {
		return repository.insertErr
	}
	repository.inserted = p
	return nil
}

func (repository *fakeRepository) DeleteProof(_ context.Context, regnum int, scope string, seq int) (*Proof, error) {
	if repository.deleteErr != nil {
		return nil, repository.deleteErr
	}
	repository.deleted = &Proof{Regnum: regnum, Scope: scope, Seq: seq, ObjectKey: "proofs/CDO/K7M2P9/old.jpg"}
	return repository.deleted, nil
}

type fakeBlobStore struct {
	putErr    error
	removeErr error
	putKeys   []string
	removed   []string
}

func (blobs *fakeBlobStore) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	if blobs.putErr != nil {
		return "", blobs.putErr
	}
	blobs.putKeys = append(blobs.putKeys, key)
	return "https://cdn.example/" + key, nil
}

func (blobs *fakeBlobStore) Remove(_ context.Context, key string) error {
	if blobs.removeErr != nil {
		return blobs.removeErr
	}
	blobs.removed = append(blobs.removed, key)
	return nil
}

func testService(repository *fakeRepository, blobs *fakeBlobStore) *Service {
	return NewService(repository, blobs, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func upload(service *Service, size int64, contentType string) (*Proof, error) {
	return service.Upload(context.Background(), "K7M2P9", strings.NewReader("data"), size, contentType)
}

func TestService_Upload(t *testing.T) {
	t.Run("first proof gets sequence one", func(t *testing.T) {
		repository := &fakeRepository{regnum: 42, scope: "CDO", detailCount: 3}
		blobs := &fakeBlobStore{}

		record, err := upload(testService(repository, blobs), 1024, "image/jpeg")
		require.NoError(t, err)

		assert.Equal(t, 1, record.Seq)
		assert.Equal(t, 42, record.Regnum)
		assert.True(t, strings.HasPrefix(record.ObjectKey, "proofs/CDO/K7M2P9/"))
		assert.True(t, strings.HasSuffix(record.ObjectKey, ".jpg"))
		assert.Equal(t, "https://cdn.example/"+record.ObjectKey, record.URL)
		assert.Same(t, record, repository.inserted)
	})

	t.Run("sequence is max existing plus one", func(t *testing.T) {
		repository := &fakeRepository{
			regnum: 42, scope: "CDO", detailCount: 5,
			proofs: []*Proof{{Seq: 1}, {Seq: 3}},
		}

		record, err := upload(testService(repository, &fakeBlobStore{}), 1024, "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, 4, record.Seq, "gaps are never refilled")
		assert.True(t, strings.HasSuffix(record.ObjectKey, ".pdf"))
	})

	t.Run("capped at the participant-line count", func(t *testing.T) {
		repository := &fakeRepository{
			regnum: 42, scope: "CDO", detailCount: 2,
			proofs: []*Proof{{Seq: 1}, {Seq: 2}},
		}
		blobs := &fakeBlobStore{}

		_, err := upload(testService(repository, blobs), 1024, "image/png")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "UNPROCESSABLE"))
		assert.Empty(t, blobs.putKeys, "nothing uploaded past the cap")
	})

	t.Run("rejects disallowed content types", func(t *testing.T) {
		repository := &fakeRepository{regnum: 42, scope: "CDO", detailCount: 3}

		_, err := upload(testService(repository, &fakeBlobStore{}), 1024, "image/gif")
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		repository := &fakeRepository{regnum: 42, scope: "CDO", detailCount: 3}

		_, err := upload(testService(repository, &fakeBlobStore{}), 6<<20, "image/jpeg")
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("failed row insert removes the uploaded blob", func(t *testing.T) {
		repository := &fakeRepository{
			regnum: 42, scope: "CDO", detailCount: 3,
			insertErr: apperr.Conflict("duplicate sequence"),
		}
		blobs := &fakeBlobStore{}

		_, err := upload(testService(repository, blobs), 1024, "image/jpeg")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "CONFLICT"))

		require.Len(t, blobs.putKeys, 1)
		assert.Equal(t, blobs.putKeys, blobs.removed, "orphaned blob is cleaned up")
	})

	t.Run("unknown transaction id surfaces as not found", func(t *testing.T) {
		repository := &fakeRepository{resolveErr: apperr.NotFound("registration")}

		_, err := upload(testService(repository, &fakeBlobStore{}), 1024, "image/jpeg")
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("removes the row then the blob", func(t *testing.T) {
		repository := &fakeRepository{regnum: 42, scope: "CDO"}
		blobs := &fakeBlobStore{}

		err := testService(repository, blobs).Delete(context.Background(), "K7M2P9", 2)
		require.NoError(t, err)

		require.NotNil(t, repository.deleted)
		assert.Equal(t, 2, repository.deleted.Seq)
		assert.Equal(t, []string{"proofs/CDO/K7M2P9/old.jpg"}, blobs.removed)
	})

	t.Run("blob removal failure is swallowed", func(t *testing.T) {
		repository := &fakeRepository{regnum: 42, scope: "CDO"}
		blobs := &fakeBlobStore{removeErr: errors.New("endpoint unreachable")}

		err := testService(repository, blobs).Delete(context.Background(), "K7M2P9", 1)
		assert.NoError(t, err, "the row is gone, the orphaned blob is only logged")
	})

	t.Run("missing proof row surfaces the storage error", func(t *testing.T) {
		repository := &fakeRepository{regnum: 42, scope: "CDO", deleteErr: apperr.NotFound("proof")}

		err := testService(repository, &fakeBlobStore{}).Delete(context.Background(), "K7M2P9", 9)
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}
