package registration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipon-events/tipon/internal/platform/apperr"
)

// fakeRepository records every mutation so tests can assert exactly what a
// submission wrote, and in what order.
type fakeRepository struct {
	rows []AdmissionRow

	listErr         error
	insertHeaderErr error
	insertDetailErr error
	deleteHeaderErr error
	existsErr       error

	nextRegnum     int
	insertedHeader *Header
	insertedLines  []*Detail
	deletedRegnum  int
	deletedScope   string
	deleteCalled   bool
}

func (repository *fakeRepository) ListAdmissionRows(_ context.Context, _ string) ([]AdmissionRow, error) {
	if repository.listErr != nil {
		return nil, repository.listErr
	}
	return repository.rows, nil
}

func (repository *fakeRepository) TransactionIDExists(_ context.Context, _ string) (bool, error) {
	if repository.existsErr != nil {
		return false, repository.existsErr
	}
	return false, nil
}

func (repository *fakeRepository) InsertHeader(_ context.Context, header *Header) error {
	if repository.insertHeaderErr != nil {
		return repository.insertHeaderErr
	}
	header.Regnum = repository.nextRegnum
	repository.insertedHeader = header
	return nil
}

func (repository *fakeRepository) InsertDetails(_ context.Context, details []*Detail) error {
	if repository.insertDetailErr != nil {
		return repository.insertDetailErr
	}
	repository.insertedLines = details
	return nil
}

func (repository *fakeRepository) DeleteHeader(_ context.Context, regnum int, scope string) error {
	repository.deleteCalled = true
	repository.deletedRegnum = regnum
	repository.deletedScope = scope
	return repository.deleteHeaderErr
}

func (repository *fakeRepository) GetByTransactionID(_ context.Context, transID string) (*Registration, error) {
	return &Registration{Header: &Header{TransID: transID}}, nil
}

type fakePolicies struct {
	policy Policy
	err    error
}

func (policies *fakePolicies) AdmissionPolicy(_ context.Context, _ string) (Policy, error) {
	if policies.err != nil {
		return Policy{}, policies.err
	}
	return policies.policy, nil
}

type fakeNotifier struct {
	sent []Confirmation
	err  error
}

func (notifier *fakeNotifier) Send(_ context.Context, confirmation Confirmation) error {
	if notifier.err != nil {
		return notifier.err
	}
	notifier.sent = append(notifier.sent, confirmation)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validInput() SubmitInput {
	return SubmitInput{
		Province:      "Misamis Oriental",
		LGU:           "Cagayan de Oro",
		ContactPerson: "Juan dela Cruz",
		ContactNumber: "+63 917 555 0101",
		EmailAddress:  "Juan.DelaCruz@Example.PH",
		Participants: []ParticipantInput{
			{LastName: "dela Cruz", FirstName: "Juan", ShirtSize: "L"},
			{LastName: "Reyes", FirstName: "Maria", ShirtSize: "M", LicenseExpiry: "2027-06-30"},
			{LastName: "Santos", FirstName: "Pedro", ShirtSize: "XL", EmailAddress: "pedro@example.ph"},
		},
	}
}

func openPolicy() Policy {
	return Policy{ConferenceLimit: 50, LocationLimit: 5, Location: time.UTC}
}

func TestService_Submit(t *testing.T) {
	t.Run("happy path writes header then contiguous lines", func(t *testing.T) {
		repository := &fakeRepository{nextRegnum: 42}
		notifier := &fakeNotifier{}
		service := NewService(repository, &fakePolicies{policy: openPolicy()}, notifier, testLogger())

		receipt, err := service.Submit(context.Background(), "CDO", validInput())
		require.NoError(t, err)

		assert.Equal(t, 42, receipt.Regnum)
		assert.Len(t, receipt.TransID, 6)
		assert.Contains(t, receipt.Message, receipt.TransID)

		header := repository.insertedHeader
		require.NotNil(t, header)
		assert.Equal(t, "CDO", header.Scope)
		assert.Equal(t, "MISAMIS ORIENTAL", header.Province)
		assert.Equal(t, "CAGAYAN DE ORO", header.LGU)
		assert.Equal(t, "juan.delacruz@example.ph", header.EmailAddress)
		require.NotNil(t, header.Status)
		assert.Equal(t, "PENDING", *header.Status)

		require.Len(t, repository.insertedLines, 3)
		for i, line := range repository.insertedLines {
			assert.Equal(t, i, line.LineNo)
			assert.Equal(t, 42, line.Regnum)
			assert.Equal(t, receipt.TransID, line.TransID)
		}
		assert.Equal(t, "DELA CRUZ", repository.insertedLines[0].LastName)
		assert.Nil(t, repository.insertedLines[0].LicenseExpiry)
		require.NotNil(t, repository.insertedLines[1].LicenseExpiry)
		assert.Equal(t, "2027-06-30", *repository.insertedLines[1].LicenseExpiry)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, receipt.TransID, notifier.sent[0].TransID)
		assert.Equal(t, 3, notifier.sent[0].Participants)
	})

	t.Run("full scope is rejected with the observed count and limit", func(t *testing.T) {
		rows := []AdmissionRow{
			{Status: statusPtr("PENDING")},
			{Status: statusPtr("APPROVED")},
			{Status: nil},
		}
		repository := &fakeRepository{rows: rows, nextRegnum: 1}
		policy := Policy{ConferenceLimit: 3, LocationLimit: 5, Location: time.UTC}
		service := NewService(repository, &fakePolicies{policy: policy}, &fakeNotifier{}, testLogger())

		_, err := service.Submit(context.Background(), "CDO", validInput())
		require.Error(t, err)

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, "CAPACITY_EXCEEDED", appError.Code)
		assert.Equal(t, 3, appError.Meta["current_count"])
		assert.Equal(t, 3, appError.Meta["limit"])

		assert.Nil(t, repository.insertedHeader, "no writes after a capacity rejection")
	})

	t.Run("rejected rows free capacity", func(t *testing.T) {
		rows := []AdmissionRow{
			{Status: statusPtr("REJECTED")},
			{Status: statusPtr("REJECTED")},
			{Status: statusPtr("PENDING")},
		}
		repository := &fakeRepository{rows: rows, nextRegnum: 7}
		policy := Policy{ConferenceLimit: 2, LocationLimit: 5, Location: time.UTC}
		service := NewService(repository, &fakePolicies{policy: policy}, &fakeNotifier{}, testLogger())

		_, err := service.Submit(context.Background(), "CDO", validInput())
		require.NoError(t, err)
	})

	t.Run("failed detail write rolls back the header", func(t *testing.T) {
		repository := &fakeRepository{
			nextRegnum:      42,
			insertDetailErr: errors.New("batch failed"),
		}
		notifier := &fakeNotifier{}
		service := NewService(repository, &fakePolicies{policy: openPolicy()}, notifier, testLogger())

		_, err := service.Submit(context.Background(), "CDO", validInput())
		require.Error(t, err)

		assert.True(t, repository.deleteCalled)
		assert.Equal(t, 42, repository.deletedRegnum)
		assert.Equal(t, "CDO", repository.deletedScope)
		assert.Empty(t, notifier.sent, "no confirmation for a rolled-back submission")
	})

	t.Run("failed rollback surfaces as inconsistent state", func(t *testing.T) {
		repository := &fakeRepository{
			nextRegnum:      42,
			insertDetailErr: errors.New("batch failed"),
			deleteHeaderErr: errors.New("delete also failed"),
		}
		service := NewService(repository, &fakePolicies{policy: openPolicy()}, &fakeNotifier{}, testLogger())

		_, err := service.Submit(context.Background(), "CDO", validInput())
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "INCONSISTENT_STATE"))
	})

	t.Run("notification failure does not fail the submission", func(t *testing.T) {
		repository := &fakeRepository{nextRegnum: 8}
		notifier := &fakeNotifier{err: errors.New("broker down")}
		service := NewService(repository, &fakePolicies{policy: openPolicy()}, notifier, testLogger())

		receipt, err := service.Submit(context.Background(), "CDO", validInput())
		require.NoError(t, err)
		assert.Equal(t, 8, receipt.Regnum)
	})

	t.Run("allocator storage failure aborts before any write", func(t *testing.T) {
		repository := &fakeRepository{
			nextRegnum: 1,
			existsErr:  errors.New("connection reset"),
		}
		service := NewService(repository, &fakePolicies{policy: openPolicy()}, &fakeNotifier{}, testLogger())

		_, err := service.Submit(context.Background(), "CDO", validInput())
		require.Error(t, err)
		assert.Nil(t, repository.insertedHeader)
		assert.False(t, repository.deleteCalled)
	})

	t.Run("validation failures report every bad field", func(t *testing.T) {
		input := validInput()
		input.Province = ""
		input.EmailAddress = "not-an-email"
		input.Participants[0].ShirtSize = ""
		input.Participants[1].LicenseExpiry = "30/06/2027"

		service := NewService(&fakeRepository{}, &fakePolicies{policy: openPolicy()}, &fakeNotifier{}, testLogger())

		_, err := service.Submit(context.Background(), "CDO", input)
		require.Error(t, err)

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Len(t, appError.Details, 4)
	})

	t.Run("empty roster is rejected", func(t *testing.T) {
		input := validInput()
		input.Participants = nil

		service := NewService(&fakeRepository{}, &fakePolicies{policy: openPolicy()}, &fakeNotifier{}, testLogger())

		_, err := service.Submit(context.Background(), "CDO", input)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestService_CheckCapacity(t *testing.T) {
	rows := []AdmissionRow{
		{Status: statusPtr("PENDING")},
		{Status: statusPtr("APPROVED")},
		{Status: statusPtr("REJECTED")},
	}
	repository := &fakeRepository{rows: rows}
	policy := Policy{ConferenceLimit: 10, LocationLimit: 5, Location: time.UTC}
	service := NewService(repository, &fakePolicies{policy: policy}, &fakeNotifier{}, testLogger())

	report, err := service.CheckCapacity(context.Background(), "CDO")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count)
	assert.Equal(t, 10, report.Limit)
	assert.True(t, report.IsOpen)
	assert.Equal(t, 8, report.Remaining)
}

func TestService_CheckLocationCapacity(t *testing.T) {
	rows := []AdmissionRow{
		{Province: "MISAMIS ORIENTAL", LGU: "CAGAYAN DE ORO", Status: statusPtr("PENDING")},
		{Province: "MISAMIS ORIENTAL", LGU: "CAGAYAN DE ORO", Status: statusPtr("APPROVED")},
		{Province: "BUKIDNON", LGU: "MALAYBALAY", Status: statusPtr("PENDING")},
	}
	repository := &fakeRepository{rows: rows}
	policy := Policy{ConferenceLimit: 50, LocationLimit: 2, Location: time.UTC}
	service := NewService(repository, &fakePolicies{policy: policy}, &fakeNotifier{}, testLogger())

	t.Run("counts only the requested location", func(t *testing.T) {
		report, err := service.CheckLocationCapacity(context.Background(), "CDO", "Misamis Oriental", "Cagayan de Oro")
		require.NoError(t, err)
		assert.Equal(t, 2, report.Count)
		assert.False(t, report.IsOpen, "location at its sub-limit is closed")
	})

	t.Run("missing location fields fail validation", func(t *testing.T) {
		_, err := service.CheckLocationCapacity(context.Background(), "CDO", "", "")
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestService_Lookup(t *testing.T) {
	service := NewService(&fakeRepository{}, &fakePolicies{policy: openPolicy()}, &fakeNotifier{}, testLogger())

	t.Run("returns the stored registration", func(t *testing.T) {
		registration, err := service.Lookup(context.Background(), "K7M2P9")
		require.NoError(t, err)
		assert.Equal(t, "K7M2P9", registration.Header.TransID)
	})

	t.Run("empty id fails validation", func(t *testing.T) {
		_, err := service.Lookup(context.Background(), "")
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}
