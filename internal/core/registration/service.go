package registration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tipon-events/tipon/internal/platform/apperr"
	"github.com/tipon-events/tipon/internal/platform/constants"
	"github.com/tipon-events/tipon/internal/platform/validate"
)

// Policy is the admission configuration for one scope.
type Policy struct {
	// ConferenceLimit is the scope-wide admitted-participant limit.
	ConferenceLimit int
	// LocationLimit is the per-province-LGU sub-limit.
	LocationLimit int
	// Location is the conference-local timezone for creation timestamps.
	Location *time.Location
}

// PolicySource resolves the admission policy for a scope. Implemented by the
// scope service (limit from the scope row, falling back to environment
// defaults).
type PolicySource interface {
	AdmissionPolicy(ctx context.Context, scope string) (Policy, error)
}

// Confirmation is the notification payload for a committed submission.
type Confirmation struct {
	TransID       string `json:"trans_id"`
	Regnum        int    `json:"regnum"`
	Scope         string `json:"scope"`
	ContactPerson string `json:"contact_person"`
	EmailAddress  string `json:"email_address"`
	Participants  int    `json:"participants"`
}

// Notifier delivers a confirmation, best-effort. The orchestrator never
// fails a committed submission over a notification error.
type Notifier interface {
	Send(ctx context.Context, confirmation Confirmation) error
}

// ParticipantInput is one roster line as submitted by the client.
type ParticipantInput struct {
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	Suffix        string `json:"suffix"`
	Designation   string `json:"designation"`
	Barangay      string `json:"barangay"`
	LGU           string `json:"lgu"`
	Province      string `json:"province"`
	ShirtSize     string `json:"shirt_size"`
	ContactNumber string `json:"contact_number"`
	LicenseNo     string `json:"license_no"`
	LicenseExpiry string `json:"license_expiry"`
	EmailAddress  string `json:"email_address"`
}

// SubmitInput is the typed submission payload. Participants is an explicit
// array of records; any client-supplied status is ignored.
type SubmitInput struct {
	Province      string             `json:"province"`
	LGU           string             `json:"lgu"`
	ContactPerson string             `json:"contact_person"`
	ContactNumber string             `json:"contact_number"`
	EmailAddress  string             `json:"email_address"`
	Participants  []ParticipantInput `json:"participants"`
}

// Service orchestrates registration submission and the read-path capacity
// checks. It owns no admission lock: the persistence layer re-read at write
// time is the only oversell bound.
type Service struct {
	repo      Repository
	allocator *Allocator
	policies  PolicySource
	notifier  Notifier
	logger    *slog.Logger
}

// NewService wires the submission orchestrator.
func NewService(repo Repository, policies PolicySource, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		allocator: NewAllocator(repo),
		policies:  policies,
		notifier:  notifier,
		logger:    logger,
	}
}

// # Read Path

// CheckCapacity produces a fresh scope-wide admission snapshot.
func (service *Service) CheckCapacity(ctx context.Context, scope string) (*CapacityReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StorageReadTimeout)
	defer cancel()

	policy, err := service.policies.AdmissionPolicy(ctx, scope)
	if err != nil {
		return nil, err
	}

	rows, err := service.repo.ListAdmissionRows(ctx, scope)
	if err != nil {
		return nil, err
	}

	count := CountAdmitted(rows)
	return &CapacityReport{
		Count:     count,
		Limit:     policy.ConferenceLimit,
		IsOpen:    IsOpen(count, policy.ConferenceLimit),
		Remaining: Remaining(count, policy.ConferenceLimit),
	}, nil
}

// CheckLocationCapacity produces a fresh admission snapshot for one
// province-LGU sub-scope.
func (service *Service) CheckLocationCapacity(ctx context.Context, scope, province, lgu string) (*CapacityReport, error) {
	validator := &validate.Validator{}
	validator.Required(FieldProvince, province).Required(FieldLGU, lgu)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.StorageReadTimeout)
	defer cancel()

	policy, err := service.policies.AdmissionPolicy(ctx, scope)
	if err != nil {
		return nil, err
	}

	rows, err := service.repo.ListAdmissionRows(ctx, scope)
	if err != nil {
		return nil, err
	}

	count := CountAdmittedAt(rows, province, lgu)
	return &CapacityReport{
		Count:     count,
		Limit:     policy.LocationLimit,
		IsOpen:    IsOpen(count, policy.LocationLimit),
		Remaining: Remaining(count, policy.LocationLimit),
	}, nil
}

// Lookup loads a registration by its public transaction id.
func (service *Service) Lookup(ctx context.Context, transID string) (*Registration, error) {
	if transID == "" {
		return nil, validate.RequiredError("trans_id", "This field is required")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.StorageReadTimeout)
	defer cancel()

	return service.repo.GetByTransactionID(ctx, transID)
}

// # Write Path

// Submit runs one registration through the admission pipeline:
// validate, fresh capacity re-check, id allocation, header write, detail
// write (with compensating header delete on failure), then best-effort
// notification.
//
// The capacity re-check is mandatory and never trusts the client's earlier
// pre-check: that read is stale by construction, and this method is the sole
// enforcement point.
func (service *Service) Submit(ctx context.Context, scope string, input SubmitInput) (*Receipt, error) {
	if err := validateSubmission(&input); err != nil {
		return nil, err
	}

	policy, err := service.policies.AdmissionPolicy(ctx, scope)
	if err != nil {
		return nil, err
	}

	// 1. Capacity re-check on a fresh read.
	readCtx, cancelRead := context.WithTimeout(ctx, constants.StorageReadTimeout)
	rows, err := service.repo.ListAdmissionRows(readCtx, scope)
	cancelRead()
	if err != nil {
		return nil, err
	}

	count := CountAdmitted(rows)
	if !IsOpen(count, policy.ConferenceLimit) {
		return nil, apperr.CapacityExceeded(count, policy.ConferenceLimit)
	}

	// 2. Field normalization.
	normalizeInput(&input)

	// 3. Transaction id allocation. Nothing has been written yet, so any
	// failure here aborts cleanly.
	allocCtx, cancelAlloc := context.WithTimeout(ctx, constants.StorageReadTimeout)
	transID, err := service.allocator.Allocate(allocCtx)
	cancelAlloc()
	if err != nil {
		return nil, err
	}

	// 4. Header write. Status is forced to PENDING regardless of anything
	// the client sent.
	location := policy.Location
	if location == nil {
		location = time.Local
	}

	pending := constants.StatusPending
	header := &Header{
		TransID:       transID,
		Scope:         scope,
		Province:      input.Province,
		LGU:           input.LGU,
		ContactPerson: input.ContactPerson,
		ContactNumber: input.ContactNumber,
		EmailAddress:  input.EmailAddress,
		CreatedAt:     time.Now().In(location).Truncate(time.Second),
		Status:        &pending,
	}

	writeCtx, cancelWrite := context.WithTimeout(ctx, constants.StorageWriteTimeout)
	err = service.repo.InsertHeader(writeCtx, header)
	cancelWrite()
	if err != nil {
		return nil, fmt.Errorf("header write failed: %w", err)
	}

	// 5. Detail write, line numbers 0..n-1 in one batch.
	details := make([]*Detail, len(input.Participants))
	for i, p := range input.Participants {
		details[i] = participantToDetail(header, i, p)
	}

	detailCtx, cancelDetail := context.WithTimeout(ctx, constants.StorageWriteTimeout)
	err = service.repo.InsertDetails(detailCtx, details)
	cancelDetail()
	if err != nil {
		return nil, service.rollbackHeader(ctx, header, err)
	}

	// 6. Best-effort notification. The registration is durably committed;
	// delivery failures are logged and swallowed.
	service.notify(ctx, header, len(details))

	return &Receipt{
		TransID: header.TransID,
		Regnum:  header.Regnum,
		Message: fmt.Sprintf("Registration received. Keep your transaction id %s for status lookup and payment-proof upload.", header.TransID),
	}, nil
}

// rollbackHeader deletes the header inserted by the same submission after a
// failed detail write, so no orphan header survives a partial failure.
//
// The delete runs on a detached context: the original one may already be the
// reason the detail write failed.
func (service *Service) rollbackHeader(ctx context.Context, header *Header, cause error) error {
	deleteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.StorageWriteTimeout)
	defer cancel()

	if deleteErr := service.repo.DeleteHeader(deleteCtx, header.Regnum, header.Scope); deleteErr != nil {
		service.logger.Error("registration_rollback_failed",
			slog.Int("regnum", header.Regnum),
			slog.String("trans_id", header.TransID),
			slog.Any("delete_error", deleteErr),
			slog.Any("cause", cause),
		)
		return apperr.Inconsistent(
			"Registration could not be completed and requires manual reconciliation",
			fmt.Errorf("compensating delete failed: %w (detail write: %v)", deleteErr, cause),
		)
	}

	service.logger.Warn("registration_rolled_back",
		slog.Int("regnum", header.Regnum),
		slog.String("trans_id", header.TransID),
		slog.Any("cause", cause),
	)
	return fmt.Errorf("detail write failed: %w", cause)
}

// notify enqueues the confirmation, swallowing any failure.
func (service *Service) notify(ctx context.Context, header *Header, participants int) {
	if service.notifier == nil {
		return
	}

	err := service.notifier.Send(context.WithoutCancel(ctx), Confirmation{
		TransID:       header.TransID,
		Regnum:        header.Regnum,
		Scope:         header.Scope,
		ContactPerson: header.ContactPerson,
		EmailAddress:  header.EmailAddress,
		Participants:  participants,
	})
	if err != nil {
		service.logger.Warn("confirmation_notify_failed",
			slog.String("trans_id", header.TransID),
			slog.Any("error", err),
		)
		return
	}

	service.logger.Info("confirmation_enqueued", slog.String("trans_id", header.TransID))
}

// # Validation & Normalization

func validateSubmission(input *SubmitInput) error {
	validator := &validate.Validator{}

	validator.
		Required(FieldProvince, input.Province).MaxLen(FieldProvince, input.Province, 100).
		Required(FieldLGU, input.LGU).MaxLen(FieldLGU, input.LGU, 100).
		Required(FieldContactPerson, input.ContactPerson).MaxLen(FieldContactPerson, input.ContactPerson, 150).
		Required(FieldContactNumber, input.ContactNumber).
		Required(FieldEmailAddress, input.EmailAddress)

	if input.ContactNumber != "" {
		validator.Phone(FieldContactNumber, input.ContactNumber)
	}
	if input.EmailAddress != "" {
		validator.Email(FieldEmailAddress, input.EmailAddress)
	}

	validator.Custom(FieldParticipants, len(input.Participants) == 0,
		"At least one participant is required")
	validator.Custom(FieldParticipants, len(input.Participants) > constants.MaxParticipantsPerSubmission,
		fmt.Sprintf("At most %d participants per submission", constants.MaxParticipantsPerSubmission))

	for i, p := range input.Participants {
		prefix := fmt.Sprintf("%s[%d].", FieldParticipants, i)
		validator.
			Required(prefix+FieldLastName, p.LastName).
			Required(prefix+FieldFirstName, p.FirstName).
			Required(prefix+FieldShirtSize, p.ShirtSize).
			Date(prefix+FieldLicenseExpiry, p.LicenseExpiry, "2006-01-02")
		if p.EmailAddress != "" {
			validator.Email(prefix+FieldEmailAddress, p.EmailAddress)
		}
	}

	return validator.Err()
}

func normalizeInput(input *SubmitInput) {
	input.Province = NormalizeKey(input.Province)
	input.LGU = NormalizeKey(input.LGU)
	input.ContactPerson = NormalizeKey(input.ContactPerson)
	input.ContactNumber = NormalizeKey(input.ContactNumber)
	input.EmailAddress = NormalizeEmail(input.EmailAddress)

	for i := range input.Participants {
		p := &input.Participants[i]
		p.LastName = NormalizeKey(p.LastName)
		p.FirstName = NormalizeKey(p.FirstName)
		p.MiddleName = NormalizeKey(p.MiddleName)
		p.Suffix = NormalizeKey(p.Suffix)
		p.Designation = NormalizeKey(p.Designation)
		p.Barangay = NormalizeKey(p.Barangay)
		p.LGU = NormalizeKey(p.LGU)
		p.Province = NormalizeKey(p.Province)
		p.ShirtSize = NormalizeKey(p.ShirtSize)
		p.ContactNumber = NormalizeKey(p.ContactNumber)
		p.LicenseNo = NormalizeKey(p.LicenseNo)
		p.LicenseExpiry = NormalizeKey(p.LicenseExpiry)
		p.EmailAddress = NormalizeEmail(p.EmailAddress)
	}
}

func participantToDetail(header *Header, lineNo int, p ParticipantInput) *Detail {
	return &Detail{
		Regnum:        header.Regnum,
		Scope:         header.Scope,
		TransID:       header.TransID,
		LineNo:        lineNo,
		LastName:      p.LastName,
		FirstName:     p.FirstName,
		MiddleName:    p.MiddleName,
		Suffix:        p.Suffix,
		Designation:   p.Designation,
		Barangay:      p.Barangay,
		LGU:           p.LGU,
		Province:      p.Province,
		ShirtSize:     p.ShirtSize,
		ContactNumber: p.ContactNumber,
		LicenseNo:     optional(p.LicenseNo),
		LicenseExpiry: optional(p.LicenseExpiry),
		EmailAddress:  optional(p.EmailAddress),
	}
}

// optional maps an empty string to a NULL-able nil pointer.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
