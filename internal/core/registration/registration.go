package registration

import (
	"strings"
	"time"
)

// Header is one submitted registration form.
//
// Regnum is assigned by storage on insert and immutable afterwards; TransID is
// the short public identifier handed back to the registrant for lookups.
// Status is mutated later by moderation, never by this service after creation.
type Header struct {
	Regnum        int       `json:"regnum"`
	TransID       string    `json:"trans_id"`
	Scope         string    `json:"scope"`
	Province      string    `json:"province"`
	LGU           string    `json:"lgu"`
	ContactPerson string    `json:"contact_person"`
	ContactNumber string    `json:"contact_number"`
	EmailAddress  string    `json:"email_address"`
	CreatedAt     time.Time `json:"created_at"`
	Status        *string   `json:"status"`
	Remarks       *string   `json:"remarks,omitempty"`
	ProofRef      *string   `json:"proof_ref,omitempty"`
}

// Detail is one participant line owned by exactly one Header.
//
// Line numbers are contiguous starting at 0 for the count declared at
// submission time.
type Detail struct {
	Regnum        int     `json:"-"`
	Scope         string  `json:"-"`
	TransID       string  `json:"-"`
	LineNo        int     `json:"line_no"`
	LastName      string  `json:"last_name"`
	FirstName     string  `json:"first_name"`
	MiddleName    string  `json:"middle_name"`
	Suffix        string  `json:"suffix"`
	Designation   string  `json:"designation"`
	Barangay      string  `json:"barangay"`
	LGU           string  `json:"lgu"`
	Province      string  `json:"province"`
	ShirtSize     string  `json:"shirt_size"`
	ContactNumber string  `json:"contact_number"`
	LicenseNo     *string `json:"license_no,omitempty"`
	LicenseExpiry *string `json:"license_expiry,omitempty"`
	EmailAddress  *string `json:"email_address,omitempty"`
}

// Registration is a header with its participant lines, as returned by the
// status-lookup endpoint.
type Registration struct {
	Header  *Header   `json:"header"`
	Details []*Detail `json:"details"`
}

// AdmissionRow is one participant line joined (left) to its header's status,
// the raw material of the capacity counter. A nil Status means the header was
// absent or carried NULL.
type AdmissionRow struct {
	Province string
	LGU      string
	Status   *string
}

// Receipt is the success output of a submission.
type Receipt struct {
	TransID string `json:"trans_id"`
	Regnum  int    `json:"regnum"`
	Message string `json:"message"`
}

// CapacityReport is the read-path admission snapshot.
type CapacityReport struct {
	Count     int  `json:"count"`
	Limit     int  `json:"limit"`
	IsOpen    bool `json:"is_open"`
	Remaining int  `json:"remaining"`
}

// Field names for validation
const (
	FieldProvince      = "province"
	FieldLGU           = "lgu"
	FieldContactPerson = "contact_person"
	FieldContactNumber = "contact_number"
	FieldEmailAddress  = "email_address"
	FieldParticipants  = "participants"
	FieldLastName      = "last_name"
	FieldFirstName     = "first_name"
	FieldShirtSize     = "shirt_size"
	FieldLicenseExpiry = "license_expiry"
)

// # Normalization

// NormalizeKey uppercases and trims a comparison key (province, LGU, names).
// Geographic fields are always persisted in this form.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeStatus folds a stored status value to its canonical comparison
// form: uppercase, trimmed. A nil pointer normalizes to the empty string.
func NormalizeStatus(status *string) string {
	if status == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*status))
}
