package registration

import "github.com/tipon-events/tipon/internal/platform/constants"

// The capacity counter and the admission gate. Both the read pre-check and
// the submit-time enforcement call these same functions on a fresh row set;
// neither path may cache a count.

// countsTowardCapacity reports whether a row participates in the admitted
// count. Absent headers and empty statuses count (a submission is admitted
// until moderation says otherwise); PENDING and APPROVED count; REJECTED and
// any unrecognized value are excluded. Exclusion on unknown values is
// fail-safe for capacity: a typo shrinks the count, it never oversells.
func countsTowardCapacity(status *string) bool {
	switch NormalizeStatus(status) {
	case "", constants.StatusPending, constants.StatusApproved:
		return true
	default:
		return false
	}
}

// CountAdmitted computes the admitted participant count for a whole scope
// from its raw admission rows.
func CountAdmitted(rows []AdmissionRow) int {
	count := 0
	for _, row := range rows {
		if countsTowardCapacity(row.Status) {
			count++
		}
	}
	return count
}

// CountAdmittedAt computes the admitted count for a province-LGU sub-scope.
// The comparison runs on the normalized uppercase form of both sides, since
// stored geographic fields are already uppercase.
func CountAdmittedAt(rows []AdmissionRow, province, lgu string) int {
	province = NormalizeKey(province)
	lgu = NormalizeKey(lgu)

	count := 0
	for _, row := range rows {
		if NormalizeKey(row.Province) != province || NormalizeKey(row.LGU) != lgu {
			continue
		}
		if countsTowardCapacity(row.Status) {
			count++
		}
	}
	return count
}

// IsOpen is the admission gate: strictly count < limit, so a scope at exactly
// its limit is closed. A limit of zero is always closed. Total over all
// non-negative inputs; the single source of truth for every admission
// decision in the system.
func IsOpen(count, limit int) bool {
	return count < limit
}

// Remaining reports the open slots for display, clamped at zero.
func Remaining(count, limit int) int {
	if remaining := limit - count; remaining > 0 {
		return remaining
	}
	return 0
}
