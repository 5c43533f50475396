// Package formsession tracks the advisory countdown a registrant sees while
// filling out the form. The countdown is purely informational; expiry never
// releases or reserves capacity, and a submission after expiry is judged by
// the same capacity check as any other.
package formsession

import "time"

// Session is the server-side record of one form countdown.
type Session struct {
	ID        string    `json:"id"`
	Scope     string    `json:"scope"`
	StartedAt time.Time `json:"startedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Extended  bool      `json:"extended"`
}

// Status is the client-facing view of a session at a point in time.
type Status struct {
	ID        string    `json:"id"`
	Scope     string    `json:"scope"`
	ExpiresAt time.Time `json:"expiresAt"`
	Remaining int64     `json:"remainingSeconds"`
	Warning   bool      `json:"warning"`
	Expired   bool      `json:"expired"`
	CanExtend bool      `json:"canExtend"`
}

// StatusAt computes the countdown view of the session at the given instant.
func (session *Session) StatusAt(now time.Time, warnBefore time.Duration) Status {
	remaining := session.ExpiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		ID:        session.ID,
		Scope:     session.Scope,
		ExpiresAt: session.ExpiresAt,
		Remaining: int64(remaining / time.Second),
		Warning:   remaining > 0 && remaining <= warnBefore,
		Expired:   remaining == 0,
		CanExtend: !session.Extended && remaining > 0,
	}
}

// Extend pushes the expiry out by the given duration. A session may be
// extended once, and only while it is still running.
func (session *Session) Extend(now time.Time, by time.Duration) bool {
	if session.Extended || !now.Before(session.ExpiresAt) {
		return false
	}
	session.ExpiresAt = session.ExpiresAt.Add(by)
	session.Extended = true
	return true
}
