package formsession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(start time.Time) *Session {
	return &Session{
		ID:        "s-1",
		Scope:     "CDO",
		StartedAt: start,
		ExpiresAt: start.Add(30 * time.Minute),
	}
}

func TestSession_StatusAt(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	warnBefore := 5 * time.Minute

	tests := []struct {
		name          string
		at            time.Time
		wantRemaining int64
		wantWarning   bool
		wantExpired   bool
	}{
		{
			name:          "fresh session",
			at:            start,
			wantRemaining: 1800,
		},
		{
			name:          "just outside warning window",
			at:            start.Add(25*time.Minute - time.Second),
			wantRemaining: 301,
		},
		{
			name:          "inside warning window",
			at:            start.Add(26 * time.Minute),
			wantRemaining: 240,
			wantWarning:   true,
		},
		{
			name:          "at expiry",
			at:            start.Add(30 * time.Minute),
			wantRemaining: 0,
			wantExpired:   true,
		},
		{
			name:          "long after expiry remaining clamps to zero",
			at:            start.Add(2 * time.Hour),
			wantRemaining: 0,
			wantExpired:   true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status := newSession(start).StatusAt(test.at, warnBefore)
			assert.Equal(t, test.wantRemaining, status.Remaining)
			assert.Equal(t, test.wantWarning, status.Warning)
			assert.Equal(t, test.wantExpired, status.Expired)
		})
	}
}

func TestSession_Extend(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("extends a running session once", func(t *testing.T) {
		session := newSession(start)
		at := start.Add(28 * time.Minute)

		require.True(t, session.Extend(at, 10*time.Minute))
		assert.Equal(t, start.Add(40*time.Minute), session.ExpiresAt)
		assert.True(t, session.Extended)

		assert.False(t, session.Extend(at, 10*time.Minute), "second extension must be refused")
		assert.Equal(t, start.Add(40*time.Minute), session.ExpiresAt)
	})

	t.Run("refuses an expired session", func(t *testing.T) {
		session := newSession(start)
		assert.False(t, session.Extend(start.Add(30*time.Minute), 10*time.Minute))
		assert.False(t, session.Extended)
	})

	t.Run("status reports extendability", func(t *testing.T) {
		session := newSession(start)
		assert.True(t, session.StatusAt(start, 5*time.Minute).CanExtend)

		session.Extend(start, 10*time.Minute)
		assert.False(t, session.StatusAt(start, 5*time.Minute).CanExtend)
	})
}
