package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusPtr(s string) *string { return &s }

func TestCountAdmitted(t *testing.T) {
	tests := []struct {
		name string
		rows []AdmissionRow
		want int
	}{
		{
			name: "empty scope",
			rows: nil,
			want: 0,
		},
		{
			name: "nil status counts",
			rows: []AdmissionRow{{Province: "MISAMIS ORIENTAL", LGU: "CAGAYAN DE ORO", Status: nil}},
			want: 1,
		},
		{
			name: "empty status counts",
			rows: []AdmissionRow{{Status: statusPtr("")}},
			want: 1,
		},
		{
			name: "pending counts",
			rows: []AdmissionRow{{Status: statusPtr("PENDING")}},
			want: 1,
		},
		{
			name: "approved counts",
			rows: []AdmissionRow{{Status: statusPtr("APPROVED")}},
			want: 1,
		},
		{
			name: "rejected excluded",
			rows: []AdmissionRow{{Status: statusPtr("REJECTED")}},
			want: 0,
		},
		{
			name: "unrecognized value excluded",
			rows: []AdmissionRow{{Status: statusPtr("WAITLISTED")}},
			want: 0,
		},
		{
			name: "status comparison is case and whitespace insensitive",
			rows: []AdmissionRow{
				{Status: statusPtr("pending")},
				{Status: statusPtr("  Approved  ")},
				{Status: statusPtr("rejected")},
			},
			want: 2,
		},
		{
			name: "mixed roster",
			rows: []AdmissionRow{
				{Status: nil},
				{Status: statusPtr("PENDING")},
				{Status: statusPtr("APPROVED")},
				{Status: statusPtr("REJECTED")},
				{Status: statusPtr("")},
			},
			want: 4,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, CountAdmitted(test.rows))
		})
	}
}

func TestCountAdmittedAt(t *testing.T) {
	rows := []AdmissionRow{
		{Province: "MISAMIS ORIENTAL", LGU: "CAGAYAN DE ORO", Status: statusPtr("PENDING")},
		{Province: "MISAMIS ORIENTAL", LGU: "CAGAYAN DE ORO", Status: statusPtr("REJECTED")},
		{Province: "MISAMIS ORIENTAL", LGU: "EL SALVADOR", Status: statusPtr("APPROVED")},
		{Province: "BUKIDNON", LGU: "MALAYBALAY", Status: nil},
	}

	t.Run("filters by province and lgu", func(t *testing.T) {
		assert.Equal(t, 1, CountAdmittedAt(rows, "MISAMIS ORIENTAL", "CAGAYAN DE ORO"))
		assert.Equal(t, 1, CountAdmittedAt(rows, "MISAMIS ORIENTAL", "EL SALVADOR"))
		assert.Equal(t, 1, CountAdmittedAt(rows, "BUKIDNON", "MALAYBALAY"))
	})

	t.Run("location match is case insensitive", func(t *testing.T) {
		assert.Equal(t, 1, CountAdmittedAt(rows, "misamis oriental", "cagayan de oro"))
		assert.Equal(t, 1, CountAdmittedAt(rows, "  Bukidnon ", "Malaybalay"))
	})

	t.Run("unknown location counts zero", func(t *testing.T) {
		assert.Equal(t, 0, CountAdmittedAt(rows, "CAMIGUIN", "MAMBAJAO"))
	})
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		name  string
		count int
		limit int
		want  bool
	}{
		{"under limit", 49, 50, true},
		{"at limit closed", 50, 50, false},
		{"over limit closed", 51, 50, false},
		{"zero limit always closed", 0, 0, false},
		{"empty scope open", 0, 1, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, IsOpen(test.count, test.limit))
		})
	}
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 50, Remaining(0, 50))
	assert.Equal(t, 1, Remaining(49, 50))
	assert.Equal(t, 0, Remaining(50, 50))
	assert.Equal(t, 0, Remaining(51, 50), "oversold scope clamps at zero")
}
