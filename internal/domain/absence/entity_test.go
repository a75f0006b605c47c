package absence

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/approval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInclusiveDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"five days in March", date(2024, 3, 1), date(2024, 3, 5), 5},
		{"same day", date(2024, 3, 1), date(2024, 3, 1), 1},
		{"leap day", date(2024, 2, 28), date(2024, 3, 1), 3},
		{"across DST change in Paris", time.Date(2024, 3, 30, 23, 0, 0, 0, paris(t)), time.Date(2024, 4, 1, 1, 0, 0, 0, paris(t)), 3},
		{"time of day ignored", date(2024, 3, 1).Add(23 * time.Hour), date(2024, 3, 2).Add(time.Hour), 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := InclusiveDays(c.start, c.end)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func paris(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available")
	}
	return loc
}

func TestInclusiveDays_EndBeforeStart(t *testing.T) {
	days, err := InclusiveDays(date(2024, 3, 5), date(2024, 3, 1))

	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Equal(t, 0, days)
}

func TestAbsence_SetRange(t *testing.T) {
	a := Absence{}

	require.NoError(t, a.SetRange(date(2024, 3, 1), date(2024, 3, 5)))
	assert.Equal(t, 5, a.Days)

	err := a.SetRange(date(2024, 3, 10), date(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Equal(t, 5, a.Days)
}

func TestAbsence_Overlaps(t *testing.T) {
	a := Absence{StartDate: date(2024, 3, 28), EndDate: date(2024, 4, 2)}

	assert.True(t, a.Overlaps(date(2024, 4, 1), date(2024, 4, 30)))
	assert.True(t, a.Overlaps(date(2024, 3, 1), date(2024, 3, 28)))
	assert.False(t, a.Overlaps(date(2024, 4, 3), date(2024, 4, 30)))
}

func TestAbsence_Apply(t *testing.T) {
	a := Absence{Status: approval.StatusPending}
	d, err := approval.NewDecision(approval.StatusApproved, "mgr-1", date(2024, 3, 1), nil)
	require.NoError(t, err)

	require.NoError(t, a.Apply(d))
	assert.Equal(t, approval.StatusApproved, a.Status)
	require.NotNil(t, a.ApprovedBy)
	assert.Equal(t, "mgr-1", *a.ApprovedBy)

	reject, _ := approval.NewDecision(approval.StatusRejected, "mgr-2", date(2024, 3, 2), nil)
	assert.ErrorIs(t, a.Apply(reject), approval.ErrAlreadyDecided)
	assert.Equal(t, approval.StatusApproved, a.Status)
	assert.Equal(t, "mgr-1", *a.ApprovedBy)
}
