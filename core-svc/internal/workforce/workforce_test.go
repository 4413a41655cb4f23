package workforce

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/foodcourt-platform/core-svc/internal/domain"
	"github.com/foodcourt-platform/platform/apierr"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 5, hour, min, 0, 0, time.UTC)
}

func TestIntervalsOverlap_AdjacentDoNotOverlap(t *testing.T) {
	assert.False(t, intervalsOverlap(at(10, 0), at(11, 0), at(11, 0), at(12, 0)))
}

func TestIntervalsOverlap_OneMinuteOverlap(t *testing.T) {
	assert.True(t, intervalsOverlap(at(10, 0), at(11, 0), at(10, 59), at(11, 30)))
}

func TestIntervalsOverlap_Identical(t *testing.T) {
	assert.True(t, intervalsOverlap(at(10, 0), at(11, 0), at(10, 0), at(11, 0)))
}

func TestIntervalsOverlap_Disjoint(t *testing.T) {
	assert.False(t, intervalsOverlap(at(9, 0), at(10, 0), at(11, 0), at(12, 0)))
}

func TestEffectivePay_SubtractsBreakMinutes(t *testing.T) {
	start := at(9, 0)
	end := at(17, 0)
	wage := int64(1000) // 10.00/hr in minor units

	hours, pay := effectivePay(start, end, 30, &wage)

	assert.InDelta(t, 7.5, hours, 0.0001)
	assert.NotNil(t, pay)
	assert.Equal(t, int64(7500), *pay)
}

func TestEffectivePay_NilWageReturnsNoPay(t *testing.T) {
	hours, pay := effectivePay(at(9, 0), at(17, 0), 0, nil)
	assert.Equal(t, 8.0, hours)
	assert.Nil(t, pay)
}

func TestEffectivePay_NeverNegative(t *testing.T) {
	hours, _ := effectivePay(at(9, 0), at(9, 30), 60, nil)
	assert.Equal(t, 0.0, hours)
}

func TestCreateInvite_RejectsZeroMaxUses(t *testing.T) {
	l := &Ledger{}
	_, err := l.CreateInvite(context.Background(), CreateInviteInput{
		MaxUses:   0,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
}

func TestCreateInvite_RejectsNearImmediateExpiry(t *testing.T) {
	l := &Ledger{}
	_, err := l.CreateInvite(context.Background(), CreateInviteInput{
		MaxUses:   1,
		ExpiresAt: time.Now().UTC().Add(10 * time.Second),
	})

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
}

func TestScheduleShift_RejectsInvertedInterval(t *testing.T) {
	l := &Ledger{}
	_, err := l.ScheduleShift(context.Background(), ScheduleShiftInput{
		EmployeeID:     "emp-1",
		ScheduledStart: at(12, 0),
		ScheduledEnd:   at(11, 0),
	})

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
}

func TestRandomToken_Unique256Bit(t *testing.T) {
	a, err := randomToken()
	assert.NoError(t, err)
	b, err := randomToken()
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}

func TestShiftStatuses_SanityCheck(t *testing.T) {
	// Guards the status vocabulary ScheduleShift, ClockIn and ClockOut reason about.
	assert.Equal(t, domain.ShiftStatus("Scheduled"), domain.ShiftScheduled)
	assert.Equal(t, domain.ShiftStatus("Active"), domain.ShiftActive)
}
