package workforce

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foodcourt-platform/core-svc/internal/domain"
	"github.com/foodcourt-platform/platform/apierr"
)

type mockPromoter struct{ mock.Mock }

func (m *mockPromoter) PromoteToEmployee(ctx context.Context, principalID string) error {
	return m.Called(principalID).Error(0)
}

func TestConsumeInvite_RejectsExpiredToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, token, restaurant_id, granted_role, hourly_wage_minor, expires_at")).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "token", "restaurant_id", "granted_role", "hourly_wage_minor", "expires_at",
			"max_uses", "used_count", "status", "created_by_principal_id",
		}).AddRow("inv-1", "tok-1", "rest-1", domain.EmployeeRole("Staff"), nil,
			time.Now().UTC().Add(-time.Hour), 5, 0, domain.InviteActive, "owner-1"))
	mock.ExpectRollback()

	l := &Ledger{DB: db, Promoter: &mockPromoter{}}
	err = l.ConsumeInvite(context.Background(), "tok-1", "principal-1")

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeInvite_RejectsExhaustedToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, token, restaurant_id, granted_role, hourly_wage_minor, expires_at")).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "token", "restaurant_id", "granted_role", "hourly_wage_minor", "expires_at",
			"max_uses", "used_count", "status", "created_by_principal_id",
		}).AddRow("inv-1", "tok-1", "rest-1", domain.EmployeeRole("Staff"), nil,
			time.Now().UTC().Add(time.Hour), 1, 1, domain.InviteActive, "owner-1"))
	mock.ExpectRollback()

	l := &Ledger{DB: db, Promoter: &mockPromoter{}}
	err = l.ConsumeInvite(context.Background(), "tok-1", "principal-1")

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeInvite_LastUseFlipsStatusToConsumed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, token, restaurant_id, granted_role, hourly_wage_minor, expires_at")).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "token", "restaurant_id", "granted_role", "hourly_wage_minor", "expires_at",
			"max_uses", "used_count", "status", "created_by_principal_id",
		}).AddRow("inv-1", "tok-1", "rest-1", domain.EmployeeRole("Staff"), nil,
			time.Now().UTC().Add(time.Hour), 1, 0, domain.InviteActive, "owner-1"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employee")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE invite_token SET used_count = $1, status = $2 WHERE id = $3")).
		WithArgs(1, domain.InviteConsumed, "inv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO outbox")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectCommit()

	promoter := &mockPromoter{}
	promoter.On("PromoteToEmployee", "principal-1").Return(nil)

	l := &Ledger{DB: db, Promoter: promoter}
	err = l.ConsumeInvite(context.Background(), "tok-1", "principal-1")

	assert.NoError(t, err)
	promoter.AssertExpectations(t)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleShift_RejectsOverlapWithExistingShift(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	existingStart := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	existingEnd := time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, employee_id, scheduled_start, scheduled_end, actual_start, actual_end")).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "employee_id", "scheduled_start", "scheduled_end", "actual_start", "actual_end",
			"break_minutes", "status", "notes",
		}).AddRow("shift-1", "emp-1", existingStart, existingEnd, nil, nil, 0, domain.ShiftScheduled, nil))
	mock.ExpectRollback()

	l := &Ledger{DB: db}
	_, err = l.ScheduleShift(context.Background(), ScheduleShiftInput{
		EmployeeID:     "emp-1",
		ScheduledStart: time.Date(2026, 3, 5, 10, 59, 0, 0, time.UTC),
		ScheduledEnd:   time.Date(2026, 3, 5, 11, 30, 0, 0, time.UTC),
	})

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.OverlappingShift, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleShift_AllowsAdjacentShift(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	existingStart := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	existingEnd := time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, employee_id, scheduled_start, scheduled_end, actual_start, actual_end")).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "employee_id", "scheduled_start", "scheduled_end", "actual_start", "actual_end",
			"break_minutes", "status", "notes",
		}).AddRow("shift-1", "emp-1", existingStart, existingEnd, nil, nil, 0, domain.ShiftScheduled, nil))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shift")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	l := &Ledger{DB: db}
	shift, err := l.ScheduleShift(context.Background(), ScheduleShiftInput{
		EmployeeID:     "emp-1",
		ScheduledStart: existingEnd,
		ScheduledEnd:   existingEnd.Add(time.Hour),
	})

	assert.NoError(t, err)
	assert.NotNil(t, shift)
	assert.NoError(t, mock.ExpectationsWereMet())
}
