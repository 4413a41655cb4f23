package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/foodcourt-platform/core-svc/internal/domain"
)

func InsertEmployeeTx(ctx context.Context, tx *sql.Tx, e *domain.Employee) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO employee (id, restaurant_id, principal_id, name, phone, email,
			employee_role, hourly_wage_minor, active_flag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.RestaurantID, e.PrincipalID, e.Name, e.Phone, e.Email,
		e.EmployeeRole, e.HourlyWageMinor, e.ActiveFlag)
	return err
}

func GetEmployeeTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Employee, error) {
	var e domain.Employee
	err := tx.QueryRowContext(ctx, `
		SELECT id, restaurant_id, principal_id, name, phone, email, employee_role,
			hourly_wage_minor, active_flag
		FROM employee WHERE id = $1 FOR UPDATE`, id).
		Scan(&e.ID, &e.RestaurantID, &e.PrincipalID, &e.Name, &e.Phone, &e.Email,
			&e.EmployeeRole, &e.HourlyWageMinor, &e.ActiveFlag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, restaurant_id, principal_id, name, phone, email, employee_role,
			hourly_wage_minor, active_flag
		FROM employee WHERE id = $1`, id).
		Scan(&e.ID, &e.RestaurantID, &e.PrincipalID, &e.Name, &e.Phone, &e.Email,
			&e.EmployeeRole, &e.HourlyWageMinor, &e.ActiveFlag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) GetEmployeeByPrincipalID(ctx context.Context, principalID string) (*domain.Employee, error) {
	var e domain.Employee
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, restaurant_id, principal_id, name, phone, email, employee_role,
			hourly_wage_minor, active_flag
		FROM employee WHERE principal_id = $1 AND active_flag`, principalID).
		Scan(&e.ID, &e.RestaurantID, &e.PrincipalID, &e.Name, &e.Phone, &e.Email,
			&e.EmployeeRole, &e.HourlyWageMinor, &e.ActiveFlag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListNonTerminalShiftsTx fetches every Scheduled/Active shift for the employee, used by
// the overlap detector (spec §4.6) and the clock-in active-shift check.
func ListNonTerminalShiftsTx(ctx context.Context, tx *sql.Tx, employeeID string) ([]domain.Shift, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, employee_id, scheduled_start, scheduled_end, actual_start, actual_end,
			break_minutes, status, notes
		FROM shift
		WHERE employee_id = $1 AND status IN ('Scheduled', 'Active')
		FOR UPDATE`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func scanShifts(rows *sql.Rows) ([]domain.Shift, error) {
	var shifts []domain.Shift
	for rows.Next() {
		var s domain.Shift
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.ScheduledStart, &s.ScheduledEnd,
			&s.ActualStart, &s.ActualEnd, &s.BreakMinutes, &s.Status, &s.Notes); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func InsertShiftTx(ctx context.Context, tx *sql.Tx, s *domain.Shift) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO shift (id, employee_id, scheduled_start, scheduled_end, actual_start,
			actual_end, break_minutes, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.EmployeeID, s.ScheduledStart, s.ScheduledEnd, s.ActualStart,
		s.ActualEnd, s.BreakMinutes, s.Status, s.Notes)
	return err
}

func UpdateShiftTx(ctx context.Context, tx *sql.Tx, s *domain.Shift) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE shift SET scheduled_start = $1, scheduled_end = $2, actual_start = $3,
			actual_end = $4, break_minutes = $5, status = $6, notes = $7
		WHERE id = $8`,
		s.ScheduledStart, s.ScheduledEnd, s.ActualStart, s.ActualEnd,
		s.BreakMinutes, s.Status, s.Notes, s.ID)
	return err
}

// ListCompletedShiftsInRange is the payroll rollup's query: every Completed shift for the
// employee whose actualStart falls in [from, to). Plain read, no row locking.
func (r *PostgresRepository) ListCompletedShiftsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Shift, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, employee_id, scheduled_start, scheduled_end, actual_start, actual_end,
			break_minutes, status, notes
		FROM shift
		WHERE employee_id = $1 AND status = 'Completed' AND actual_start >= $2 AND actual_start < $3`,
		employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

// ListExpiredScheduledShiftsTx is the missed-shift sweeper's query: every Scheduled shift
// whose scheduledStart has passed the grace window with no actualStart (spec §4.6).
func ListExpiredScheduledShiftsTx(ctx context.Context, tx *sql.Tx, cutoff time.Time) ([]domain.Shift, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, employee_id, scheduled_start, scheduled_end, actual_start, actual_end,
			break_minutes, status, notes
		FROM shift
		WHERE status = 'Scheduled' AND scheduled_start < $1 AND actual_start IS NULL
		FOR UPDATE`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func InsertInviteTokenTx(ctx context.Context, tx *sql.Tx, inv *domain.InviteToken) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO invite_token (id, token, restaurant_id, granted_role, hourly_wage_minor,
			expires_at, max_uses, used_count, status, created_by_principal_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		inv.ID, inv.Token, inv.RestaurantID, inv.GrantedRole, inv.HourlyWageMinor,
		inv.ExpiresAt, inv.MaxUses, inv.UsedCount, inv.Status, inv.CreatedByPrincipalID)
	return err
}

func GetInviteTokenByTokenForUpdateTx(ctx context.Context, tx *sql.Tx, token string) (*domain.InviteToken, error) {
	var inv domain.InviteToken
	err := tx.QueryRowContext(ctx, `
		SELECT id, token, restaurant_id, granted_role, hourly_wage_minor, expires_at,
			max_uses, used_count, status, created_by_principal_id
		FROM invite_token WHERE token = $1 FOR UPDATE`, token).
		Scan(&inv.ID, &inv.Token, &inv.RestaurantID, &inv.GrantedRole, &inv.HourlyWageMinor,
			&inv.ExpiresAt, &inv.MaxUses, &inv.UsedCount, &inv.Status, &inv.CreatedByPrincipalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func UpdateInviteTokenTx(ctx context.Context, tx *sql.Tx, inv *domain.InviteToken) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE invite_token SET used_count = $1, status = $2 WHERE id = $3`,
		inv.UsedCount, inv.Status, inv.ID)
	return err
}
