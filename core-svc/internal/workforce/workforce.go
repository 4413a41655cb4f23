// Package workforce is the C6 ledger: owns Employee, Shift, InviteToken. Enforces
// one-active-shift-per-employee and shift-overlap prevention, produces payroll rollups.
package workforce

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/foodcourt-platform/core-svc/internal/domain"
	"github.com/foodcourt-platform/core-svc/internal/storage"
	"github.com/foodcourt-platform/platform/apierr"
	"github.com/foodcourt-platform/platform/dbtx"
	"github.com/foodcourt-platform/platform/eventbus"
	"github.com/foodcourt-platform/platform/money"
)

type PrincipalPromoter interface {
	PromoteToEmployee(ctx context.Context, principalID string) error
}

type Ledger struct {
	DB        *sql.DB
	Repo      *storage.PostgresRepository
	Redis     *redis.Client
	Promoter  PrincipalPromoter
	GraceMins int
}

func NewLedger(db *sql.DB, repo *storage.PostgresRepository, rdb *redis.Client, promoter PrincipalPromoter) *Ledger {
	return &Ledger{DB: db, Repo: repo, Redis: rdb, Promoter: promoter, GraceMins: 15}
}

// CreateInviteInput is the owner-facing request (spec §4.6).
type CreateInviteInput struct {
	RestaurantID         string
	GrantedRole          domain.EmployeeRole
	HourlyWageMinor      *int64
	ExpiresAt            time.Time
	MaxUses              int
	CreatedByPrincipalID string
}

func (l *Ledger) CreateInvite(ctx context.Context, in CreateInviteInput) (*domain.InviteToken, error) {
	if in.MaxUses < 1 {
		return nil, apierr.New(apierr.ValidationFailed, "maxUses must be at least 1")
	}
	if !in.ExpiresAt.After(time.Now().UTC().Add(time.Minute)) {
		return nil, apierr.New(apierr.ValidationFailed, "expiresAt must be at least one minute in the future")
	}

	token, err := randomToken()
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "failed to generate invite token", err)
	}

	inv := &domain.InviteToken{
		ID:                   uuid.NewString(),
		Token:                token,
		RestaurantID:         in.RestaurantID,
		GrantedRole:          in.GrantedRole,
		HourlyWageMinor:      in.HourlyWageMinor,
		ExpiresAt:            in.ExpiresAt,
		MaxUses:              in.MaxUses,
		Status:               domain.InviteActive,
		CreatedByPrincipalID: in.CreatedByPrincipalID,
	}

	err = dbtx.WithTx(ctx, l.DB, func(ctx context.Context, tx *sql.Tx) error {
		return storage.InsertInviteTokenTx(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32) // 256 bits, spec §3
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ConsumeInvite implements spec §4.6's consume steps atomically in one transaction and
// promotes the caller's principal once that transaction has committed.
func (l *Ledger) ConsumeInvite(ctx context.Context, token, principalID string) error {
	err := dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, l.DB, func(ctx context.Context, tx *sql.Tx) error {
			inv, err := storage.GetInviteTokenByTokenForUpdateTx(ctx, tx, token)
			if err != nil {
				return err
			}
			if inv == nil {
				return apierr.New(apierr.NotFound, "invite token not found")
			}
			if time.Now().UTC().After(inv.ExpiresAt) {
				return apierr.New(apierr.ValidationFailed, "invite token expired")
			}
			if inv.Status != domain.InviteActive || inv.UsedCount >= inv.MaxUses {
				return apierr.New(apierr.ValidationFailed, "invite token is no longer usable")
			}

			emp := &domain.Employee{
				ID:              uuid.NewString(),
				RestaurantID:    inv.RestaurantID,
				PrincipalID:     &principalID,
				EmployeeRole:    inv.GrantedRole,
				HourlyWageMinor: inv.HourlyWageMinor,
				ActiveFlag:      true,
			}
			if err := storage.InsertEmployeeTx(ctx, tx, emp); err != nil {
				return err
			}

			inv.UsedCount++
			if inv.UsedCount >= inv.MaxUses {
				inv.Status = domain.InviteConsumed
			}
			if err := storage.UpdateInviteTokenTx(ctx, tx, inv); err != nil {
				return err
			}

			_, err = eventbus.Append(ctx, tx, emp.ID, eventbus.InviteConsumed, map[string]any{
				"inviteId": inv.ID, "employeeId": emp.ID, "principalId": principalID,
			})
			return err
		})
	})
	if err != nil {
		return err
	}
	return l.Promoter.PromoteToEmployee(ctx, principalID)
}

// ScheduleShiftInput is the owner/manager-facing request (spec §4.6).
type ScheduleShiftInput struct {
	EmployeeID     string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Notes          *string
}

// ScheduleShift rejects overlapping half-open intervals per spec §4.6 / §8 boundary test:
// [10:00,11:00) and [11:00,12:00) do not overlap; [10:00,11:00) and [10:59,11:30) do.
func (l *Ledger) ScheduleShift(ctx context.Context, in ScheduleShiftInput) (*domain.Shift, error) {
	if !in.ScheduledStart.Before(in.ScheduledEnd) {
		return nil, apierr.New(apierr.ValidationFailed, "scheduledStart must be before scheduledEnd")
	}

	var shift *domain.Shift
	err := dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, l.DB, func(ctx context.Context, tx *sql.Tx) error {
			existing, err := storage.ListNonTerminalShiftsTx(ctx, tx, in.EmployeeID)
			if err != nil {
				return err
			}
			for _, other := range existing {
				if intervalsOverlap(in.ScheduledStart, in.ScheduledEnd, other.ScheduledStart, other.ScheduledEnd) {
					return apierr.New(apierr.OverlappingShift, "shift overlaps an existing scheduled or active shift")
				}
			}

			s := &domain.Shift{
				ID:             uuid.NewString(),
				EmployeeID:     in.EmployeeID,
				ScheduledStart: in.ScheduledStart,
				ScheduledEnd:   in.ScheduledEnd,
				Status:         domain.ShiftScheduled,
				Notes:          in.Notes,
			}
			if err := storage.InsertShiftTx(ctx, tx, s); err != nil {
				return err
			}
			shift = s
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ClockIn implements spec §4.6: reuse today's scheduled shift if present, else create one
// on-demand ending at end-of-day in the employee's restaurant timezone.
func (l *Ledger) ClockIn(ctx context.Context, employeeID, restaurantTimezone string) (*domain.Shift, error) {
	var shift *domain.Shift
	err := dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, l.DB, func(ctx context.Context, tx *sql.Tx) error {
			existing, err := storage.ListNonTerminalShiftsTx(ctx, tx, employeeID)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			loc, err := time.LoadLocation(restaurantTimezone)
			if err != nil {
				loc = time.UTC
			}
			localNow := now.In(loc)
			localMidnight := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
			endOfDay := localMidnight.Add(24 * time.Hour)

			for _, s := range existing {
				if s.Status == domain.ShiftActive {
					return apierr.New(apierr.Conflict, "an active shift already exists for this employee")
				}
			}

			for i := range existing {
				s := existing[i]
				if s.Status == domain.ShiftScheduled && !s.ScheduledStart.Before(localMidnight) && s.ScheduledStart.Before(endOfDay) {
					s.Status = domain.ShiftActive
					s.ActualStart = &now
					if err := storage.UpdateShiftTx(ctx, tx, &s); err != nil {
						return err
					}
					shift = &s
					_, err = eventbus.Append(ctx, tx, s.ID, eventbus.ShiftStarted, map[string]any{"shiftId": s.ID, "employeeId": employeeID})
					return err
				}
			}

			s := &domain.Shift{
				ID:             uuid.NewString(),
				EmployeeID:     employeeID,
				ScheduledStart: now,
				ScheduledEnd:   endOfDay,
				ActualStart:    &now,
				Status:         domain.ShiftActive,
			}
			if err := storage.InsertShiftTx(ctx, tx, s); err != nil {
				return err
			}
			shift = s
			_, err = eventbus.Append(ctx, tx, s.ID, eventbus.ShiftStarted, map[string]any{"shiftId": s.ID, "employeeId": employeeID})
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// ClockOut requires an Active shift; computes effectiveHours and shiftPayMinor per §4.6.
func (l *Ledger) ClockOut(ctx context.Context, employeeID string, hourlyWageMinor *int64) (*domain.Shift, error) {
	var shift *domain.Shift
	err := dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, l.DB, func(ctx context.Context, tx *sql.Tx) error {
			existing, err := storage.ListNonTerminalShiftsTx(ctx, tx, employeeID)
			if err != nil {
				return err
			}

			var active *domain.Shift
			for i := range existing {
				if existing[i].Status == domain.ShiftActive {
					active = &existing[i]
					break
				}
			}
			if active == nil {
				return apierr.New(apierr.Conflict, "no active shift for this employee")
			}

			now := time.Now().UTC()
			active.ActualEnd = &now
			active.Status = domain.ShiftCompleted
			if err := storage.UpdateShiftTx(ctx, tx, active); err != nil {
				return err
			}
			shift = active

			hours, payMinor := effectivePay(*active.ActualStart, now, active.BreakMinutes, hourlyWageMinor)
			payload := map[string]any{"shiftId": active.ID, "employeeId": employeeID, "hoursWorked": hours}
			if payMinor != nil {
				payload["payMinor"] = *payMinor
			}
			_, err = eventbus.Append(ctx, tx, active.ID, eventbus.ShiftEnded, payload)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func effectivePay(start, end time.Time, breakMinutes int, hourlyWageMinor *int64) (float64, *int64) {
	hours := end.Sub(start).Hours() - float64(breakMinutes)/60
	if hours < 0 {
		hours = 0
	}
	if hourlyWageMinor == nil {
		return hours, nil
	}
	pay := int64(money.RoundPay(hours, money.Minor(*hourlyWageMinor)))
	return hours, &pay
}

// PayrollRollup sums effectivePay over every Completed shift in period, grounded on
// analytics-svc's cache-first AnalyticsForRestaurant shape: check Redis, on a miss load the
// period's Completed shifts from Postgres and sum them here, then repopulate the cache.
func (l *Ledger) PayrollRollup(ctx context.Context, employeeID, period string) (int64, error) {
	from, to, err := parsePeriodRange(period)
	if err != nil {
		return 0, apierr.New(apierr.ValidationFailed, "invalid period: "+period)
	}

	cacheKey := fmt.Sprintf("payroll:rollup:%s:%s", employeeID, period)
	if l.Redis != nil {
		if cached, err := l.Redis.Get(ctx, cacheKey).Result(); err == nil {
			if minor, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return minor, nil
			}
		}
	}

	employee, err := l.Repo.GetEmployee(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if employee == nil {
		return 0, apierr.New(apierr.NotFound, "employee not found")
	}

	shifts, err := l.Repo.ListCompletedShiftsInRange(ctx, employeeID, from, to)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, s := range shifts {
		if s.ActualStart == nil || s.ActualEnd == nil {
			continue
		}
		_, pay := effectivePay(*s.ActualStart, *s.ActualEnd, s.BreakMinutes, employee.HourlyWageMinor)
		if pay != nil {
			total += *pay
		}
	}

	if l.Redis != nil {
		_ = l.Redis.Set(ctx, cacheKey, strconv.FormatInt(total, 10), 5*time.Minute).Err()
	}
	return total, nil
}

// parsePeriodRange accepts "today" or a "YYYY-MM" calendar month, matching the period
// vocabulary analytics-svc's AnalyticsForRestaurant switches on.
func parsePeriodRange(period string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	if period == "today" {
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return from, from.Add(24 * time.Hour), nil
	}
	from, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, from.AddDate(0, 1, 0), nil
}

// SweepMissedShifts implements spec §4.6's missed-shift sweeper: any Scheduled shift whose
// scheduledStart is past the grace window with no actualStart becomes Cancelled(NoShow).
func (l *Ledger) SweepMissedShifts(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(l.GraceMins) * time.Minute)
	count := 0

	err := dbtx.WithTx(ctx, l.DB, func(ctx context.Context, tx *sql.Tx) error {
		expired, err := storage.ListExpiredScheduledShiftsTx(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		for i := range expired {
			s := expired[i]
			s.Status = domain.ShiftCancelled
			reason := "NoShow"
			s.Notes = &reason
			if err := storage.UpdateShiftTx(ctx, tx, &s); err != nil {
				return err
			}
			if _, err := eventbus.Append(ctx, tx, s.ID, eventbus.ShiftMissed, map[string]any{
				"shiftId": s.ID, "employeeId": s.EmployeeID,
			}); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Sweep runs SweepMissedShifts on its own ticker, following the teacher's single-ticker
// scheduled-job pattern. The ticker is not shared: the outbox Dispatcher runs a separate one,
// and there is no registry of scheduled handlers.
func (l *Ledger) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := l.SweepMissedShifts(ctx); err != nil {
				continue
			}
		}
	}
}
