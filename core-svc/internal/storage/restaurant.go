package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/foodcourt-platform/core-svc/internal/domain"
)

func (r *PostgresRepository) GetFoodcourt(ctx context.Context, id string) (*domain.Foodcourt, error) {
	var f domain.Foodcourt
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, active, timezone FROM foodcourt WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.Active, &f.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_principal_id, foodcourt_id, commission_rate, published_flag, timezone
		FROM restaurant WHERE id = $1`, id).
		Scan(&rest.ID, &rest.OwnerPrincipalID, &rest.FoodcourtID, &rest.CommissionRate, &rest.PublishedFlag, &rest.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

// GetRestaurantTx is the same lookup, usable within an open C3 transaction.
func GetRestaurantTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := tx.QueryRowContext(ctx, `
		SELECT id, owner_principal_id, foodcourt_id, commission_rate, published_flag, timezone
		FROM restaurant WHERE id = $1 FOR SHARE`, id).
		Scan(&rest.ID, &rest.OwnerPrincipalID, &rest.FoodcourtID, &rest.CommissionRate, &rest.PublishedFlag, &rest.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func GetFoodcourtTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Foodcourt, error) {
	var f domain.Foodcourt
	err := tx.QueryRowContext(ctx, `SELECT id, name, active, timezone FROM foodcourt WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.Active, &f.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func TableBelongsToFoodcourtTx(ctx context.Context, tx *sql.Tx, tableID, foodcourtID string) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM restaurant_table WHERE id = $1 AND foodcourt_id = $2)`,
		tableID, foodcourtID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO restaurant (id, owner_principal_id, foodcourt_id, commission_rate, published_flag, timezone)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rest.ID, rest.OwnerPrincipalID, rest.FoodcourtID, rest.CommissionRate, rest.PublishedFlag, rest.Timezone)
	return err
}

func (r *PostgresRepository) OwnerOwnsRestaurant(ctx context.Context, ownerID, restaurantID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM restaurant WHERE id = $1 AND owner_principal_id = $2)`,
		restaurantID, ownerID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) EmployeeAssignedTo(ctx context.Context, employeePrincipalID, restaurantID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM employee
			WHERE principal_id = $1 AND restaurant_id = $2 AND active_flag
		)`, employeePrincipalID, restaurantID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) OrderPlacedBy(ctx context.Context, orderID, customerPrincipalID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM "order" WHERE id = $1 AND customer_principal_id = $2)`,
		orderID, customerPrincipalID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) OrderStatus(ctx context.Context, orderID string) (string, error) {
	var status string
	err := r.DB.QueryRowContext(ctx, `SELECT status FROM "order" WHERE id = $1`, orderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return status, err
}
