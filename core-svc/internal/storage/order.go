package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foodcourt-platform/core-svc/internal/domain"
)

// AllocateOrderNumberTx takes the row lock spec §4.4 step 5 describes: a per-(restaurantId,
// localDate) counter row, incremented under the transaction that will also insert the order,
// so a crash between allocation and insertion can never leave a gap (§4.4 "Numbering resilience").
func AllocateOrderNumberTx(ctx context.Context, tx *sql.Tx, restaurantID, localDate string) (string, error) {
	var value int
	err := tx.QueryRowContext(ctx, `
		INSERT INTO order_number_counter (restaurant_id, local_date, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (restaurant_id, local_date) DO UPDATE SET value = order_number_counter.value + 1
		RETURNING value`, restaurantID, localDate).Scan(&value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%03d", localDate, value), nil
}

func InsertOrderTx(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "order" (id, order_number, restaurant_id, table_id, customer_principal_id,
			customer_name, customer_phone, delivery_type, total_minor, status,
			special_instructions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.OrderNumber, o.RestaurantID, o.TableID, o.CustomerPrincipalID,
		o.CustomerName, o.CustomerPhone, o.DeliveryType, o.TotalMinor, o.Status,
		o.SpecialInstructions, o.CreatedAt, o.UpdatedAt)
	return err
}

func InsertOrderItemTx(ctx context.Context, tx *sql.Tx, item *domain.OrderItem) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_item (id, order_id, product_id, variant_label, quantity,
			unit_price_minor, line_total_minor, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.OrderID, item.ProductID, item.VariantLabel, item.Quantity,
		item.UnitPriceMinor, item.LineTotalMinor, item.SpecialInstructions)
	return err
}

func GetOrderForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	var o domain.Order
	err := tx.QueryRowContext(ctx, `
		SELECT id, order_number, restaurant_id, table_id, customer_principal_id,
			customer_name, customer_phone, delivery_type, total_minor, status,
			special_instructions, created_at, updated_at
		FROM "order" WHERE id = $1 FOR UPDATE`, id).
		Scan(&o.ID, &o.OrderNumber, &o.RestaurantID, &o.TableID, &o.CustomerPrincipalID,
			&o.CustomerName, &o.CustomerPhone, &o.DeliveryType, &o.TotalMinor, &o.Status,
			&o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func UpdateOrderStatusTx(ctx context.Context, tx *sql.Tx, id string, status domain.OrderStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE "order" SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, order_number, restaurant_id, table_id, customer_principal_id,
			customer_name, customer_phone, delivery_type, total_minor, status,
			special_instructions, created_at, updated_at
		FROM "order" WHERE id = $1`, id).
		Scan(&o.ID, &o.OrderNumber, &o.RestaurantID, &o.TableID, &o.CustomerPrincipalID,
			&o.CustomerName, &o.CustomerPhone, &o.DeliveryType, &o.TotalMinor, &o.Status,
			&o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.ListOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PostgresRepository) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, product_id, variant_label, quantity, unit_price_minor,
			line_total_minor, special_instructions
		FROM order_item WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantLabel,
			&item.Quantity, &item.UnitPriceMinor, &item.LineTotalMinor, &item.SpecialInstructions); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
