package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/foodcourt-platform/core-svc/internal/domain"
)

func InsertPaymentTx(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	metadata, err := marshalMetadata(p.ProviderMetadata)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO payment (id, order_id, amount_minor, currency, method, status,
			commission_minor, net_minor, provider_ref, redirect_url, provider_metadata,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.OrderID, p.AmountMinor, p.Currency, p.Method, p.Status,
		p.CommissionMinor, p.NetMinor, p.ProviderRef, p.RedirectURL, metadata,
		p.CreatedAt, p.UpdatedAt)
	return err
}

func GetPaymentByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID string) (*domain.Payment, error) {
	return scanPaymentTx(tx.QueryRowContext(ctx, paymentSelect+` WHERE order_id = $1`, orderID))
}

func GetPaymentByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Payment, error) {
	return scanPaymentTx(tx.QueryRowContext(ctx, paymentSelect+` WHERE id = $1 FOR UPDATE`, id))
}

func GetPaymentByProviderRefForUpdateTx(ctx context.Context, tx *sql.Tx, providerRef string) (*domain.Payment, error) {
	return scanPaymentTx(tx.QueryRowContext(ctx, paymentSelect+` WHERE provider_ref = $1 FOR UPDATE`, providerRef))
}

const paymentSelect = `
	SELECT id, order_id, amount_minor, currency, method, status, commission_minor,
		net_minor, provider_ref, redirect_url, provider_metadata, created_at, updated_at
	FROM payment`

func scanPaymentTx(row *sql.Row) (*domain.Payment, error) {
	var p domain.Payment
	var metadata []byte
	err := row.Scan(&p.ID, &p.OrderID, &p.AmountMinor, &p.Currency, &p.Method, &p.Status,
		&p.CommissionMinor, &p.NetMinor, &p.ProviderRef, &p.RedirectURL, &metadata,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.ProviderMetadata, err = unmarshalMetadata(metadata)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	var p domain.Payment
	var metadata []byte
	err := r.DB.QueryRowContext(ctx, paymentSelect+` WHERE id = $1`, id).
		Scan(&p.ID, &p.OrderID, &p.AmountMinor, &p.Currency, &p.Method, &p.Status,
			&p.CommissionMinor, &p.NetMinor, &p.ProviderRef, &p.RedirectURL, &metadata,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.ProviderMetadata, err = unmarshalMetadata(metadata)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	var metadata []byte
	err := r.DB.QueryRowContext(ctx, paymentSelect+` WHERE order_id = $1`, orderID).
		Scan(&p.ID, &p.OrderID, &p.AmountMinor, &p.Currency, &p.Method, &p.Status,
			&p.CommissionMinor, &p.NetMinor, &p.ProviderRef, &p.RedirectURL, &metadata,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.ProviderMetadata, err = unmarshalMetadata(metadata)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdatePaymentProviderRefTx(ctx context.Context, tx *sql.Tx, id string, providerRef, redirectURL *string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE payment SET provider_ref = $1, redirect_url = $2, updated_at = now() WHERE id = $3`,
		providerRef, redirectURL, id)
	return err
}

func UpdatePaymentStatusTx(ctx context.Context, tx *sql.Tx, id string, status domain.PaymentStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE payment SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// ZeroCommissionOnFullRefundTx materializes spec §4.5's payout rule: "on full refund,
// commission is reversed to zero and net is zero".
func ZeroCommissionOnFullRefundTx(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE payment SET commission_minor = 0, net_minor = 0, updated_at = now() WHERE id = $1`, id)
	return err
}

func InsertRefundTx(ctx context.Context, tx *sql.Tx, ref *domain.Refund) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO refund (id, payment_id, amount_minor, reason, refund_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ref.ID, ref.PaymentID, ref.AmountMinor, ref.Reason, ref.RefundRef, ref.CreatedAt)
	return err
}

func SumRefundsTx(ctx context.Context, tx *sql.Tx, paymentID string) (int64, error) {
	var total int64
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_minor), 0) FROM refund WHERE payment_id = $1`, paymentID).
		Scan(&total)
	return total, err
}

// MarkWebhookProcessedTx inserts the idempotency marker inside the same tx as the state
// change it guards (spec §4.5: "stores (provider, providerEventId) in a processed-events
// table inside the same tx"). Returns false (no error) if the event was already processed.
func MarkWebhookProcessedTx(ctx context.Context, tx *sql.Tx, provider, providerEventID string) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO processed_webhook (provider, provider_event_id)
		VALUES ($1, $2)
		ON CONFLICT (provider, provider_event_id) DO NOTHING`, provider, providerEventID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
