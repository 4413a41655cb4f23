package payments

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/foodcourt-platform/core-svc/internal/domain"
	"github.com/foodcourt-platform/core-svc/internal/storage"
	"github.com/foodcourt-platform/platform/apierr"
	"github.com/foodcourt-platform/platform/dbtx"
	"github.com/foodcourt-platform/platform/eventbus"
	"github.com/foodcourt-platform/platform/money"
)

type Broker struct {
	DB        *sql.DB
	Providers map[domain.PaymentMethod]Provider
}

func NewBroker(db *sql.DB, providers map[domain.PaymentMethod]Provider) *Broker {
	return &Broker{DB: db, Providers: providers}
}

type CreatePaymentInput struct {
	OrderID     string
	Method      domain.PaymentMethod
	AmountMinor int64
	Currency    string
	// Cash-specific
	AmountReceivedMinor   *int64
	ChangeGivenMinor      *int64
	ProcessedByPrincipal  *string
	// Terminal-specific
	TerminalTxID *string
	TerminalID   *string
	CardLast4    *string
	CardBrand    *string
}

// CreatePayment implements spec §4.5's async creation steps for CardPSPA/CardPSPB, and the
// synchronous insertion path for Cash/Terminal (status jumps straight to Completed).
func (b *Broker) CreatePayment(ctx context.Context, in CreatePaymentInput) (*domain.Payment, error) {
	provider, ok := b.Providers[in.Method]
	if !ok {
		return nil, apierr.New(apierr.ValidationFailed, "unsupported payment method")
	}

	var payment *domain.Payment
	err := dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, b.DB, func(ctx context.Context, tx *sql.Tx) error {
			p, err := b.createPaymentTx(ctx, tx, in, provider)
			if err != nil {
				return err
			}
			payment = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// methodMetadata captures the method-specific fields spec §4.5 names for Cash ("amountReceived,
// changeGiven, processedByPrincipalId") and Terminal ("terminalTxId, terminalId, cardLast4?,
// cardBrand?") onto the Payment's providerMetadata blob.
func methodMetadata(in CreatePaymentInput) map[string]any {
	m := map[string]any{}
	if in.AmountReceivedMinor != nil {
		m["amountReceivedMinor"] = *in.AmountReceivedMinor
	}
	if in.ChangeGivenMinor != nil {
		m["changeGivenMinor"] = *in.ChangeGivenMinor
	}
	if in.ProcessedByPrincipal != nil {
		m["processedByPrincipalId"] = *in.ProcessedByPrincipal
	}
	if in.TerminalTxID != nil {
		m["terminalTxId"] = *in.TerminalTxID
	}
	if in.TerminalID != nil {
		m["terminalId"] = *in.TerminalID
	}
	if in.CardLast4 != nil {
		m["cardLast4"] = *in.CardLast4
	}
	if in.CardBrand != nil {
		m["cardBrand"] = *in.CardBrand
	}
	return m
}

func (b *Broker) createPaymentTx(ctx context.Context, tx *sql.Tx, in CreatePaymentInput, provider Provider) (*domain.Payment, error) {
	order, err := storage.GetOrderForUpdateTx(ctx, tx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apierr.New(apierr.NotFound, "order not found")
	}

	existing, err := storage.GetPaymentByOrderIDTx(ctx, tx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.New(apierr.PaymentAlreadyExists, "order already has a payment")
	}

	rest, err := storage.GetRestaurantTx(ctx, tx, order.RestaurantID)
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return nil, apierr.New(apierr.NotFound, "restaurant not found")
	}

	commissionMinor := money.Commission(money.Minor(in.AmountMinor), rest.CommissionRate)
	netMinor := money.Net(money.Minor(in.AmountMinor), commissionMinor)

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:               uuid.NewString(),
		OrderID:          in.OrderID,
		AmountMinor:      in.AmountMinor,
		Currency:         in.Currency,
		Method:           in.Method,
		Status:           domain.PaymentPending,
		CommissionMinor:  int64(commissionMinor),
		NetMinor:         int64(netMinor),
		ProviderMetadata: methodMetadata(in),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := storage.InsertPaymentTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	switch in.Method {
	case domain.Cash, domain.Terminal:
		result, err := provider.CreateCharge(ctx, ChargeDraft{PaymentID: payment.ID, AmountMinor: in.AmountMinor, Currency: in.Currency})
		if err != nil {
			return nil, apierr.Wrap(apierr.ProviderUnavailable, "provider charge failed", err)
		}
		payment.ProviderRef = &result.ProviderRef
		payment.Status = domain.PaymentCompleted
		if err := storage.UpdatePaymentProviderRefTx(ctx, tx, payment.ID, payment.ProviderRef, nil); err != nil {
			return nil, err
		}
		if err := storage.UpdatePaymentStatusTx(ctx, tx, payment.ID, domain.PaymentCompleted); err != nil {
			return nil, err
		}
		if _, err := eventbus.Append(ctx, tx, payment.ID, eventbus.PaymentSettled, map[string]any{
			"paymentId": payment.ID, "orderId": payment.OrderID,
		}); err != nil {
			return nil, err
		}

	default: // CardPSPA, CardPSPB
		result, err := provider.CreateCharge(ctx, ChargeDraft{PaymentID: payment.ID, AmountMinor: in.AmountMinor, Currency: in.Currency})
		if err != nil {
			return nil, apierr.Wrap(apierr.ProviderUnavailable, "provider charge failed", err)
		}
		payment.ProviderRef = &result.ProviderRef
		redirectURL := result.RedirectURL
		payment.RedirectURL = &redirectURL
		if err := storage.UpdatePaymentProviderRefTx(ctx, tx, payment.ID, payment.ProviderRef, payment.RedirectURL); err != nil {
			return nil, err
		}
		if _, err := eventbus.Append(ctx, tx, payment.ID, eventbus.PaymentCreated, map[string]any{
			"paymentId": payment.ID, "orderId": payment.OrderID,
		}); err != nil {
			return nil, err
		}
	}

	return payment, nil
}

// HandleWebhook implements spec §4.5's webhook reconciliation: verify, resolve by
// providerRef, idempotency check, state transition by event kind.
func (b *Broker) HandleWebhook(ctx context.Context, providerName string, rawBody []byte, headers map[string]string) error {
	provider, ok := b.Providers[domain.PaymentMethod(providerName)]
	if !ok {
		return apierr.New(apierr.ValidationFailed, "unknown provider")
	}

	event, err := provider.VerifyWebhook(rawBody, headers)
	if err != nil {
		return err
	}

	return dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, b.DB, func(ctx context.Context, tx *sql.Tx) error {
			fresh, err := storage.MarkWebhookProcessedTx(ctx, tx, providerName, event.ProviderEventID)
			if err != nil {
				return err
			}
			if !fresh {
				return nil // duplicate delivery: no-op, spec §8 S2
			}

			payment, err := storage.GetPaymentByProviderRefForUpdateTx(ctx, tx, event.ProviderRef)
			if err != nil {
				return err
			}
			if payment == nil {
				return apierr.New(apierr.NotFound, "payment not found for provider reference")
			}

			return applyWebhookTransition(ctx, tx, payment, event)
		})
	})
}

func applyWebhookTransition(ctx context.Context, tx *sql.Tx, payment *domain.Payment, event WebhookEvent) error {
	if payment.Status != domain.PaymentPending && payment.Status != domain.PaymentCompleted {
		return nil // terminal, idempotent replay
	}

	switch event.Kind {
	case "charge.succeeded":
		if payment.Status != domain.PaymentPending {
			return nil
		}
		if err := storage.UpdatePaymentStatusTx(ctx, tx, payment.ID, domain.PaymentCompleted); err != nil {
			return err
		}
		_, err := eventbus.Append(ctx, tx, payment.ID, eventbus.PaymentSettled, map[string]any{"paymentId": payment.ID})
		return err

	case "charge.failed", "charge.canceled":
		if payment.Status != domain.PaymentPending {
			return nil
		}
		if err := storage.UpdatePaymentStatusTx(ctx, tx, payment.ID, domain.PaymentFailed); err != nil {
			return err
		}
		_, err := eventbus.Append(ctx, tx, payment.ID, eventbus.PaymentFailed, map[string]any{"paymentId": payment.ID, "reason": event.Reason})
		return err

	case "refund.succeeded":
		if payment.Status != domain.PaymentCompleted {
			return nil
		}
		if err := storage.ZeroCommissionOnFullRefundTx(ctx, tx, payment.ID); err != nil {
			return err
		}
		if err := storage.UpdatePaymentStatusTx(ctx, tx, payment.ID, domain.PaymentRefunded); err != nil {
			return err
		}
		_, err := eventbus.Append(ctx, tx, payment.ID, eventbus.PaymentRefunded, map[string]any{"paymentId": payment.ID, "amountMinor": payment.AmountMinor})
		return err

	default:
		return nil
	}
}

// RefundInput is the operator-facing refund request (spec §4.5, endpoint POST /payments/{id}/refund).
type RefundInput struct {
	PaymentID   string
	AmountMinor int64
	Reason      string
}

func (b *Broker) Refund(ctx context.Context, in RefundInput) error {
	return dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, b.DB, func(ctx context.Context, tx *sql.Tx) error {
			return b.refundTx(ctx, tx, in)
		})
	})
}

func (b *Broker) refundTx(ctx context.Context, tx *sql.Tx, in RefundInput) error {
	payment, err := storage.GetPaymentByIDForUpdateTx(ctx, tx, in.PaymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return apierr.New(apierr.NotFound, "payment not found")
	}
	if payment.Status != domain.PaymentCompleted {
		return apierr.New(apierr.ValidationFailed, "only completed payments can be refunded")
	}

	priorRefunds, err := storage.SumRefundsTx(ctx, tx, payment.ID)
	if err != nil {
		return err
	}
	remaining := payment.AmountMinor - priorRefunds
	if in.AmountMinor <= 0 || in.AmountMinor > remaining {
		return apierr.New(apierr.ValidationFailed, "refund amount exceeds remaining refundable balance")
	}

	provider, ok := b.Providers[payment.Method]
	if !ok || payment.ProviderRef == nil {
		return apierr.New(apierr.ProviderUnavailable, "no provider reference to refund against")
	}

	result, err := provider.Refund(ctx, *payment.ProviderRef, in.AmountMinor, in.Reason)
	if err != nil {
		return apierr.Wrap(apierr.RefundFailed, "provider refund failed", err)
	}

	refund := &domain.Refund{
		ID:          uuid.NewString(),
		PaymentID:   payment.ID,
		AmountMinor: in.AmountMinor,
		Reason:      in.Reason,
		RefundRef:   result.RefundRef,
		CreatedAt:   time.Now().UTC(),
	}
	if err := storage.InsertRefundTx(ctx, tx, refund); err != nil {
		return err
	}

	fullyRefunded := in.AmountMinor == remaining
	if fullyRefunded {
		if err := storage.ZeroCommissionOnFullRefundTx(ctx, tx, payment.ID); err != nil {
			return err
		}
		if err := storage.UpdatePaymentStatusTx(ctx, tx, payment.ID, domain.PaymentRefunded); err != nil {
			return err
		}
	}

	_, err = eventbus.Append(ctx, tx, payment.ID, eventbus.PaymentRefunded, map[string]any{
		"paymentId": payment.ID, "amountMinor": in.AmountMinor,
	})
	return err
}

// RefundFullWithinTx implements ordering.RefundIssuer: a full refund issued from inside
// the order engine's own cancel transaction (spec §4.4's two-phase cancel).
func (b *Broker) RefundFullWithinTx(ctx context.Context, tx *sql.Tx, orderID, reason string) error {
	payment, err := storage.GetPaymentByOrderIDTx(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if payment == nil || payment.Status != domain.PaymentCompleted {
		return nil
	}

	priorRefunds, err := storage.SumRefundsTx(ctx, tx, payment.ID)
	if err != nil {
		return err
	}
	remaining := payment.AmountMinor - priorRefunds

	provider, ok := b.Providers[payment.Method]
	if !ok || payment.ProviderRef == nil {
		return apierr.New(apierr.ProviderUnavailable, "no provider reference to refund against")
	}

	result, err := provider.Refund(ctx, *payment.ProviderRef, remaining, reason)
	if err != nil {
		return err
	}

	refund := &domain.Refund{
		ID:          uuid.NewString(),
		PaymentID:   payment.ID,
		AmountMinor: remaining,
		Reason:      reason,
		RefundRef:   result.RefundRef,
		CreatedAt:   time.Now().UTC(),
	}
	if err := storage.InsertRefundTx(ctx, tx, refund); err != nil {
		return err
	}
	if err := storage.ZeroCommissionOnFullRefundTx(ctx, tx, payment.ID); err != nil {
		return err
	}
	return storage.UpdatePaymentStatusTx(ctx, tx, payment.ID, domain.PaymentRefunded)
}
