package payments

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodcourt-platform/core-svc/internal/domain"
)

func ctxBg() context.Context { return context.Background() }

func fixedTime() time.Time { return time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC) }

func TestMethodMetadata_CapturesCashFields(t *testing.T) {
	received := int64(1000)
	change := int64(100)
	principal := "principal-1"

	m := methodMetadata(CreatePaymentInput{
		AmountReceivedMinor:  &received,
		ChangeGivenMinor:     &change,
		ProcessedByPrincipal: &principal,
	})

	assert.Equal(t, int64(1000), m["amountReceivedMinor"])
	assert.Equal(t, int64(100), m["changeGivenMinor"])
	assert.Equal(t, "principal-1", m["processedByPrincipalId"])
	assert.NotContains(t, m, "terminalTxId")
}

func TestMethodMetadata_CapturesTerminalFields(t *testing.T) {
	txID := "tx-1"
	cardLast4 := "4242"

	m := methodMetadata(CreatePaymentInput{TerminalTxID: &txID, CardLast4: &cardLast4})

	assert.Equal(t, "tx-1", m["terminalTxId"])
	assert.Equal(t, "4242", m["cardLast4"])
	assert.NotContains(t, m, "amountReceivedMinor")
}

func TestApplyWebhookTransition_ChargeSucceeded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET status = $1, updated_at = now() WHERE id = $2")).
		WithArgs(domain.PaymentCompleted, "payment-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO outbox")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(fixedTime()))

	payment := &domain.Payment{ID: "payment-1", Status: domain.PaymentPending}
	err = applyWebhookTransition(ctxBg(), tx, payment, WebhookEvent{Kind: "charge.succeeded"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyWebhookTransition_RefundSucceeded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET commission_minor = 0, net_minor = 0, updated_at = now() WHERE id = $1")).
		WithArgs("payment-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET status = $1, updated_at = now() WHERE id = $2")).
		WithArgs(domain.PaymentRefunded, "payment-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO outbox")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(fixedTime()))

	payment := &domain.Payment{ID: "payment-1", Status: domain.PaymentCompleted, AmountMinor: 1000}
	err = applyWebhookTransition(ctxBg(), tx, payment, WebhookEvent{Kind: "refund.succeeded"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyWebhookTransition_TerminalStatusIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	payment := &domain.Payment{ID: "payment-1", Status: domain.PaymentFailed}
	err = applyWebhookTransition(ctxBg(), tx, payment, WebhookEvent{Kind: "charge.succeeded"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet()) // no queries expected or issued
}

func TestApplyWebhookTransition_DuplicateChargeSucceededIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	// payment already Completed: a replayed charge.succeeded must not re-apply
	payment := &domain.Payment{ID: "payment-1", Status: domain.PaymentCompleted}
	err = applyWebhookTransition(ctxBg(), tx, payment, WebhookEvent{Kind: "charge.succeeded"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
