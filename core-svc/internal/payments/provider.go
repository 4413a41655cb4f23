// Package payments is the C5 payment broker: owns the Payment aggregate, dispatches to
// provider adapters, reconciles webhooks, computes the commission split. Grounded on
// dish-svc's service-layer structure (interface + struct + constructor), generalized to
// the multi-provider state machine of spec §4.5.
package payments

import (
	"context"
)

// ChargeResult is what createCharge returns for async providers (spec §4.5).
type ChargeResult struct {
	ProviderRef string
	RedirectURL string
}

// RefundResult is what refund returns.
type RefundResult struct {
	RefundRef string
}

// WebhookEvent is the provider-agnostic shape verifyWebhook normalizes a raw payload into.
type WebhookEvent struct {
	ProviderEventID string
	ProviderRef     string
	Kind            string // "charge.succeeded", "charge.failed", "charge.canceled", "refund.succeeded"
	Reason          string
}

type ChargeDraft struct {
	PaymentID   string
	AmountMinor int64
	Currency    string
}

// Provider is the adapter interface spec §4.5 names: createCharge, refund, verifyWebhook.
// Adapters are stateless; all durable state lives on the Payment aggregate.
type Provider interface {
	Name() string
	CreateCharge(ctx context.Context, draft ChargeDraft) (ChargeResult, error)
	Refund(ctx context.Context, providerRef string, amountMinor int64, reason string) (RefundResult, error)
	VerifyWebhook(rawBody []byte, headers map[string]string) (WebhookEvent, error)
}
