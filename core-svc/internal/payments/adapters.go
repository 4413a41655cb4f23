package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/foodcourt-platform/platform/apierr"
)

// cardPSPAdapter models both CardPSPA and CardPSPB: redirect/PaymentIntent flow, settlement
// via async webhook signed with an HMAC-SHA256 header, the same signing idiom
// platform/identity uses for session tokens.
type cardPSPAdapter struct {
	name      string
	secret    string
	publicURL string
}

func NewCardPSPA(secret, publicURL string) Provider { return &cardPSPAdapter{name: "CardPSPA", secret: secret, publicURL: publicURL} }
func NewCardPSPB(secret, publicURL string) Provider { return &cardPSPAdapter{name: "CardPSPB", secret: secret, publicURL: publicURL} }

func (a *cardPSPAdapter) Name() string { return a.name }

func (a *cardPSPAdapter) CreateCharge(ctx context.Context, draft ChargeDraft) (ChargeResult, error) {
	if a.secret == "" {
		return ChargeResult{}, apierr.New(apierr.ProviderUnavailable, a.name+" is not configured")
	}
	ref := fmt.Sprintf("%s-%s", a.name, uuid.NewString())
	return ChargeResult{
		ProviderRef: ref,
		RedirectURL: fmt.Sprintf("%s/checkout/%s", a.publicURL, ref),
	}, nil
}

func (a *cardPSPAdapter) Refund(ctx context.Context, providerRef string, amountMinor int64, reason string) (RefundResult, error) {
	if a.secret == "" {
		return RefundResult{}, apierr.New(apierr.ProviderUnavailable, a.name+" is not configured")
	}
	return RefundResult{RefundRef: fmt.Sprintf("%s-refund-%s", a.name, uuid.NewString())}, nil
}

type webhookEnvelope struct {
	EventID     string `json:"eventId"`
	ProviderRef string `json:"providerRef"`
	Kind        string `json:"kind"`
	Reason      string `json:"reason"`
}

func (a *cardPSPAdapter) VerifyWebhook(rawBody []byte, headers map[string]string) (WebhookEvent, error) {
	sig := headers["X-Signature"]
	if sig == "" {
		return WebhookEvent{}, apierr.New(apierr.InvalidWebhookSignature, "missing signature header")
	}

	mac := hmac.New(sha256.New, []byte(a.secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return WebhookEvent{}, apierr.New(apierr.InvalidWebhookSignature, "signature mismatch")
	}

	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return WebhookEvent{}, apierr.New(apierr.InvalidWebhookSignature, "malformed webhook body")
	}

	return WebhookEvent{
		ProviderEventID: env.EventID,
		ProviderRef:     env.ProviderRef,
		Kind:            env.Kind,
		Reason:          env.Reason,
	}, nil
}

// cashAdapter is synchronous: status jumps to Completed at insertion (spec §4.5).
type cashAdapter struct{}

func NewCash() Provider { return &cashAdapter{} }

func (a *cashAdapter) Name() string { return "Cash" }

func (a *cashAdapter) CreateCharge(ctx context.Context, draft ChargeDraft) (ChargeResult, error) {
	return ChargeResult{ProviderRef: "cash-" + uuid.NewString()}, nil
}

func (a *cashAdapter) Refund(ctx context.Context, providerRef string, amountMinor int64, reason string) (RefundResult, error) {
	return RefundResult{RefundRef: "cash-refund-" + uuid.NewString()}, nil
}

func (a *cashAdapter) VerifyWebhook(rawBody []byte, headers map[string]string) (WebhookEvent, error) {
	return WebhookEvent{}, apierr.New(apierr.ValidationFailed, "cash payments do not receive webhooks")
}

// terminalAdapter is synchronous: status jumps to Completed at insertion (spec §4.5).
type terminalAdapter struct{}

func NewTerminal() Provider { return &terminalAdapter{} }

func (a *terminalAdapter) Name() string { return "Terminal" }

func (a *terminalAdapter) CreateCharge(ctx context.Context, draft ChargeDraft) (ChargeResult, error) {
	return ChargeResult{ProviderRef: "terminal-" + uuid.NewString()}, nil
}

func (a *terminalAdapter) Refund(ctx context.Context, providerRef string, amountMinor int64, reason string) (RefundResult, error) {
	return RefundResult{RefundRef: "terminal-refund-" + uuid.NewString()}, nil
}

func (a *terminalAdapter) VerifyWebhook(rawBody []byte, headers map[string]string) (WebhookEvent, error) {
	return WebhookEvent{}, apierr.New(apierr.ValidationFailed, "terminal payments do not receive webhooks")
}
