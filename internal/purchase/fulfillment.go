package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/quizforge/quizforge/internal/access"
)

var (
	ErrMissingWebhookSecret = errors.New("missing stripe webhook secret")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrNoCustomerEmail      = errors.New("customer email not found")
)

// Fulfiller drives the checkout-completed flow: verified webhook event in,
// purchase + access code recorded, confirmation email out.
type Fulfiller struct {
	store         Store
	mailer        Mailer
	webhookSecret string
	log           zerolog.Logger
	now           func() time.Time
	newCode       func() string
}

func NewFulfiller(store Store, mailer Mailer, webhookSecret string, log zerolog.Logger) *Fulfiller {
	return &Fulfiller{
		store:         store,
		mailer:        mailer,
		webhookSecret: webhookSecret,
		log:           log,
		now:           time.Now,
		newCode:       access.GenerateCode,
	}
}

type WebhookResult struct {
	Success    bool   `json:"success"`
	Email      string `json:"email,omitempty"`
	AccessCode string `json:"accessCode,omitempty"`
	Message    string `json:"message,omitempty"`
}

// HandleWebhook verifies the payload signature and, for completed checkout
// sessions, records the purchase and dispatches the access code email.
// Recording is idempotent on the session id; a replayed delivery reuses the
// originally issued code. Email delivery is at-least-once: a send failure
// after commit surfaces as a webhook failure (leaving the records in place)
// so the payment provider retries.
func (f *Fulfiller) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (WebhookResult, error) {
	if f.webhookSecret == "" {
		return WebhookResult{}, ErrMissingWebhookSecret
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, f.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		f.log.Error().Err(err).Msg("webhook signature verification failed")
		return WebhookResult{}, ErrInvalidSignature
	}

	if event.Type != "checkout.session.completed" {
		return WebhookResult{Success: true, Message: "event type not handled"}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return WebhookResult{}, err
	}

	email := ""
	if sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}
	if email == "" {
		email = sess.CustomerEmail
	}
	if email == "" {
		return WebhookResult{}, ErrNoCustomerEmail
	}

	paymentIntentID := ""
	if sess.PaymentIntent != nil {
		paymentIntentID = sess.PaymentIntent.ID
	}

	now := f.now().UnixMilli()
	code := f.newCode()
	p := Purchase{
		ID:              uuid.NewString(),
		Email:           email,
		AccessCode:      code,
		SessionID:       sess.ID,
		PaymentIntentID: paymentIntentID,
		AmountTotal:     sess.AmountTotal,
		Currency:        string(sess.Currency),
		CreatedAt:       now,
	}
	stored, created, err := f.store.CreateWithCode(ctx, p, access.Code{
		ID:              uuid.NewString(),
		Code:            code,
		Email:           email,
		PurchasedAt:     now,
		StripePaymentID: paymentIntentID,
	})
	if err != nil {
		return WebhookResult{}, err
	}
	if !created {
		f.log.Info().Str("session_id", sess.ID).Msg("purchase already recorded, reusing access code")
	}

	if err := f.mailer.SendAccessCode(ctx, email, stored.AccessCode); err != nil {
		f.log.Error().Err(err).Str("email", email).Msg("access code email failed")
		return WebhookResult{}, err
	}
	f.log.Info().Str("email", email).Str("session_id", sess.ID).Msg("purchase fulfilled")

	return WebhookResult{Success: true, Email: email, AccessCode: stored.AccessCode}, nil
}

func (f *Fulfiller) GetBySessionID(ctx context.Context, sessionID string) (Purchase, error) {
	return f.store.GetBySessionID(ctx, sessionID)
}
