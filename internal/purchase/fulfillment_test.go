package purchase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/access"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload produces a Stripe-Signature header Stripe's webhook package
// accepts: t=<unix>,v1=hex(hmac-sha256(secret, "<unix>.<payload>")).
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload(sessionID, email string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": %q,
				"customer_details": {"email": %q},
				"amount_total": 4900,
				"currency": "usd"
			}
		}
	}`, sessionID, email))
}

type memStore struct {
	bySession map[string]Purchase
	codes     []access.Code
}

func newMemStore() *memStore {
	return &memStore{bySession: map[string]Purchase{}}
}

func (m *memStore) CreateWithCode(_ context.Context, p Purchase, code access.Code) (Purchase, bool, error) {
	if existing, ok := m.bySession[p.SessionID]; ok {
		return existing, false, nil
	}
	m.bySession[p.SessionID] = p
	m.codes = append(m.codes, code)
	return p, true, nil
}

func (m *memStore) GetBySessionID(_ context.Context, sessionID string) (Purchase, error) {
	p, ok := m.bySession[sessionID]
	if !ok {
		return Purchase{}, ErrPurchaseNotFound
	}
	return p, nil
}

type memMailer struct {
	sent []string // "email:code"
	fail error
}

func (m *memMailer) SendAccessCode(_ context.Context, email, code string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, email+":"+code)
	return nil
}

func newTestFulfiller(store Store, mailer Mailer) *Fulfiller {
	return NewFulfiller(store, mailer, testWebhookSecret, zerolog.Nop())
}

func TestHandleWebhookFulfillsCheckout(t *testing.T) {
	store := newMemStore()
	mailer := &memMailer{}
	f := newTestFulfiller(store, mailer)

	payload := checkoutCompletedPayload("cs_test_1", "buyer@example.com")
	res, err := f.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "buyer@example.com", res.Email)
	assert.NotEmpty(t, res.AccessCode)

	p, err := store.GetBySessionID(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, res.AccessCode, p.AccessCode)
	assert.EqualValues(t, 4900, p.AmountTotal)
	assert.Equal(t, "usd", p.Currency)

	require.Len(t, store.codes, 1)
	assert.Equal(t, res.AccessCode, store.codes[0].Code)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "buyer@example.com:"+res.AccessCode, mailer.sent[0])
}

func TestHandleWebhookReplayReusesOriginalCode(t *testing.T) {
	store := newMemStore()
	mailer := &memMailer{}
	f := newTestFulfiller(store, mailer)

	payload := checkoutCompletedPayload("cs_test_1", "buyer@example.com")
	first, err := f.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)

	second, err := f.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)

	// One purchase, one code; the retry emails the code issued first.
	assert.Equal(t, first.AccessCode, second.AccessCode)
	assert.Len(t, store.bySession, 1)
	assert.Len(t, store.codes, 1)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, mailer.sent[0], mailer.sent[1])
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	store := newMemStore()
	f := newTestFulfiller(store, &memMailer{})

	payload := []byte(`{"id":"evt_2","type":"payment_intent.succeeded","data":{"object":{}}}`)
	res, err := f.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "event type not handled", res.Message)
	assert.Empty(t, store.bySession)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	f := newTestFulfiller(newMemStore(), &memMailer{})

	payload := checkoutCompletedPayload("cs_test_1", "buyer@example.com")
	_, err := f.HandleWebhook(context.Background(), payload, signPayload(payload, "whsec_wrong", time.Now()))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestHandleWebhookRequiresSecret(t *testing.T) {
	f := NewFulfiller(newMemStore(), &memMailer{}, "", zerolog.Nop())
	_, err := f.HandleWebhook(context.Background(), []byte("{}"), "t=1,v1=abc")
	assert.ErrorIs(t, err, ErrMissingWebhookSecret)
}

func TestHandleWebhookRequiresCustomerEmail(t *testing.T) {
	f := newTestFulfiller(newMemStore(), &memMailer{})

	payload := []byte(`{
		"id": "evt_3",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_2", "amount_total": 4900, "currency": "usd"}}
	}`)
	_, err := f.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret, time.Now()))
	assert.ErrorIs(t, err, ErrNoCustomerEmail)
}

func TestHandleWebhookMailFailureKeepsRecords(t *testing.T) {
	store := newMemStore()
	mailer := &memMailer{fail: errors.New("smtp down")}
	f := newTestFulfiller(store, mailer)

	payload := checkoutCompletedPayload("cs_test_1", "buyer@example.com")
	_, err := f.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.Error(t, err)

	// The purchase stays recorded so the provider's retry reuses its code.
	_, err = store.GetBySessionID(context.Background(), "cs_test_1")
	assert.NoError(t, err)
}
