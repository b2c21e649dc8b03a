package purchase

type Purchase struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	AccessCode      string `json:"accessCode"`
	SessionID       string `json:"sessionId"` // Stripe checkout session id, idempotency key
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	AmountTotal     int64  `json:"amountTotal"`
	Currency        string `json:"currency"`
	CreatedAt       int64  `json:"createdAt"`
}
