package access

type Code struct {
	ID              string `json:"id"`
	Code            string `json:"code"`
	Email           string `json:"email"`
	PurchasedAt     int64  `json:"purchased_at"`
	ExpiresAt       int64  `json:"expires_at,omitempty"` // unix ms, 0 = no expiry
	IsUsed          bool   `json:"is_used"`
	StripePaymentID string `json:"stripe_payment_id,omitempty"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	AccessCode  string `json:"access_code"`
	CreatedAt   int64  `json:"created_at"`
	LastLoginAt int64  `json:"last_login_at,omitempty"`
}
