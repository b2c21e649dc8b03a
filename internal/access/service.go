package access

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Business failures surfaced to the client as a structured error result.
var (
	ErrInvalidCode = errors.New("invalid access code")
	ErrCodeUsed    = errors.New("this access code has already been used")
	ErrCodeExpired = errors.New("this access code has expired")
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Issue creates a fresh access code for email. expiresInDays <= 0 means the
// code never expires.
func (s *Service) Issue(ctx context.Context, email string, expiresInDays int, stripePaymentID string) (Code, error) {
	now := s.now().UnixMilli()
	c := Code{
		ID:              uuid.NewString(),
		Code:            GenerateCode(),
		Email:           email,
		PurchasedAt:     now,
		IsUsed:          false,
		StripePaymentID: stripePaymentID,
	}
	if expiresInDays > 0 {
		c.ExpiresAt = now + int64(expiresInDays)*24*int64(time.Hour/time.Millisecond)
	}
	if err := s.store.CreateCode(ctx, c); err != nil {
		return Code{}, err
	}
	return c, nil
}

func (s *Service) ListCodes(ctx context.Context) ([]Code, error) {
	return s.store.ListCodes(ctx)
}

type RedeemResult struct {
	User      User `json:"user"`
	Returning bool `json:"returning"`
}

// Redeem exchanges an access code for a user record. First redemption marks
// the code used and creates the user; later redemptions of the same code
// succeed as a re-login for that user. The check-then-mark sequence below is
// not transactional: two truly concurrent first redemptions of one code can
// both pass the is_used check. Sequential redemptions are safe.
func (s *Service) Redeem(ctx context.Context, code string) (RedeemResult, error) {
	c, err := s.store.GetCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return RedeemResult{}, ErrInvalidCode
		}
		return RedeemResult{}, err
	}

	now := s.now().UnixMilli()

	if c.IsUsed {
		u, err := s.store.GetUserByCode(ctx, code)
		if err == nil {
			if err := s.store.TouchLogin(ctx, u.ID, now); err != nil {
				return RedeemResult{}, err
			}
			u.LastLoginAt = now
			return RedeemResult{User: u, Returning: true}, nil
		}
		if errors.Is(err, ErrUserNotFound) {
			return RedeemResult{}, ErrCodeUsed
		}
		return RedeemResult{}, err
	}

	if c.ExpiresAt != 0 && c.ExpiresAt < now {
		return RedeemResult{}, ErrCodeExpired
	}

	if err := s.store.MarkCodeUsed(ctx, c.ID); err != nil {
		return RedeemResult{}, err
	}

	u := User{
		ID:          uuid.NewString(),
		Email:       c.Email,
		AccessCode:  code,
		CreatedAt:   now,
		LastLoginAt: now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return RedeemResult{}, err
	}
	return RedeemResult{User: u, Returning: false}, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.store.GetUser(ctx, id)
}
