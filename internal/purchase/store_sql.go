package purchase

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quizforge/quizforge/internal/access"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

type Store interface {
	// CreateWithCode records the purchase and its access code in one
	// transaction, keyed on the checkout session id. A replay for an
	// already-recorded session returns the existing purchase, writes
	// nothing, and reports created=false.
	CreateWithCode(ctx context.Context, p Purchase, code access.Code) (Purchase, bool, error)
	GetBySessionID(ctx context.Context, sessionID string) (Purchase, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) CreateWithCode(ctx context.Context, p Purchase, code access.Code) (Purchase, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Purchase{}, false, err
	}
	defer tx.Rollback()

	// Conflict on the unique session_id is the idempotency check: no
	// read-then-write window.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO purchases (id,email,access_code,session_id,payment_intent_id,amount_total,currency,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (session_id) DO NOTHING`,
		p.ID, p.Email, p.AccessCode, p.SessionID, nullStr(p.PaymentIntentID), p.AmountTotal, p.Currency, p.CreatedAt)
	if err != nil {
		return Purchase{}, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Purchase{}, false, err
	}
	if n == 0 {
		_ = tx.Rollback()
		existing, err := s.GetBySessionID(ctx, p.SessionID)
		if err != nil {
			return Purchase{}, false, err
		}
		return existing, false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO access_codes (id,code,email,purchased_at,expires_at,is_used,stripe_payment_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		code.ID, code.Code, code.Email, code.PurchasedAt, nil, code.IsUsed, nullStr(code.StripePaymentID)); err != nil {
		return Purchase{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return Purchase{}, false, err
	}
	return p, true, nil
}

func (s *SQLStore) GetBySessionID(ctx context.Context, sessionID string) (Purchase, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,email,access_code,session_id,payment_intent_id,amount_total,currency,created_at
		 FROM purchases WHERE session_id=$1`, sessionID)
	var p Purchase
	var intent sql.NullString
	if err := row.Scan(&p.ID, &p.Email, &p.AccessCode, &p.SessionID, &intent, &p.AmountTotal, &p.Currency, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Purchase{}, ErrPurchaseNotFound
		}
		return Purchase{}, err
	}
	p.PaymentIntentID = intent.String
	return p, nil
}

func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}
