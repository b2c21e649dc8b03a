package access

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrCodeNotFound = errors.New("access code not found")
	ErrUserNotFound = errors.New("user not found")
)

type Store interface {
	CreateCode(ctx context.Context, c Code) error
	GetCode(ctx context.Context, code string) (Code, error)
	MarkCodeUsed(ctx context.Context, id string) error
	ListCodes(ctx context.Context) ([]Code, error)

	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByCode(ctx context.Context, code string) (User, error)
	TouchLogin(ctx context.Context, userID string, at int64) error
	UserExists(ctx context.Context, id string) (bool, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) CreateCode(ctx context.Context, c Code) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO access_codes (id,code,email,purchased_at,expires_at,is_used,stripe_payment_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.Code, c.Email, c.PurchasedAt, nullInt(c.ExpiresAt), c.IsUsed, nullStr(c.StripePaymentID))
	return err
}

func (s *SQLStore) GetCode(ctx context.Context, code string) (Code, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,code,email,purchased_at,expires_at,is_used,stripe_payment_id
		 FROM access_codes WHERE code=$1`, code)
	return scanCode(row)
}

func (s *SQLStore) MarkCodeUsed(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE access_codes SET is_used=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCodeNotFound
	}
	return nil
}

func (s *SQLStore) ListCodes(ctx context.Context) ([]Code, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,code,email,purchased_at,expires_at,is_used,stripe_payment_id
		 FROM access_codes ORDER BY purchased_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Code
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id,email,access_code,created_at,last_login_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Email, u.AccessCode, u.CreatedAt, nullInt(u.LastLoginAt))
	return err
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,email,access_code,created_at,last_login_at FROM users WHERE id=$1`, id)
	return scanUser(row)
}

func (s *SQLStore) GetUserByCode(ctx context.Context, code string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,email,access_code,created_at,last_login_at FROM users WHERE access_code=$1`, code)
	return scanUser(row)
}

func (s *SQLStore) TouchLogin(ctx context.Context, userID string, at int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login_at=$1 WHERE id=$2`, at, userID)
	return err
}

func (s *SQLStore) UserExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCode(row rowScanner) (Code, error) {
	var c Code
	var expires sql.NullInt64
	var payID sql.NullString
	if err := row.Scan(&c.ID, &c.Code, &c.Email, &c.PurchasedAt, &expires, &c.IsUsed, &payID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Code{}, ErrCodeNotFound
		}
		return Code{}, err
	}
	c.ExpiresAt = expires.Int64
	c.StripePaymentID = payID.String
	return c, nil
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var lastLogin sql.NullInt64
	if err := row.Scan(&u.ID, &u.Email, &u.AccessCode, &u.CreatedAt, &lastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	u.LastLoginAt = lastLogin.Int64
	return u, nil
}

func nullInt(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}
