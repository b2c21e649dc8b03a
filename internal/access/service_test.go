package access

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	codes map[string]Code // keyed by code string
	users map[string]User // keyed by user id
}

func newFakeStore() *fakeStore {
	return &fakeStore{codes: map[string]Code{}, users: map[string]User{}}
}

func (f *fakeStore) CreateCode(_ context.Context, c Code) error {
	f.codes[c.Code] = c
	return nil
}

func (f *fakeStore) GetCode(_ context.Context, code string) (Code, error) {
	c, ok := f.codes[code]
	if !ok {
		return Code{}, ErrCodeNotFound
	}
	return c, nil
}

func (f *fakeStore) MarkCodeUsed(_ context.Context, id string) error {
	for k, c := range f.codes {
		if c.ID == id {
			c.IsUsed = true
			f.codes[k] = c
			return nil
		}
	}
	return ErrCodeNotFound
}

func (f *fakeStore) ListCodes(_ context.Context) ([]Code, error) {
	var out []Code
	for _, c := range f.codes {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) CreateUser(_ context.Context, u User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUserByCode(_ context.Context, code string) (User, error) {
	for _, u := range f.users {
		if u.AccessCode == code {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (f *fakeStore) TouchLogin(_ context.Context, userID string, at int64) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.LastLoginAt = at
	f.users[userID] = u
	return nil
}

func (f *fakeStore) UserExists(_ context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func TestGenerateCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		assert.Regexp(t, pattern, code)
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "1")
		seen[code] = true
	}
	// 100 draws from a 32^12 space colliding would mean a broken generator.
	assert.Len(t, seen, 100)
}

func TestIssueAndRedeemFirstTime(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)

	c, err := svc.Issue(context.Background(), "buyer@example.com", 0, "pi_123")
	require.NoError(t, err)
	assert.Zero(t, c.ExpiresAt)

	res, err := svc.Redeem(context.Background(), c.Code)
	require.NoError(t, err)
	assert.False(t, res.Returning)
	assert.Equal(t, "buyer@example.com", res.User.Email)
	assert.Equal(t, c.Code, res.User.AccessCode)
	assert.True(t, fs.codes[c.Code].IsUsed)
}

func TestRedeemAgainIsReLogin(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)

	c, err := svc.Issue(context.Background(), "buyer@example.com", 0, "")
	require.NoError(t, err)

	first, err := svc.Redeem(context.Background(), c.Code)
	require.NoError(t, err)

	second, err := svc.Redeem(context.Background(), c.Code)
	require.NoError(t, err)
	assert.True(t, second.Returning)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.GreaterOrEqual(t, second.User.LastLoginAt, first.User.LastLoginAt)

	// Exactly one user per code, no matter how many redemptions.
	assert.Len(t, fs.users, 1)
}

func TestRedeemInvalidCode(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Redeem(context.Background(), "AAAA-BBBB-CCCC")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestRedeemUsedCodeWithoutUser(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)

	c, err := svc.Issue(context.Background(), "buyer@example.com", 0, "")
	require.NoError(t, err)
	require.NoError(t, fs.MarkCodeUsed(context.Background(), c.ID))

	_, err = svc.Redeem(context.Background(), c.Code)
	assert.ErrorIs(t, err, ErrCodeUsed)
}

func TestRedeemExpiredCode(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)
	svc.now = func() time.Time { return time.UnixMilli(1_000_000) }

	c, err := svc.Issue(context.Background(), "buyer@example.com", 30, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.UnixMilli(c.ExpiresAt + 1) }
	_, err = svc.Redeem(context.Background(), c.Code)
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.False(t, fs.codes[c.Code].IsUsed)
}

func TestIssueExpiryWindow(t *testing.T) {
	svc := NewService(newFakeStore())
	base := time.UnixMilli(1_700_000_000_000)
	svc.now = func() time.Time { return base }

	c, err := svc.Issue(context.Background(), "buyer@example.com", 30, "")
	require.NoError(t, err)
	assert.Equal(t, base.UnixMilli()+30*24*time.Hour.Milliseconds(), c.ExpiresAt)
}
