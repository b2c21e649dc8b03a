package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndParseJWT(t *testing.T) {
	a := NewAuthService("test-secret")

	tok, err := a.IssueJWT("user-1", "u@example.com")
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "user-1", c.Sub)
	assert.Equal(t, "u@example.com", c.Email)
	assert.Equal(t, "quizforge", c.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewAuthService("secret-a").IssueJWT("user-1", "")
	require.NoError(t, err)

	_, err = NewAuthService("secret-b").Parse(tok)
	assert.Error(t, err)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret")
	var gotSub string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No token.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/quizzes", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/quizzes", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	tok, err := a.IssueJWT("user-1", "")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotSub)
}

func TestOptionalJWTAllowsAnonymous(t *testing.T) {
	a := NewAuthService("test-secret")
	var gotSub string
	h := OptionalJWT(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/diagnostic/submit", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gotSub)

	tok, err := a.IssueJWT("user-1", "")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/diagnostic/submit", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotSub)
}

func TestAdminMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	h := AdminMiddleware(string(hash))(okHandler())

	// No header.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/quizzes", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong secret.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/quizzes", nil)
	req.Header.Set("X-Admin-Secret", "wrong")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Right secret.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin/quizzes", nil)
	req.Header.Set("X-Admin-Secret", "hunter2")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminMiddlewareUnconfiguredDeniesAll(t *testing.T) {
	h := AdminMiddleware("")(okHandler())

	req := httptest.NewRequest("GET", "/admin/quizzes", nil)
	req.Header.Set("X-Admin-Secret", "anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
