package auth

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminMiddleware gates a route group behind the shared admin secret carried
// in X-Admin-Secret and compared against a bcrypt hash from configuration.
// An empty hash denies every request: admin access is opt-in, never a
// default.
func AdminMiddleware(secretHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretHash == "" {
				http.Error(w, "admin access not configured", http.StatusForbidden)
				return
			}
			secret := r.Header.Get("X-Admin-Secret")
			if secret == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)); err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
