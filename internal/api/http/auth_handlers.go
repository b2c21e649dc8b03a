package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizforge/quizforge/internal/access"
	"github.com/quizforge/quizforge/internal/auth"
)

// RedeemHandler exchanges an access code for a user and a session token.
func RedeemHandler(svc *access.Service, authSvc *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Code == "" {
			http.Error(w, "code required", http.StatusBadRequest)
			return
		}

		res, err := svc.Redeem(r.Context(), req.Code)
		switch {
		case errors.Is(err, access.ErrInvalidCode),
			errors.Is(err, access.ErrCodeUsed),
			errors.Is(err, access.ErrCodeExpired):
			writeFail(w, err.Error())
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		tok, err := authSvc.IssueJWT(res.User.ID, res.User.Email)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"success":         true,
			"userId":          res.User.ID,
			"email":           res.User.Email,
			"isReturningUser": res.Returning,
			"accessToken":     tok,
		})
	}
}

// SessionHandler validates the bearer token and returns the user it names.
func SessionHandler(svc *access.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		u, err := svc.GetUser(r.Context(), userID)
		if errors.Is(err, access.ErrUserNotFound) {
			writeJSON(w, map[string]any{"valid": false})
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"valid": true, "user": u})
	}
}
