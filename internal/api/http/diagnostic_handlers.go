package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/diagnostic"
)

// GetDiagnosticHandler returns the active diagnostic, keys stripped. Public:
// guests take the diagnostic before they own an access code.
func GetDiagnosticHandler(svc *diagnostic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.GetActive(r.Context())
		if errors.Is(err, diagnostic.ErrDiagnosticNotFound) {
			writeFail(w, err.Error())
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, view)
	}
}

func SubmitDiagnosticHandler(svc *diagnostic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DiagnosticQuizID string                   `json:"diagnosticQuizId"`
			GuestID          string                   `json:"guestId"`
			Answers          []diagnostic.AnswerInput `json:"answers"`
			TimeSpentSeconds int                      `json:"timeSpentSeconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		// Authenticated callers submit as themselves, anonymous ones
		// under a client-generated guest id.
		userID := auth.SubjectFromContext(r.Context())

		res, err := svc.Submit(r.Context(), req.DiagnosticQuizID, userID, req.GuestID, req.Answers, req.TimeSpentSeconds)
		switch {
		case errors.Is(err, diagnostic.ErrMissingIdentity),
			errors.Is(err, diagnostic.ErrUserNotFound),
			errors.Is(err, diagnostic.ErrDiagnosticNotFound):
			writeFail(w, err.Error())
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"success":         true,
			"attemptId":       res.AttemptID,
			"overallScore":    res.OverallScore,
			"overallLevel":    res.OverallLevel,
			"categoryResults": res.CategoryResults,
			"recommendations": res.Recommendations,
			"totalCorrect":    res.TotalCorrect,
			"totalQuestions":  res.TotalQuestions,
		})
	}
}

func DiagnosticResultsHandler(svc *diagnostic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		guestID := r.URL.Query().Get("guestId")

		res, err := svc.Results(r.Context(), userID, guestID)
		switch {
		case errors.Is(err, diagnostic.ErrMissingIdentity),
			errors.Is(err, diagnostic.ErrAttemptNotFound):
			writeFail(w, "no diagnostic results found")
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, res)
	}
}

// MigrateGuestHandler re-parents guest diagnostic attempts onto the
// authenticated user.
func MigrateGuestHandler(svc *diagnostic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GuestID string `json:"guestId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.GuestID == "" {
			http.Error(w, "guestId required", http.StatusBadRequest)
			return
		}
		userID := auth.SubjectFromContext(r.Context())

		res, err := svc.MigrateGuest(r.Context(), req.GuestID, userID)
		switch {
		case errors.Is(err, diagnostic.ErrUserNotFound),
			errors.Is(err, diagnostic.ErrNoGuestAttempts):
			writeFail(w, err.Error())
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"success": true, "migratedCount": res.MigratedCount})
	}
}
