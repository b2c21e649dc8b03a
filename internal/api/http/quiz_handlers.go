package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/quiz"
)

func ListQuizzesHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.ListActive(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}

func GetQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		view, err := svc.GetForTaking(r.Context(), id)
		if errors.Is(err, quiz.ErrQuizNotFound) || errors.Is(err, quiz.ErrInactiveQuiz) {
			writeFail(w, "quiz not found")
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, view)
	}
}

func SubmitQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers          []quiz.AnswerInput `json:"answers"`
			TimeSpentSeconds int                `json:"timeSpentSeconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		userID := auth.SubjectFromContext(r.Context())
		quizID := chi.URLParam(r, "quizID")

		res, err := svc.Submit(r.Context(), userID, quizID, req.Answers, req.TimeSpentSeconds)
		switch {
		case errors.Is(err, quiz.ErrUserNotFound), errors.Is(err, quiz.ErrQuizNotFound):
			writeFail(w, err.Error())
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"success":        true,
			"attemptId":      res.AttemptID,
			"score":          res.Score,
			"passed":         res.Passed,
			"correctCount":   res.CorrectCount,
			"totalQuestions": res.TotalQuestions,
			"passingScore":   res.PassingScore,
			"results":        res.Results,
		})
	}
}

func ProgressHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		p, err := svc.UserProgress(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, p)
	}
}
