package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/access"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/resource"
	"github.com/quizforge/quizforge/internal/seed"
	"github.com/quizforge/quizforge/internal/storage"
)

func CreateAccessCodeHandler(svc *access.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email           string `json:"email"`
			ExpiresInDays   int    `json:"expiresInDays"`
			StripePaymentID string `json:"stripePaymentId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Email == "" {
			http.Error(w, "email required", http.StatusBadRequest)
			return
		}
		c, err := svc.Issue(r.Context(), req.Email, req.ExpiresInDays, req.StripePaymentID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"code": c.Code, "email": c.Email, "expiresAt": c.ExpiresAt})
	}
}

func ListAccessCodesHandler(svc *access.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes, err := svc.ListCodes(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, codes)
	}
}

func CreateQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if q.Title == "" || len(q.Questions) == 0 {
			http.Error(w, "title and questions required", http.StatusBadRequest)
			return
		}
		created, err := svc.Create(r.Context(), q)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, created)
	}
}

func ListAllQuizzesHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizzes, err := svc.ListAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, quizzes)
	}
}

func ToggleQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		active, err := svc.ToggleActive(r.Context(), id)
		if errors.Is(err, quiz.ErrQuizNotFound) {
			writeFail(w, err.Error())
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"success": true, "isActive": active})
	}
}

func CreateResourceHandler(svc *resource.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resource.Resource
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuizID == "" || req.FileKey == "" {
			http.Error(w, "quizId and fileKey required", http.StatusBadRequest)
			return
		}
		created, err := svc.Create(r.Context(), req)
		if errors.Is(err, quiz.ErrQuizNotFound) {
			writeFail(w, err.Error())
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, created)
	}
}

// UploadHandler stores a resource file and returns its blob key, which a
// follow-up create-resource call references.
func UploadHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		key := fmt.Sprintf("resources/%s/%s", uuid.NewString(), filepath.Base(hdr.Filename))
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"key": key})
	}
}

func DownloadStatsHandler(svc *resource.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, stats)
	}
}

func SeedHandler(s *seed.Seeder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := s.Run(r.Context())
		if err != nil {
			http.Error(w, "seed failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"message": msg})
	}
}
