package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/quizforge/quizforge/internal/purchase"
)

// StripeWebhookHandler receives payment events. Signature failures and
// fulfillment errors return 4xx/5xx so Stripe's own retry policy takes over;
// nothing is retried here.
func StripeWebhookHandler(f *purchase.Fulfiller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sig := r.Header.Get("Stripe-Signature")
		if sig == "" {
			http.Error(w, "missing stripe-signature header", http.StatusBadRequest)
			return
		}
		payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		res, err := f.HandleWebhook(r.Context(), payload, sig)
		if errors.Is(err, purchase.ErrInvalidSignature) {
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"webhook processing failed"}`))
			return
		}
		writeJSON(w, res)
	}
}

// GetPurchaseHandler is the post-checkout polling endpoint: the success page
// asks for the purchase by session id until the webhook has landed. Served
// with permissive CORS because the storefront lives on another origin.
func GetPurchaseHandler(f *purchase.Fulfiller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"missing session_id parameter"}`))
			return
		}

		p, err := f.GetBySessionID(r.Context(), sessionID)
		if errors.Is(err, purchase.ErrPurchaseNotFound) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"purchase not found","pending":true}`))
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"email":      p.Email,
			"accessCode": p.AccessCode,
			"createdAt":  p.CreatedAt,
		})
	}
}

func GetPurchasePreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusNoContent)
	}
}
