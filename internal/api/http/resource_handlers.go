package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/resource"
	"github.com/quizforge/quizforge/internal/storage"
)

func ListResourcesHandler(svc *resource.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		items, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, items)
	}
}

// DownloadResourceHandler issues a signed URL for an unlocked resource. The
// unlock predicate is evaluated here, at request time; a denial never
// includes a URL.
func DownloadResourceHandler(svc *resource.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		resourceID := chi.URLParam(r, "resourceID")

		grant, err := svc.IssueDownload(r.Context(), userID, resourceID)
		switch {
		case errors.Is(err, resource.ErrResourceNotFound),
			errors.Is(err, resource.ErrLocked),
			errors.Is(err, resource.ErrFileMissing):
			writeFail(w, err.Error())
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"success":     true,
			"downloadUrl": grant.DownloadURL,
			"fileName":    grant.FileName,
		})
	}
}

// MountFiles serves blobs at /files/{key} for URLs minted by the signer.
// Expired or tampered links get 403, never the blob.
func MountFiles(r chi.Router, bs storage.BlobStore, signer *storage.URLSigner) {
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		// chi hands back the raw wildcard when the URL carried escapes.
		key, err := url.PathUnescape(strings.TrimPrefix(chi.URLParam(req, "*"), "/"))
		if err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		q := req.URL.Query()
		if !signer.Verify(key, q.Get("exp"), q.Get("sig")) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	})
}
