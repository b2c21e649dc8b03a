package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/storage"
)

type memBlobs map[string][]byte

func (m memBlobs) Put(key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m[key] = data
	return key, nil
}

func (m memBlobs) Get(key string) (io.ReadCloser, error) {
	data, ok := m[key]
	if !ok {
		return nil, io.EOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m memBlobs) Exists(key string) (bool, error) {
	_, ok := m[key]
	return ok, nil
}

func filesServer(t *testing.T, blobs memBlobs, signer *storage.URLSigner) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/files", func(fr chi.Router) {
		MountFiles(fr, blobs, signer)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestFilesRouteServesSignedURL(t *testing.T) {
	blobs := memBlobs{"resources/abc/cheat sheet.pdf": []byte("pdf-bytes")}
	signer := storage.NewURLSigner("", "secret", time.Hour)
	srv := filesServer(t, blobs, signer)

	signed := signer.Sign("resources/abc/cheat sheet.pdf")
	resp, err := http.Get(srv.URL + signed)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(body))
}

func TestFilesRouteRejectsUnsignedAndTampered(t *testing.T) {
	blobs := memBlobs{"resources/abc/file.pdf": []byte("pdf-bytes")}
	signer := storage.NewURLSigner("", "secret", time.Hour)
	srv := filesServer(t, blobs, signer)

	// No signature at all.
	resp, err := http.Get(srv.URL + "/files/resources/abc/file.pdf")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Signature for one key replayed against another.
	signed := signer.Sign("resources/abc/file.pdf")
	query := signed[strings.Index(signed, "?"):]
	resp, err = http.Get(srv.URL + "/files/resources/abc/other.pdf" + query)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestFilesRouteRejectsExpired(t *testing.T) {
	blobs := memBlobs{"resources/abc/file.pdf": []byte("pdf-bytes")}
	signer := storage.NewURLSigner("", "secret", -time.Minute)
	srv := filesServer(t, blobs, signer)

	signed := signer.Sign("resources/abc/file.pdf")
	resp, err := http.Get(srv.URL + signed)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
