package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// URLSigner issues expiring download URLs of the form
// {base}/files/{key}?exp={unix}&sig={hmac}. Verification fails closed on any
// mismatch: bad signature, expired timestamp, unknown key.
type URLSigner struct {
	base string
	key  []byte
	ttl  time.Duration
	now  func() time.Time
}

func NewURLSigner(baseURL, secret string, ttl time.Duration) *URLSigner {
	return &URLSigner{base: baseURL, key: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *URLSigner) Sign(key string) string {
	exp := s.now().Add(s.ttl).Unix()
	sig := s.mac(key, exp)
	return fmt.Sprintf("%s/files/%s?exp=%d&sig=%s", s.base, escapeKey(key), exp, sig)
}

// escapeKey escapes each path segment but keeps the separators, so the
// served route still sees the slash-delimited key.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func (s *URLSigner) Verify(key, expStr, sig string) bool {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix() > exp {
		return false
	}
	expect := s.mac(key, exp)
	return hmac.Equal([]byte(expect), []byte(sig))
}

func (s *URLSigner) mac(key string, exp int64) string {
	m := hmac.New(sha256.New, s.key)
	fmt.Fprintf(m, "%s\n%d", key, exp)
	return hex.EncodeToString(m.Sum(nil))
}
