package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
)

var salt = []byte("campuscore.internal.pkg.signer")

// DefaultMaxAge is the verification token time-to-live.
const DefaultMaxAge = 3 * 24 * time.Hour // 259200s

// Signer issues and verifies timestamp-bound signed tokens whose payload is
// the pair (application id, email). The token carries no other state; the
// signature binds payload and issue timestamp to the secret key.
type Signer struct {
	key []byte

	// now is swapped out in tests
	now func() time.Time
}

// New creates a Signer from the application secret key.
func New(secret []byte) *Signer {
	key := sha256.Sum256(append(salt, secret...))
	return &Signer{key: key[:], now: time.Now}
}

// IssueToken builds a signed token embedding id and email.
// Format: base64url(id:email) "." base32(unix-seconds) "." base64url(signature).
func (s *Signer) IssueToken(id int64, email string) string {
	return s.issueAt(id, email, s.now().Unix())
}

func (s *Signer) issueAt(id int64, email string, ts int64) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%d:%s", id, email)))
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.FormatInt(ts, 10)))
	return payload + "." + tsB32 + "." + s.sign(payload, tsB32)
}

// Verify checks the token's signature and age. It returns the embedded id and
// email, apperrors.ErrTokenExpired when older than maxAge, and
// apperrors.ErrTokenInvalid on tampering or a malformed payload.
func (s *Signer) Verify(token string, maxAge time.Duration) (int64, string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return 0, "", apperrors.ErrTokenInvalid
	}
	payload, tsB32 := parts[0], parts[1]

	tsRaw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(tsB32)
	if err != nil {
		return 0, "", apperrors.ErrTokenInvalid
	}
	ts, err := strconv.ParseInt(string(tsRaw), 10, 64)
	if err != nil {
		return 0, "", apperrors.ErrTokenInvalid
	}

	expected := payload + "." + tsB32 + "." + s.sign(payload, tsB32)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 0 {
		return 0, "", apperrors.ErrTokenInvalid
	}

	if s.now().Sub(time.Unix(ts, 0)) > maxAge {
		return 0, "", apperrors.ErrTokenExpired
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return 0, "", apperrors.ErrTokenInvalid
	}
	idStr, email, found := strings.Cut(string(raw), ":")
	if !found {
		return 0, "", apperrors.ErrTokenInvalid
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", apperrors.ErrTokenInvalid
	}
	return id, email, nil
}

func (s *Signer) sign(payload, tsB32 string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(payload))
	h.Write([]byte("."))
	h.Write([]byte(tsB32))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
