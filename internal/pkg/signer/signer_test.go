package signer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
)

func TestIssueAndVerify(t *testing.T) {
	s := New([]byte("secret"))

	token := s.IssueToken(42, "jane@campus.edu")
	id, email, err := s.Verify(token, DefaultMaxAge)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "jane@campus.edu", email)
}

func TestVerifyMalformed(t *testing.T) {
	s := New([]byte("secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not enough parts", "abc.def"},
		{"too many parts", "a.b.c.d"},
		{"bad base32 timestamp", "cGF5bG9hZA.!!!!.c2ln"},
		{"non numeric timestamp", "cGF5bG9hZA.NRXWY.c2ln"},
		{"garbage signature", "cGF5bG9hZA.GE3DOMRQGAYDA.c2ln"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Verify(tt.token, DefaultMaxAge)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
		})
	}
}

func TestVerifyTampered(t *testing.T) {
	s := New([]byte("secret"))
	token := s.IssueToken(42, "jane@campus.edu")

	other := New([]byte("secret"))
	forged := other.issueAt(43, "jane@campus.edu", time.Now().Unix())
	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")

	// swap in another payload while keeping the original signature
	tampered := forgedParts[0] + "." + parts[1] + "." + parts[2]
	_, _, err := s.Verify(tampered, DefaultMaxAge)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestVerifyWrongKey(t *testing.T) {
	issued := New([]byte("secret-a")).IssueToken(7, "a@campus.edu")
	_, _, err := New([]byte("secret-b")).Verify(issued, DefaultMaxAge)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestVerifyExpired(t *testing.T) {
	s := New([]byte("secret"))
	issuedAt := time.Now().Add(-DefaultMaxAge - time.Hour)
	token := s.issueAt(42, "jane@campus.edu", issuedAt.Unix())

	_, _, err := s.Verify(token, DefaultMaxAge)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestVerifyJustWithinMaxAge(t *testing.T) {
	s := New([]byte("secret"))
	issuedAt := time.Now().Add(-DefaultMaxAge + time.Minute)
	token := s.issueAt(42, "jane@campus.edu", issuedAt.Unix())

	id, _, err := s.Verify(token, DefaultMaxAge)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}
