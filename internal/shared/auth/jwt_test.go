package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	v, err := NewVerifier("s3cret", true)
	require.NoError(t, err)

	token, err := v.Sign(Claims{Sub: "user-1", Email: "farmer@example.com"})
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Sub)
	assert.Equal(t, "farmer@example.com", claims.Email)
	assert.NotZero(t, claims.Exp)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer, err := NewVerifier("one", false)
	require.NoError(t, err)
	other, err := NewVerifier("two", false)
	require.NoError(t, err)

	token, err := issuer.Sign(Claims{Sub: "user-1"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	v, err := NewVerifier("", false)
	require.NoError(t, err)

	for _, token := range []string{"", "a.b", "a.b.c", strings.Repeat(".", 3)} {
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestVerifyExpired(t *testing.T) {
	v, err := NewVerifier("s3cret", false)
	require.NoError(t, err)

	issued := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return issued }
	token, err := v.Sign(Claims{Sub: "user-1"})
	require.NoError(t, err)

	v.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNewVerifierRequiresSecretInProduction(t *testing.T) {
	_, err := NewVerifier("  ", true)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
