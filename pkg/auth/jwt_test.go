package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer("s3cret", 24*time.Hour)

	tok, err := iss.Issue("65f0c0ffee0000000000abcd")
	require.NoError(t, err)

	claims, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee0000000000abcd", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyRejectsExpired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	tok, err := NewIssuer("s3cret", 24*time.Hour).WithClock(func() time.Time { return past }).Issue("u1")
	require.NoError(t, err)

	_, err = NewIssuer("s3cret", 24*time.Hour).Verify(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewIssuer("one", time.Hour).Issue("u1")
	require.NoError(t, err)

	_, err = NewIssuer("two", time.Hour).Verify(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = NewIssuer("s3cret", time.Hour).Verify(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = NewIssuer("s3cret", time.Hour).Verify(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("s3cret", time.Hour).Verify("not.a.token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.False(t, strings.Contains(hash, "hunter2"))
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))

	other, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes are salted")
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), &Identity{UserID: "u1", IsAdmin: true})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
	assert.True(t, id.IsAdmin)
}
