package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, expires, err := issuer.Issue("admin@example.com", RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateRejects(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	expired := NewIssuer("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue("admin@example.com", RoleAdmin)
	require.NoError(t, err)

	foreignToken, _, err := NewIssuer("other-secret", time.Hour).Issue("admin@example.com", RoleAdmin)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-token"},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"unsigned", noneToken},
		{"empty", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := issuer.Validate(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
