package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/myErrors"
)

func newTestTokenManager(secret string) *TokenManager {
	return NewTokenManager(&config.JWTConfig{
		Secret:            secret,
		Issuer:            "community_service",
		AccessExpireSecs:  3600,
		RefreshExpireSecs: 7200,
	})
}

func TestTokenManagerRoundTrip(t *testing.T) {
	m := newTestTokenManager("test-secret")

	access, refresh, err := m.GeneratePair("user-1", true)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := m.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", accessClaims.UserID)
	assert.True(t, accessClaims.IsAdmin)
	assert.Equal(t, TokenKindAccess, accessClaims.Kind)
	assert.Equal(t, "community_service", accessClaims.Issuer)

	refreshClaims, err := m.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.UserID)
	assert.Equal(t, TokenKindRefresh, refreshClaims.Kind)
}

func TestTokenManagerRejectsWrongKind(t *testing.T) {
	m := newTestTokenManager("test-secret")

	access, refresh, err := m.GeneratePair("user-1", false)
	require.NoError(t, err)

	// 刷新令牌不能当访问令牌用，反之亦然。
	_, err = m.ParseAccess(refresh)
	assert.ErrorIs(t, err, myErrors.ErrInvalidToken)

	_, err = m.ParseRefresh(access)
	assert.ErrorIs(t, err, myErrors.ErrInvalidToken)
}

func TestTokenManagerRejectsWrongSecret(t *testing.T) {
	signer := newTestTokenManager("secret-a")
	verifier := newTestTokenManager("secret-b")

	access, _, err := signer.GeneratePair("user-1", false)
	require.NoError(t, err)

	_, err = verifier.ParseAccess(access)
	assert.ErrorIs(t, err, myErrors.ErrInvalidToken)
}

func TestTokenManagerRejectsGarbage(t *testing.T) {
	m := newTestTokenManager("test-secret")

	_, err := m.ParseAccess("not-a-jwt")
	assert.ErrorIs(t, err, myErrors.ErrInvalidToken)

	_, err = m.ParseRefresh("")
	assert.ErrorIs(t, err, myErrors.ErrInvalidToken)
}
