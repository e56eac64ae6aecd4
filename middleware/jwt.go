package middleware

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/myErrors"
)

// TokenKind 区分访问令牌与刷新令牌，防止刷新令牌被直接当访问令牌使用。
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims 是本服务签发的 JWT 载荷。
type Claims struct {
	UserID  string    `json:"uid"`
	IsAdmin bool      `json:"adm"`
	Kind    TokenKind `json:"knd"`
	jwt.RegisteredClaims
}

// TokenManager 负责令牌对的签发与解析。
type TokenManager struct {
	cfg *config.JWTConfig
}

// NewTokenManager 是 TokenManager 的构造函数。
func NewTokenManager(cfg *config.JWTConfig) *TokenManager {
	return &TokenManager{cfg: cfg}
}

// GeneratePair 签发一对访问/刷新令牌。
func (m *TokenManager) GeneratePair(userID string, isAdmin bool) (accessToken string, refreshToken string, err error) {
	accessToken, err = m.generate(userID, isAdmin, TokenKindAccess, time.Duration(m.cfg.AccessExpireSecs)*time.Second)
	if err != nil {
		return "", "", fmt.Errorf("签发访问令牌失败: %w", err)
	}
	refreshToken, err = m.generate(userID, isAdmin, TokenKindRefresh, time.Duration(m.cfg.RefreshExpireSecs)*time.Second)
	if err != nil {
		return "", "", fmt.Errorf("签发刷新令牌失败: %w", err)
	}
	return accessToken, refreshToken, nil
}

func (m *TokenManager) generate(userID string, isAdmin bool, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		Kind:    kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.Secret))
}

// ParseAccess 解析并校验访问令牌。
func (m *TokenManager) ParseAccess(tokenString string) (*Claims, error) {
	return m.parse(tokenString, TokenKindAccess)
}

// ParseRefresh 解析并校验刷新令牌。
func (m *TokenManager) ParseRefresh(tokenString string) (*Claims, error) {
	return m.parse(tokenString, TokenKindRefresh)
}

func (m *TokenManager) parse(tokenString string, kind TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名算法: %v", t.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	})
	if err != nil {
		return nil, myErrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind {
		return nil, myErrors.ErrInvalidToken
	}
	return claims, nil
}
