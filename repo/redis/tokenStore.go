package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/myErrors"
)

// TokenStore 定义了刷新令牌在 Redis 中的存取接口。
// - 每个用户同一时刻只有一个有效刷新令牌，刷新时整体覆盖。
// - 登出删除 Key，使已签发的刷新令牌立即失效。
type TokenStore interface {
	// SaveRefreshToken 保存用户当前有效的刷新令牌，覆盖旧值。
	SaveRefreshToken(ctx context.Context, userID string, token string, ttl time.Duration) error

	// GetRefreshToken 取回用户当前有效的刷新令牌。
	// - Key 不存在时返回 myErrors.ErrCacheMiss。
	GetRefreshToken(ctx context.Context, userID string) (string, error)

	// DeleteRefreshToken 删除用户的刷新令牌（登出）。
	DeleteRefreshToken(ctx context.Context, userID string) error
}

// tokenStore 是 TokenStore 接口的 Redis 实现。
type tokenStore struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewTokenStore 是 tokenStore 的构造函数。
func NewTokenStore(redisClient *redis.Client, logger *core.ZapLogger) TokenStore {
	return &tokenStore{
		redisClient: redisClient,
		logger:      logger,
	}
}

func refreshTokenKey(userID string) string {
	return constant.RefreshTokenPrefix + userID
}

// SaveRefreshToken 覆盖写入刷新令牌。
func (s *tokenStore) SaveRefreshToken(ctx context.Context, userID string, token string, ttl time.Duration) error {
	key := refreshTokenKey(userID)
	if err := s.redisClient.Set(ctx, key, token, ttl).Err(); err != nil {
		s.logger.Error("保存刷新令牌失败", zap.Error(err), zap.String("userID", userID))
		return fmt.Errorf("保存刷新令牌 (key: %s) 失败: %w", key, err)
	}
	return nil
}

// GetRefreshToken 读取刷新令牌。
func (s *tokenStore) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	key := refreshTokenKey(userID)
	token, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", myErrors.ErrCacheMiss
		}
		s.logger.Error("读取刷新令牌失败", zap.Error(err), zap.String("userID", userID))
		return "", fmt.Errorf("读取刷新令牌 (key: %s) 失败: %w", key, err)
	}
	return token, nil
}

// DeleteRefreshToken 删除刷新令牌。
func (s *tokenStore) DeleteRefreshToken(ctx context.Context, userID string) error {
	if err := s.redisClient.Del(ctx, refreshTokenKey(userID)).Err(); err != nil {
		s.logger.Error("删除刷新令牌失败", zap.Error(err), zap.String("userID", userID))
		return err
	}
	return nil
}
