package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/myErrors"
)

// SuggestionCache 定义了 AI 回复建议的缓存接口。
// - Key 由会话 ID 与最后一条消息 ID 组成：会话有新消息后旧缓存自然不再命中，
//   无需主动失效。
// - TTL 兜底清理冷会话的残留 Key。
type SuggestionCache interface {
	// GetSuggestions 读取缓存的建议列表。
	// - 未命中返回 myErrors.ErrCacheMiss，上层据此回源调用上游模型。
	GetSuggestions(ctx context.Context, convID string, lastMessageID uint64) ([]string, error)

	// SetSuggestions 写入建议列表，带 TTL。
	SetSuggestions(ctx context.Context, convID string, lastMessageID uint64, suggestions []string) error
}

// suggestionCache 是 SuggestionCache 接口的 Redis 实现。
type suggestionCache struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewSuggestionCache 是 suggestionCache 的构造函数。
func NewSuggestionCache(redisClient *redis.Client, logger *core.ZapLogger) SuggestionCache {
	return &suggestionCache{
		redisClient: redisClient,
		logger:      logger,
	}
}

func suggestionKey(convID string, lastMessageID uint64) string {
	return fmt.Sprintf("%s%s:%d", constant.SuggestionCachePrefix, convID, lastMessageID)
}

// GetSuggestions 读取并反序列化建议列表。
func (c *suggestionCache) GetSuggestions(ctx context.Context, convID string, lastMessageID uint64) ([]string, error) {
	key := suggestionKey(convID, lastMessageID)
	raw, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErrors.ErrCacheMiss
		}
		c.logger.Error("读取建议缓存失败", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("读取建议缓存 (key: %s) 失败: %w", key, err)
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		// 反序列化失败按未命中处理，让上层回源覆盖坏数据。
		c.logger.Warn("建议缓存内容损坏，按未命中处理", zap.Error(err), zap.String("key", key))
		return nil, myErrors.ErrCacheMiss
	}
	return suggestions, nil
}

// SetSuggestions 序列化并写入建议列表。
func (c *suggestionCache) SetSuggestions(ctx context.Context, convID string, lastMessageID uint64, suggestions []string) error {
	key := suggestionKey(convID, lastMessageID)
	data, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("序列化建议列表失败: %w", err)
	}
	if err := c.redisClient.Set(ctx, key, data, constant.SuggestionCacheTTL).Err(); err != nil {
		c.logger.Error("写入建议缓存失败", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("写入建议缓存 (key: %s) 失败: %w", key, err)
	}
	return nil
}
