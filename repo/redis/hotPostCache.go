package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/entities"
)

// HotPostCache 定义了热门帖子榜单的缓存接口。
// - 目标: 提供 Redis 缓存层，加速信息流首屏的热门帖子访问，减轻数据库压力。
// - 结构: ZSet (`HotPostsRankKey`) 存排名，Hash (`PostsHashKey`) 存帖子内容快照。
// - 由定时任务整体刷新，读取到的计数是刷新时的快照值。
type HotPostCache interface {
	// RefreshHotPosts 用最新的 Top N 帖子整体重建榜单与内容缓存。
	// - 通过 Pipeline 先清空再写入，两个 Key 同批提交，保持彼此一致。
	RefreshHotPosts(ctx context.Context, posts []*entities.Post) error

	// GetHotPosts 按排名顺序取回缓存的热门帖子。
	// - 缓存为空时返回空切片，不视为错误，上层回源数据库。
	GetHotPosts(ctx context.Context, limit int) ([]*entities.Post, error)
}

// hotPostCache 是 HotPostCache 接口的 Redis 实现。
type hotPostCache struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewHotPostCache 是 hotPostCache 的构造函数。
func NewHotPostCache(redisClient *redis.Client, logger *core.ZapLogger) HotPostCache {
	return &hotPostCache{
		redisClient: redisClient,
		logger:      logger,
	}
}

// RefreshHotPosts 整体重建榜单。
func (c *hotPostCache) RefreshHotPosts(ctx context.Context, posts []*entities.Post) error {
	pipe := c.redisClient.TxPipeline()
	pipe.Del(ctx, constant.HotPostsRankKey)
	pipe.Del(ctx, constant.PostsHashKey)

	if len(posts) > 0 {
		members := make([]redis.Z, 0, len(posts))
		hashFields := make(map[string]interface{}, len(posts))
		for _, post := range posts {
			data, err := json.Marshal(post)
			if err != nil {
				c.logger.Warn("序列化热门帖子失败，已跳过", zap.Error(err), zap.Uint64("postID", post.ID))
				continue
			}
			member := strconv.FormatUint(post.ID, 10)
			members = append(members, redis.Z{Score: float64(post.LikeCount), Member: member})
			hashFields[member] = data
		}
		if len(members) > 0 {
			pipe.ZAdd(ctx, constant.HotPostsRankKey, members...)
			pipe.HSet(ctx, constant.PostsHashKey, hashFields)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("刷新热门帖子缓存失败", zap.Error(err))
		return fmt.Errorf("刷新热门帖子缓存失败: %w", err)
	}
	c.logger.Info("热门帖子缓存已刷新", zap.Int("count", len(posts)))
	return nil
}

// GetHotPosts 按排名顺序读取缓存。
func (c *hotPostCache) GetHotPosts(ctx context.Context, limit int) ([]*entities.Post, error) {
	if limit <= 0 {
		limit = constant.HotPostsCacheSize
	}

	// ZREVRANGE 按分数从高到低取前 limit 个帖子 ID。
	ids, err := c.redisClient.ZRevRange(ctx, constant.HotPostsRankKey, 0, int64(limit-1)).Result()
	if err != nil {
		c.logger.Error("读取热门榜单失败", zap.Error(err))
		return nil, fmt.Errorf("读取热门榜单失败: %w", err)
	}
	if len(ids) == 0 {
		return []*entities.Post{}, nil
	}

	raws, err := c.redisClient.HMGet(ctx, constant.PostsHashKey, ids...).Result()
	if err != nil {
		c.logger.Error("批量读取热门帖子内容失败", zap.Error(err))
		return nil, fmt.Errorf("批量读取热门帖子内容失败: %w", err)
	}

	posts := make([]*entities.Post, 0, len(raws))
	for i, raw := range raws {
		str, ok := raw.(string)
		if !ok || str == "" {
			// 榜单与内容缓存间的短暂不一致，跳过该条即可。
			c.logger.Debug("热门帖子内容缓存缺失", zap.String("postID", ids[i]))
			continue
		}
		var post entities.Post
		if err := json.Unmarshal([]byte(str), &post); err != nil {
			c.logger.Warn("反序列化热门帖子失败，已跳过", zap.Error(err), zap.String("postID", ids[i]))
			continue
		}
		posts = append(posts, &post)
	}
	return posts, nil
}
