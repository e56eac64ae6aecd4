package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/repo/mysql"
	"github.com/Xushengqwer/community_service/repo/redis"
)

// HotPostService 定义了热门帖子榜单的业务逻辑接口。
type HotPostService interface {
	// GetHotPosts 取热门帖子列表。
	// - 优先读 Redis 缓存（定时任务维护），缓存为空时回源数据库并触发一次刷新。
	// - viewerID 非空时填充 IsLiked。
	GetHotPosts(ctx context.Context, viewerID string, limit int) ([]*vo.PostVO, error)
}

// hotPostService 是 HotPostService 接口的具体实现。
type hotPostService struct {
	postRepo mysql.PostRepository
	likeRepo mysql.LikeRepository
	cache    redis.HotPostCache
	logger   *core.ZapLogger
}

// NewHotPostService 是 hotPostService 的构造函数。
func NewHotPostService(postRepo mysql.PostRepository, likeRepo mysql.LikeRepository, cache redis.HotPostCache, logger *core.ZapLogger) HotPostService {
	return &hotPostService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		cache:    cache,
		logger:   logger,
	}
}

// GetHotPosts 读缓存，空则回源。
func (s *hotPostService) GetHotPosts(ctx context.Context, viewerID string, limit int) ([]*vo.PostVO, error) {
	if limit <= 0 || limit > constant.HotPostsCacheSize {
		limit = constant.HotPostsCacheSize
	}

	posts, err := s.cache.GetHotPosts(ctx, limit)
	if err != nil {
		// 缓存读取失败直接回源，不向调用方暴露缓存故障。
		s.logger.Warn("读取热门缓存失败，回源数据库", zap.Error(err))
		posts = nil
	}
	if len(posts) == 0 {
		posts, err = s.postRepo.ListTopByLikes(ctx, limit)
		if err != nil {
			return nil, err
		}
		if len(posts) > 0 {
			if err := s.cache.RefreshHotPosts(ctx, posts); err != nil {
				s.logger.Warn("回源后刷新热门缓存失败", zap.Error(err))
			}
		}
	}

	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	liked, err := s.likeRepo.ListPostLikes(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	out := make([]*vo.PostVO, 0, len(posts))
	for _, p := range posts {
		_, isLiked := liked[p.ID]
		out = append(out, vo.NewPostVO(p, isLiked))
	}
	return out, nil
}
