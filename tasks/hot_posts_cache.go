package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/repo/mysql"
	"github.com/Xushengqwer/community_service/repo/redis"
)

// HotPostsCacheTask 负责定时刷新 Redis 中的热门帖子缓存。
// 按点赞数取榜单快照，整体重建 ZSet 排名与帖子 Hash。
type HotPostsCacheTask struct {
	postRepo mysql.PostRepository
	cache    redis.HotPostCache
	cron     *cron.Cron
	logger   *core.ZapLogger
}

// NewHotPostsCacheTask 初始化并启动热门帖子缓存的定时任务。
func NewHotPostsCacheTask(postRepo mysql.PostRepository, cache redis.HotPostCache, logger *core.ZapLogger) *HotPostsCacheTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &HotPostsCacheTask{
		postRepo: postRepo,
		cache:    cache,
		cron:     cronV3,
		logger:   logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *HotPostsCacheTask) startCronJob() {
	schedule := constant.HotPostsCacheCronSpec
	t.logger.Info("准备启动热门帖子缓存刷新定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("热门帖子缓存刷新任务开始执行...")
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		t.refreshHotCache(ctx)

		t.logger.Info("热门帖子缓存刷新任务执行完毕", zap.Duration("duration", time.Since(startTime)))
	})

	if err != nil {
		t.logger.Fatal("添加热门帖子缓存刷新 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("热门帖子缓存刷新定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// refreshHotCache 取点赞数 TopN 并整体重建缓存。
func (t *HotPostsCacheTask) refreshHotCache(ctx context.Context) {
	posts, err := t.postRepo.ListTopByLikes(ctx, constant.HotPostsCacheSize)
	if err != nil {
		t.logger.Error("查询热门帖子失败，本次刷新中止", zap.Error(err))
		return
	}
	if len(posts) == 0 {
		t.logger.Info("暂无帖子数据，跳过热门缓存刷新")
		return
	}

	if err := t.cache.RefreshHotPosts(ctx, posts); err != nil {
		t.logger.Error("重建热门帖子缓存失败", zap.Error(err), zap.Int("帖子数量", len(posts)))
		return
	}
	t.logger.Info("热门帖子缓存已重建", zap.Int("帖子数量", len(posts)))
}

// Stop 优雅地停止 cron 调度器。
func (t *HotPostsCacheTask) Stop() context.Context {
	t.logger.Info("正在停止热门帖子缓存刷新定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("热门帖子缓存刷新定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
