package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// MemberCountSyncTask 负责定时对账社区成员计数。
// 成员数平时靠加入/退出事务里的原子增减维护，这里周期性地按成员表重算一遍，
// 修复并发异常或历史数据导致的漂移。
type MemberCountSyncTask struct {
	communityRepo mysql.CommunityRepository
	cron          *cron.Cron
	logger        *core.ZapLogger
}

// NewMemberCountSyncTask 初始化并启动成员数对账的定时任务。
func NewMemberCountSyncTask(communityRepo mysql.CommunityRepository, logger *core.ZapLogger) *MemberCountSyncTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &MemberCountSyncTask{
		communityRepo: communityRepo,
		cron:          cronV3,
		logger:        logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *MemberCountSyncTask) startCronJob() {
	schedule := constant.MemberCountSyncCronSpec
	t.logger.Info("准备启动社区成员数对账定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("社区成员数对账任务开始执行...")
		startTime := time.Now()
		// 对账是一条按成员表重算的 UPDATE，3 分钟超时留足余量。
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		affected, err := t.communityRepo.RecountAllMemberCounts(ctx)
		if err != nil {
			t.logger.Error("社区成员数对账失败", zap.Error(err))
		} else {
			t.logger.Info("社区成员数对账任务执行完毕",
				zap.Int64("修正社区数", affected),
				zap.Duration("duration", time.Since(startTime)))
		}
	})

	if err != nil {
		t.logger.Fatal("添加社区成员数对账 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("社区成员数对账定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// Stop 优雅地停止 cron 调度器。
// 返回一个 context，调用者可以使用它来等待正在运行的任务完成。
func (t *MemberCountSyncTask) Stop() context.Context {
	t.logger.Info("正在停止社区成员数对账定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("社区成员数对账定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
