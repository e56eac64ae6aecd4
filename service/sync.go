package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/repo/mysql"
)

// SnapshotSyncService 定义了冗余快照刷新的业务逻辑接口。
// 帖子、评论、会话参与者上的作者昵称/头像是写入时的快照，
// 用户改资料后由资料变更事件的消费者调用本服务批量刷新。
type SnapshotSyncService interface {
	// SyncUserSnapshots 把该用户在所有冗余位置的昵称/头像刷成最新值。
	// - 三处刷新相互独立，单处失败不回滚其他两处，整体返回首个错误。
	SyncUserSnapshots(ctx context.Context, userID string, nickname string, avatarURL string) error
}

// snapshotSyncService 是 SnapshotSyncService 接口的具体实现。
type snapshotSyncService struct {
	postRepo    mysql.PostRepository
	commentRepo mysql.CommentRepository
	convRepo    mysql.ConversationRepository
	logger      *core.ZapLogger
}

// NewSnapshotSyncService 是 snapshotSyncService 的构造函数。
func NewSnapshotSyncService(
	postRepo mysql.PostRepository,
	commentRepo mysql.CommentRepository,
	convRepo mysql.ConversationRepository,
	logger *core.ZapLogger,
) SnapshotSyncService {
	return &snapshotSyncService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		convRepo:    convRepo,
		logger:      logger,
	}
}

// SyncUserSnapshots 批量刷新快照。
func (s *snapshotSyncService) SyncUserSnapshots(ctx context.Context, userID string, nickname string, avatarURL string) error {
	var firstErr error

	if err := s.postRepo.UpdateAuthorSnapshot(ctx, userID, nickname, avatarURL); err != nil {
		s.logger.Error("刷新帖子快照失败", zap.Error(err), zap.String("userID", userID))
		firstErr = err
	}
	if err := s.commentRepo.UpdateAuthorSnapshot(ctx, userID, nickname, avatarURL); err != nil {
		s.logger.Error("刷新评论快照失败", zap.Error(err), zap.String("userID", userID))
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := s.convRepo.UpdateParticipantSnapshot(ctx, userID, nickname, avatarURL); err != nil {
		s.logger.Error("刷新会话参与者快照失败", zap.Error(err), zap.String("userID", userID))
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr == nil {
		s.logger.Info("用户冗余快照已全部刷新", zap.String("userID", userID))
	}
	return firstErr
}
