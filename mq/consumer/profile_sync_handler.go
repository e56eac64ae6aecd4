package consumer

import (
	"context"
	"encoding/json"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/models/events"
	"github.com/Xushengqwer/community_service/service"
)

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// ProfileSyncHandler 消费用户资料变更事件，
// 把帖子、评论、会话参与者上的冗余昵称/头像快照刷成最新值。
type ProfileSyncHandler struct {
	logger      *core.ZapLogger
	syncService service.SnapshotSyncService
}

func NewProfileSyncHandler(logger *core.ZapLogger, syncService service.SnapshotSyncService) *ProfileSyncHandler {
	return &ProfileSyncHandler{
		logger:      logger,
		syncService: syncService,
	}
}

func (h *ProfileSyncHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.UserProfileUpdatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("ProfileSyncHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}
	if event.UserID == "" {
		h.logger.Warn("ProfileSyncHandler: 事件缺少 userID，已跳过", zap.String("event_id", event.EventID))
		return nil
	}

	h.logger.Info("ProfileSyncHandler: 收到用户资料变更事件",
		zap.String("event_id", event.EventID),
		zap.String("user_id", event.UserID))

	if err := h.syncService.SyncUserSnapshots(ctx, event.UserID, event.Nickname, event.Avatar); err != nil {
		h.logger.Error("ProfileSyncHandler: 刷新用户快照失败", zap.Error(err), zap.String("user_id", event.UserID))
		return err // 返回错误以便记录，消费循环继续
	}
	return nil
}
