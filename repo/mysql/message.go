package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// MessageRepository 定义了私信消息在 MySQL 中的持久化操作接口。
type MessageRepository interface {
	// CreateMessage 持久化一条新消息。
	CreateMessage(ctx context.Context, db *gorm.DB, message *entities.Message) error

	// ListRecentMessages 取会话最近 limit 条消息，按时间正序返回（老消息在前）。
	// - 内部按倒序取再翻转，保证“最近 N 条”而非“最早 N 条”。
	// - beforeID 非 nil 时只取 ID 小于它的消息，用于向上翻页加载历史。
	ListRecentMessages(ctx context.Context, convID string, beforeID *uint64, limit int) ([]*entities.Message, error)

	// CountMessages 返回消息总数，供管理端总览使用。
	CountMessages(ctx context.Context) (int64, error)
}

// messageRepository 是 MessageRepository 接口针对 MySQL 的具体实现。
type messageRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewMessageRepository 是 messageRepository 的构造函数。
func NewMessageRepository(db *gorm.DB, logger *core.ZapLogger) MessageRepository {
	return &messageRepository{
		db:     db,
		logger: logger,
	}
}

// CreateMessage 插入消息。
func (r *messageRepository) CreateMessage(ctx context.Context, db *gorm.DB, message *entities.Message) error {
	return db.WithContext(ctx).Create(message).Error
}

// ListRecentMessages 取最近 limit 条并翻转为正序。
func (r *messageRepository) ListRecentMessages(ctx context.Context, convID string, beforeID *uint64, limit int) ([]*entities.Message, error) {
	var messages []*entities.Message

	query := r.db.WithContext(ctx).
		Where("conv_id = ?", convID).
		Order("id DESC")
	if beforeID != nil {
		query = query.Where("id < ?", *beforeID)
	}

	err := query.Limit(limit).Find(&messages).Error
	if err != nil {
		r.logger.Error("查询会话消息失败", zap.Error(err), zap.String("convID", convID))
		return nil, err
	}

	// 翻转为时间正序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CountMessages 统计消息总数。
func (r *messageRepository) CountMessages(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Message{}).Count(&total).Error
	return total, err
}
