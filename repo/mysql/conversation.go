package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/community_service/models/entities"
)

// ConversationRepository 定义了会话与参与者数据在 MySQL 中的持久化操作接口。
// 会话主键是排序后的用户对拼接串，两端同时发起时由主键约束保证只存在一条记录。
type ConversationRepository interface {
	// GetOrCreateConversation 按会话 ID 取回或创建会话及两条参与者记录。
	// - 使用 INSERT IGNORE 语义（OnConflict DoNothing），并发创建不报错。
	// - 参与者记录携带对方昵称/头像快照，由调用方填充。
	GetOrCreateConversation(ctx context.Context, db *gorm.DB, conv *entities.Conversation, participants []*entities.ConversationParticipant) (*entities.Conversation, error)

	// GetConversationByID 按主键查询会话。
	// - 如果未找到，返回 commonerrors.ErrRepoNotFound 错误。
	GetConversationByID(ctx context.Context, convID string) (*entities.Conversation, error)

	// UpdateLastMessage 刷新会话上的最近消息冗余字段。
	UpdateLastMessage(ctx context.Context, db *gorm.DB, convID string, preview string, senderID string, at time.Time) error

	// ListConversationsByUser 查询用户参与的全部会话，按最近消息时间倒序。
	// - 返回参与者行（含本人未读数）与会话行，组装交给服务层。
	ListConversationsByUser(ctx context.Context, userID string) ([]*entities.ConversationParticipant, []*entities.Conversation, error)

	// GetParticipant 查询某用户在某会话中的参与者记录。
	// - 如果未找到，返回 commonerrors.ErrRepoNotFound，服务层据此拒绝非参与者访问。
	GetParticipant(ctx context.Context, convID string, userID string) (*entities.ConversationParticipant, error)

	// GetPeerParticipant 查询会话中除指定用户外的另一位参与者。
	GetPeerParticipant(ctx context.Context, convID string, userID string) (*entities.ConversationParticipant, error)

	// IncrementUnread 对会话中除发送者外的参与者未读数原子 +1。
	// - 行级 UPDATE，不读回整行，两端并发发送不会互相覆盖。
	IncrementUnread(ctx context.Context, db *gorm.DB, convID string, senderID string) error

	// ResetUnread 将某用户在某会话的未读数清零（打开会话时调用）。
	ResetUnread(ctx context.Context, convID string, userID string) error

	// UpdateParticipantSnapshot 刷新某用户在所有会话参与者行上的昵称/头像快照。
	UpdateParticipantSnapshot(ctx context.Context, userID string, nickname string, avatarURL string) error
}

// conversationRepository 是 ConversationRepository 接口针对 MySQL 的具体实现。
type conversationRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewConversationRepository 是 conversationRepository 的构造函数。
func NewConversationRepository(db *gorm.DB, logger *core.ZapLogger) ConversationRepository {
	return &conversationRepository{
		db:     db,
		logger: logger,
	}
}

// GetOrCreateConversation 幂等创建会话。
func (r *conversationRepository) GetOrCreateConversation(ctx context.Context, db *gorm.DB, conv *entities.Conversation, participants []*entities.ConversationParticipant) (*entities.Conversation, error) {
	// 主键冲突时静默跳过，保证并发双端发起只落一条会话。
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(conv).Error; err != nil {
		return nil, err
	}
	for _, p := range participants {
		if err := db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(p).Error; err != nil {
			return nil, err
		}
	}

	// 读回权威记录（可能是并发方先建的那条）。
	var existing entities.Conversation
	if err := db.WithContext(ctx).Where("conv_id = ?", conv.ConvID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// GetConversationByID 按主键查询会话。
func (r *conversationRepository) GetConversationByID(ctx context.Context, convID string) (*entities.Conversation, error) {
	var conv entities.Conversation
	err := r.db.WithContext(ctx).Where("conv_id = ?", convID).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// UpdateLastMessage 刷新最近消息冗余字段。
func (r *conversationRepository) UpdateLastMessage(ctx context.Context, db *gorm.DB, convID string, preview string, senderID string, at time.Time) error {
	result := db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("conv_id = ?", convID).
		Updates(map[string]interface{}{
			"last_message":    preview,
			"last_sender_id":  senderID,
			"last_message_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// ListConversationsByUser 查询用户全部会话。
func (r *conversationRepository) ListConversationsByUser(ctx context.Context, userID string) ([]*entities.ConversationParticipant, []*entities.Conversation, error) {
	var mine []*entities.ConversationParticipant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&mine).Error
	if err != nil {
		r.logger.Error("查询用户会话参与记录失败", zap.Error(err), zap.String("userID", userID))
		return nil, nil, err
	}
	if len(mine) == 0 {
		return nil, nil, nil
	}

	convIDs := make([]string, 0, len(mine))
	for _, p := range mine {
		convIDs = append(convIDs, p.ConvID)
	}

	var convs []*entities.Conversation
	err = r.db.WithContext(ctx).
		Where("conv_id IN ?", convIDs).
		Order("last_message_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, nil, err
	}
	return mine, convs, nil
}

// GetParticipant 查询参与者记录。
func (r *conversationRepository) GetParticipant(ctx context.Context, convID string, userID string) (*entities.ConversationParticipant, error) {
	var p entities.ConversationParticipant
	err := r.db.WithContext(ctx).
		Where("conv_id = ? AND user_id = ?", convID, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetPeerParticipant 查询会话另一端的参与者。
func (r *conversationRepository) GetPeerParticipant(ctx context.Context, convID string, userID string) (*entities.ConversationParticipant, error) {
	var p entities.ConversationParticipant
	err := r.db.WithContext(ctx).
		Where("conv_id = ? AND user_id <> ?", convID, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &p, nil
}

// IncrementUnread 对接收方未读数原子 +1。
func (r *conversationRepository) IncrementUnread(ctx context.Context, db *gorm.DB, convID string, senderID string) error {
	result := db.WithContext(ctx).
		Model(&entities.ConversationParticipant{}).
		Where("conv_id = ? AND user_id <> ?", convID, senderID).
		Update("unread_count", gorm.Expr("unread_count + 1"))
	if result.Error != nil {
		r.logger.Error("累加未读数失败", zap.Error(result.Error), zap.String("convID", convID))
		return result.Error
	}
	return nil
}

// ResetUnread 未读数清零。
func (r *conversationRepository) ResetUnread(ctx context.Context, convID string, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ConversationParticipant{}).
		Where("conv_id = ? AND user_id = ?", convID, userID).
		Update("unread_count", 0)
	return result.Error
}

// UpdateParticipantSnapshot 刷新参与者快照。
func (r *conversationRepository) UpdateParticipantSnapshot(ctx context.Context, userID string, nickname string, avatarURL string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"nickname":   nickname,
			"avatar_url": avatarURL,
		})
	if result.Error != nil {
		r.logger.Error("刷新会话参与者快照失败", zap.Error(result.Error), zap.String("userID", userID))
		return result.Error
	}
	return nil
}
