package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/enums"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/realtime"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// ConversationID 由两个用户 ID 派生会话主键: 排序后用下划线拼接。
// 两端无论谁先发起，得到的都是同一个 ID。
func ConversationID(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + "_" + userB
}

// MessagePreview 生成会话列表里展示的最近消息摘要。
// 非文本消息用占位符，文本过长时截断。
func MessagePreview(content string, msgType enums.MessageType) string {
	switch msgType {
	case enums.MessageTypeImage:
		return "[图片]"
	case enums.MessageTypeStoryReply:
		return "[故事回复]"
	}
	const maxPreviewRunes = 50
	runes := []rune(strings.TrimSpace(content))
	if len(runes) > maxPreviewRunes {
		return string(runes[:maxPreviewRunes]) + "…"
	}
	return string(runes)
}

// ConversationService 定义了两人私信会话的业务逻辑接口。
type ConversationService interface {
	// OpenConversation 打开（或创建）与指定用户的会话。
	// - 会话 ID 由双方用户 ID 派生，两端并发发起也只会有一条会话记录。
	// - 打开即清零本人未读数。
	// - 与自己对话返回 ErrSelfConversation。
	OpenConversation(ctx context.Context, userID string, req *dto.OpenConversationRequest) (*vo.ConversationVO, error)

	// ListConversations 查询本人全部会话，按最近消息时间倒序。
	ListConversations(ctx context.Context, userID string) ([]*vo.ConversationVO, error)

	// SendMessage 发送消息。
	// - 仅参与者可发送；事务内写消息行、刷新会话冗余、对端未读数原子 +1。
	// - 成功后通过 Hub 向会话订阅者和双方用户推送实时事件。
	SendMessage(ctx context.Context, convID string, senderID string, req *dto.SendMessageRequest) (*vo.MessageVO, error)

	// ListMessages 拉取会话消息，时间正序，beforeID 用于向上翻页。
	// - 仅参与者可读取。
	ListMessages(ctx context.Context, convID string, userID string, beforeID *uint64, limit int) ([]*vo.MessageVO, error)

	// MarkRead 将本人在该会话的未读数清零。
	MarkRead(ctx context.Context, convID string, userID string) error

	// IsParticipant 判断用户是否为会话参与者，供 websocket 订阅鉴权使用。
	IsParticipant(ctx context.Context, convID string, userID string) bool
}

// conversationService 是 ConversationService 接口的具体实现。
type conversationService struct {
	db          *gorm.DB
	convRepo    mysql.ConversationRepository
	messageRepo mysql.MessageRepository
	userRepo    mysql.UserRepository
	hub         *realtime.Hub
	logger      *core.ZapLogger
}

// NewConversationService 是 conversationService 的构造函数。
func NewConversationService(
	db *gorm.DB,
	convRepo mysql.ConversationRepository,
	messageRepo mysql.MessageRepository,
	userRepo mysql.UserRepository,
	hub *realtime.Hub,
	logger *core.ZapLogger,
) ConversationService {
	return &conversationService{
		db:          db,
		convRepo:    convRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		hub:         hub,
		logger:      logger,
	}
}

// OpenConversation 打开或创建会话。
func (s *conversationService) OpenConversation(ctx context.Context, userID string, req *dto.OpenConversationRequest) (*vo.ConversationVO, error) {
	if req.PeerID == userID {
		return nil, myErrors.ErrSelfConversation
	}

	me, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	peer, err := s.userRepo.GetUserByID(ctx, req.PeerID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}

	convID := ConversationID(userID, req.PeerID)
	conv := &entities.Conversation{ConvID: convID}
	participants := []*entities.ConversationParticipant{
		{ConvID: convID, UserID: me.UserID, Nickname: me.Nickname, AvatarURL: me.AvatarURL},
		{ConvID: convID, UserID: peer.UserID, Nickname: peer.Nickname, AvatarURL: peer.AvatarURL},
	}

	created, err := s.convRepo.GetOrCreateConversation(ctx, s.db, conv, participants)
	if err != nil {
		s.logger.Error("打开会话失败", zap.Error(err), zap.String("convID", convID))
		return nil, err
	}

	// 打开会话即视为已读。
	if err := s.convRepo.ResetUnread(ctx, convID, userID); err != nil {
		s.logger.Warn("清零未读数失败", zap.Error(err), zap.String("convID", convID))
	}

	return &vo.ConversationVO{
		ConvID:        created.ConvID,
		PeerID:        peer.UserID,
		PeerNickname:  peer.Nickname,
		PeerAvatar:    peer.AvatarURL,
		LastMessage:   created.LastMessage,
		LastSenderID:  created.LastSenderID,
		LastMessageAt: created.LastMessageAt,
		UnreadCount:   0,
	}, nil
}

// ListConversations 查询会话列表。
func (s *conversationService) ListConversations(ctx context.Context, userID string) ([]*vo.ConversationVO, error) {
	mine, convs, err := s.convRepo.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return []*vo.ConversationVO{}, nil
	}

	// 本人参与行（未读数）按会话索引
	myByConv := make(map[string]*entities.ConversationParticipant, len(mine))
	for _, p := range mine {
		myByConv[p.ConvID] = p
	}

	out := make([]*vo.ConversationVO, 0, len(convs))
	for _, conv := range convs {
		item := &vo.ConversationVO{
			ConvID:        conv.ConvID,
			LastMessage:   conv.LastMessage,
			LastSenderID:  conv.LastSenderID,
			LastMessageAt: conv.LastMessageAt,
		}
		if p, ok := myByConv[conv.ConvID]; ok {
			item.UnreadCount = p.UnreadCount
		}
		peer, err := s.convRepo.GetPeerParticipant(ctx, conv.ConvID, userID)
		if err == nil {
			item.PeerID = peer.UserID
			item.PeerNickname = peer.Nickname
			item.PeerAvatar = peer.AvatarURL
		}
		out = append(out, item)
	}
	return out, nil
}

// SendMessage 发送消息。
func (s *conversationService) SendMessage(ctx context.Context, convID string, senderID string, req *dto.SendMessageRequest) (*vo.MessageVO, error) {
	if _, err := s.convRepo.GetParticipant(ctx, convID, senderID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrNotParticipant
		}
		return nil, err
	}

	msgType := req.Type
	if msgType == "" {
		msgType = enums.MessageTypeText
	}
	message := &entities.Message{
		ConvID:        convID,
		SenderID:      senderID,
		Content:       req.Content,
		Type:          msgType,
		AttachmentURL: req.AttachmentURL,
	}
	preview := MessagePreview(req.Content, msgType)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.messageRepo.CreateMessage(ctx, tx, message); err != nil {
			return err
		}
		if err := s.convRepo.UpdateLastMessage(ctx, tx, convID, preview, senderID, time.Now()); err != nil {
			return err
		}
		return s.convRepo.IncrementUnread(ctx, tx, convID, senderID)
	})
	if err != nil {
		s.logger.Error("发送消息事务失败", zap.Error(err), zap.String("convID", convID))
		return nil, err
	}

	messageVO := vo.NewMessageVO(message)

	// 实时推送：会话订阅者收新消息，双方用户收会话列表变更。
	s.hub.PublishToConversation(convID, realtime.Event{
		Type:    realtime.EventNewMessage,
		Payload: messageVO,
	})
	s.hub.PublishToUser(senderID, realtime.Event{
		Type:    realtime.EventConversationUpdated,
		Payload: map[string]string{"conv_id": convID},
	})
	if peer, err := s.convRepo.GetPeerParticipant(ctx, convID, senderID); err == nil {
		s.hub.PublishToUser(peer.UserID, realtime.Event{
			Type:    realtime.EventConversationUpdated,
			Payload: map[string]string{"conv_id": convID},
		})
	}

	return messageVO, nil
}

// ListMessages 拉取会话消息。
func (s *conversationService) ListMessages(ctx context.Context, convID string, userID string, beforeID *uint64, limit int) ([]*vo.MessageVO, error) {
	if _, err := s.convRepo.GetParticipant(ctx, convID, userID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrNotParticipant
		}
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = constant.DefaultMessagePageSize
	}
	messages, err := s.messageRepo.ListRecentMessages(ctx, convID, beforeID, limit)
	if err != nil {
		return nil, err
	}

	// 拉首页等同于进入会话，顺手清零未读；失败不影响消息返回。
	if beforeID == nil {
		if err := s.convRepo.ResetUnread(ctx, convID, userID); err != nil {
			s.logger.Warn("进入会话时清零未读失败", zap.Error(err), zap.String("convID", convID))
		}
	}
	return vo.NewMessageVOs(messages), nil
}

// MarkRead 清零未读数。
func (s *conversationService) MarkRead(ctx context.Context, convID string, userID string) error {
	if _, err := s.convRepo.GetParticipant(ctx, convID, userID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrNotParticipant
		}
		return err
	}
	return s.convRepo.ResetUnread(ctx, convID, userID)
}

// IsParticipant 会话参与者判定。
func (s *conversationService) IsParticipant(ctx context.Context, convID string, userID string) bool {
	_, err := s.convRepo.GetParticipant(ctx, convID, userID)
	return err == nil
}
