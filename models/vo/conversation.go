package vo

import (
	"time"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/enums"
)

// ConversationVO 会话列表项
// - Peer* 是对方参与者的快照，UnreadCount 是查看者本人的未读数
type ConversationVO struct {
	ConvID        string    `json:"conv_id"`
	PeerID        string    `json:"peer_id"`
	PeerNickname  string    `json:"peer_nickname"`
	PeerAvatar    string    `json:"peer_avatar"`
	LastMessage   string    `json:"last_message"`
	LastSenderID  string    `json:"last_sender_id"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
}

// MessageVO 消息响应结构
type MessageVO struct {
	ID            uint64            `json:"id"`
	ConvID        string            `json:"conv_id"`
	SenderID      string            `json:"sender_id"`
	Content       string            `json:"content"`
	Type          enums.MessageType `json:"type"`
	AttachmentURL string            `json:"attachment_url,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// SuggestionVO AI 回复建议响应
type SuggestionVO struct {
	Suggestions []string `json:"suggestions"`
}

// NewMessageVO 将消息实体转换为响应VO。
func NewMessageVO(m *entities.Message) *MessageVO {
	if m == nil {
		return nil
	}
	return &MessageVO{
		ID:            m.ID,
		ConvID:        m.ConvID,
		SenderID:      m.SenderID,
		Content:       m.Content,
		Type:          m.Type,
		AttachmentURL: m.AttachmentURL,
		CreatedAt:     m.CreatedAt,
	}
}

// NewMessageVOs 批量转换消息实体。
func NewMessageVOs(msgs []*entities.Message) []*MessageVO {
	out := make([]*MessageVO, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		out = append(out, NewMessageVO(m))
	}
	return out
}
