package dto

import "github.com/Xushengqwer/community_service/models/enums"

// OpenConversationRequest 打开（或懒创建）与某个用户的会话
type OpenConversationRequest struct {
	PeerID string `json:"peer_id" binding:"required,max=36"` // 对方用户ID
}

// SendMessageRequest 发送消息请求
// - 发送者由上下文用户决定，不信任请求体
type SendMessageRequest struct {
	Content       string            `json:"content" binding:"required,max=2000"`
	Type          enums.MessageType `json:"type" binding:"omitempty"`               // 缺省为 text
	AttachmentURL string            `json:"attachment_url" binding:"omitempty,url"` // 非文本消息的附件
}

// ListMessagesRequest 拉取消息历史参数
type ListMessagesRequest struct {
	Limit int `form:"limit" binding:"omitempty,gt=0,lte=100"` // 缺省 50，只取最近 N 条
}
