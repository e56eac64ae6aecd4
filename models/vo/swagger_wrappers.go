package vo

// 本文件中的包装类型仅供 swagger 文档生成使用，
// 使 @Success/@Failure 注解能够引用到带具体 Data 类型的统一响应结构。

// BaseResponseWrapper 无数据负载的统一响应
type BaseResponseWrapper struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// AuthResponseWrapper 认证响应
type AuthResponseWrapper struct {
	BaseResponseWrapper
	Data AuthVO `json:"data"`
}

// UserResponseWrapper 用户信息响应
type UserResponseWrapper struct {
	BaseResponseWrapper
	Data UserVO `json:"data"`
}

// PostResponseWrapper 单帖响应
type PostResponseWrapper struct {
	BaseResponseWrapper
	Data PostVO `json:"data"`
}

// TimelinePageResponseWrapper 信息流分页响应
type TimelinePageResponseWrapper struct {
	BaseResponseWrapper
	Data TimelinePageVO `json:"data"`
}

// CommunityPageResponseWrapper 社区分页响应
type CommunityPageResponseWrapper struct {
	BaseResponseWrapper
	Data CommunityPageVO `json:"data"`
}

// ConversationListResponseWrapper 会话列表响应
type ConversationListResponseWrapper struct {
	BaseResponseWrapper
	Data []ConversationVO `json:"data"`
}

// SuggestionResponseWrapper AI 建议响应
type SuggestionResponseWrapper struct {
	BaseResponseWrapper
	Data SuggestionVO `json:"data"`
}
