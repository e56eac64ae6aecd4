package dto

// ChatMessage 对话消息，与上游 chat-completions 协议保持同构
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatProxyRequest AI 代理请求体
// - 客户端透传 chat-completions 风格的请求，凭证由服务端持有
type ChatProxyRequest struct {
	Model       string        `json:"model" binding:"omitempty,max=64"`
	Messages    []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	Temperature *float64      `json:"temperature" binding:"omitempty,gte=0,lte=2"`
	MaxTokens   *int          `json:"max_tokens" binding:"omitempty,gt=0"`
}
