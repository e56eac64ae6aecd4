package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event 是推送给客户端的统一信封。
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// 推送事件类型
const (
	EventNewMessage          = "message.new"
	EventConversationUpdated = "conversation.updated"
)

// Hub 维护在线连接与订阅关系，向用户维度和会话维度做扇出。
// - 同一用户可能有多个连接（多端登录），订阅集合以连接为粒度。
// - 推送是尽力而为: 客户端发送缓冲打满时丢弃该条，不阻塞业务链路。
type Hub struct {
	mu sync.RWMutex
	// userID -> 该用户的所有连接
	userClients map[string]map[*Client]struct{}
	// convID -> 订阅该会话的所有连接
	convClients map[string]map[*Client]struct{}
	logger      *zap.Logger
}

// NewHub 是 Hub 的构造函数。
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		userClients: make(map[string]map[*Client]struct{}),
		convClients: make(map[string]map[*Client]struct{}),
		logger:      logger,
	}
}

// Register 登记一个已认证的连接，按用户维度索引。
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.userClients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.userClients[c.userID] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("websocket 连接已登记", zap.String("userID", c.userID))
}

// Unregister 注销连接并清理其全部订阅。
// 连接断开时必须调用，否则订阅集合会泄漏已死连接。
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.userClients[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.userClients, c.userID)
		}
	}
	for convID := range c.subscriptions {
		if set, ok := h.convClients[convID]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.convClients, convID)
			}
		}
	}
	c.closeSend()
	h.logger.Debug("websocket 连接已注销", zap.String("userID", c.userID))
}

// SubscribeConversation 让连接订阅某个会话的实时消息。
// 服务层已校验过该用户是会话参与者。
func (h *Hub) SubscribeConversation(c *Client, convID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.convClients[convID]
	if !ok {
		set = make(map[*Client]struct{})
		h.convClients[convID] = set
	}
	set[c] = struct{}{}
	c.subscriptions[convID] = struct{}{}
}

// UnsubscribeConversation 取消单个会话订阅。
func (h *Hub) UnsubscribeConversation(c *Client, convID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.convClients[convID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.convClients, convID)
		}
	}
	delete(c.subscriptions, convID)
}

// PublishToConversation 向订阅了某会话的全部连接推送事件。
func (h *Hub) PublishToConversation(convID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("序列化推送事件失败", zap.Error(err), zap.String("convID", convID))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.convClients[convID] {
		c.trySend(data, h.logger)
	}
}

// PublishToUser 向某用户的全部连接推送事件（会话列表变更、未读数变化等）。
func (h *Hub) PublishToUser(userID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("序列化推送事件失败", zap.Error(err), zap.String("userID", userID))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.userClients[userID] {
		c.trySend(data, h.logger)
	}
}

// OnlineUserCount 返回当前在线用户数，供管理端总览使用。
func (h *Hub) OnlineUserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients)
}
