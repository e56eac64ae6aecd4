package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// 向客户端写消息的超时
	writeWait = 10 * time.Second
	// 等待客户端 pong 的超时，超过视为死连接
	pongWait = 60 * time.Second
	// ping 周期，必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// 入站消息大小上限
	maxMessageSize = 4096
	// 发送缓冲大小，打满后丢弃新事件
	sendBufferSize = 64
)

// clientCommand 是客户端通过 websocket 发来的控制指令。
type clientCommand struct {
	Action string `json:"action"` // subscribe / unsubscribe
	ConvID string `json:"conv_id"`
}

// Client 是一条已认证的 websocket 连接。
type Client struct {
	userID        string
	conn          *websocket.Conn
	send          chan []byte
	subscriptions map[string]struct{} // convID 集合，由 Hub 加锁维护
	closeOnce     sync.Once

	// Authorize 判定该用户能否订阅某会话，由控制器注入（校验参与者身份）。
	Authorize func(convID string, userID string) bool
}

// NewClient 构造连接对象，conn 的生命周期交由 ReadPump/WritePump 管理。
func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		userID:        userID,
		conn:          conn,
		send:          make(chan []byte, sendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
}

// UserID 返回连接所属的用户。
func (c *Client) UserID() string {
	return c.userID
}

// trySend 非阻塞投递，缓冲打满直接丢弃该条。
func (c *Client) trySend(data []byte, logger *zap.Logger) {
	select {
	case c.send <- data:
	default:
		logger.Warn("websocket 发送缓冲已满，丢弃事件", zap.String("userID", c.userID))
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump 读取客户端的订阅指令，直到连接断开。
// 退出时通过 hub.Unregister 清理全部订阅。
func (c *Client) ReadPump(hub *Hub, logger *zap.Logger) {
	defer func() {
		hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket 异常断开", zap.Error(err), zap.String("userID", c.userID))
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			logger.Debug("无法解析的 websocket 指令，已忽略", zap.String("userID", c.userID))
			continue
		}

		switch cmd.Action {
		case "subscribe":
			if cmd.ConvID == "" {
				continue
			}
			if c.Authorize != nil && !c.Authorize(cmd.ConvID, c.userID) {
				logger.Warn("拒绝订阅非参与会话", zap.String("userID", c.userID), zap.String("convID", cmd.ConvID))
				continue
			}
			hub.SubscribeConversation(c, cmd.ConvID)
		case "unsubscribe":
			if cmd.ConvID != "" {
				hub.UnsubscribeConversation(c, cmd.ConvID)
			}
		}
	}
}

// WritePump 把 send 缓冲中的事件写入连接，并周期性发 ping 保活。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
