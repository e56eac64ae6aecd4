package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 测试里不建立真实 websocket 连接，只验证 Hub 的登记、订阅与扇出逻辑，
// 事件直接从 client 的发送缓冲里读出来断言。

func newTestHub() *Hub {
	return NewHub(zap.NewNop())
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	default:
		t.Fatal("期望收到推送事件，但发送缓冲为空")
		return Event{}
	}
}

func TestHubRegisterAndOnlineCount(t *testing.T) {
	hub := newTestHub()

	c1 := NewClient("user-1", nil)
	c2 := NewClient("user-1", nil) // 同一用户多端登录
	c3 := NewClient("user-2", nil)

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	assert.Equal(t, 2, hub.OnlineUserCount(), "在线数按用户去重，不按连接数")

	hub.Unregister(c1)
	assert.Equal(t, 2, hub.OnlineUserCount(), "用户还有其他连接在线时不减少")

	hub.Unregister(c2)
	assert.Equal(t, 1, hub.OnlineUserCount())

	hub.Unregister(c3)
	assert.Equal(t, 0, hub.OnlineUserCount())
}

func TestHubPublishToConversation(t *testing.T) {
	hub := newTestHub()

	subscriber := NewClient("user-1", nil)
	outsider := NewClient("user-2", nil)
	hub.Register(subscriber)
	hub.Register(outsider)

	hub.SubscribeConversation(subscriber, "user-1_user-2")
	hub.PublishToConversation("user-1_user-2", Event{
		Type:    EventNewMessage,
		Payload: map[string]string{"content": "你好"},
	})

	ev := receiveEvent(t, subscriber)
	assert.Equal(t, EventNewMessage, ev.Type)

	assert.Empty(t, outsider.send, "未订阅的连接不应收到会话事件")
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := newTestHub()

	c := NewClient("user-1", nil)
	hub.Register(c)
	hub.SubscribeConversation(c, "user-1_user-2")
	hub.UnsubscribeConversation(c, "user-1_user-2")

	hub.PublishToConversation("user-1_user-2", Event{Type: EventNewMessage})
	assert.Empty(t, c.send)
}

func TestHubPublishToUserReachesAllConnections(t *testing.T) {
	hub := newTestHub()

	c1 := NewClient("user-1", nil)
	c2 := NewClient("user-1", nil)
	hub.Register(c1)
	hub.Register(c2)

	hub.PublishToUser("user-1", Event{Type: EventConversationUpdated})

	assert.Equal(t, EventConversationUpdated, receiveEvent(t, c1).Type)
	assert.Equal(t, EventConversationUpdated, receiveEvent(t, c2).Type)
}

func TestHubUnregisterCleansSubscriptions(t *testing.T) {
	hub := newTestHub()

	c := NewClient("user-1", nil)
	hub.Register(c)
	hub.SubscribeConversation(c, "user-1_user-2")
	hub.Unregister(c)

	// 注销后推送不应再投递，也不应因已关闭的 send 通道 panic。
	hub.PublishToConversation("user-1_user-2", Event{Type: EventNewMessage})

	_, open := <-c.send
	assert.False(t, open, "注销时应关闭发送缓冲，通知 WritePump 退出")
}

func TestHubDropsEventWhenBufferFull(t *testing.T) {
	hub := newTestHub()

	c := NewClient("user-1", nil)
	hub.Register(c)
	hub.SubscribeConversation(c, "conv-1")

	// 打满发送缓冲后再推送，应直接丢弃而不是阻塞。
	for i := 0; i < sendBufferSize; i++ {
		hub.PublishToConversation("conv-1", Event{Type: EventNewMessage})
	}
	hub.PublishToConversation("conv-1", Event{Type: EventNewMessage})

	assert.Len(t, c.send, sendBufferSize)
}
