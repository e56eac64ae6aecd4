package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Xushengqwer/community_service/models/enums"
)

// 会话 ID 必须与发起方无关，两端并发打开才能命中同一条记录。
func TestConversationID(t *testing.T) {
	assert.Equal(t, "u1_u2", ConversationID("u1", "u2"))
	assert.Equal(t, "u1_u2", ConversationID("u2", "u1"))
	assert.Equal(t, ConversationID("alice", "bob"), ConversationID("bob", "alice"))

	// 排序按字典序，不是数值序
	assert.Equal(t, "u10_u9", ConversationID("u9", "u10"))
}

func TestMessagePreview(t *testing.T) {
	t.Run("图片消息用占位符", func(t *testing.T) {
		assert.Equal(t, "[图片]", MessagePreview("https://cdn.example.com/a.png", enums.MessageTypeImage))
	})

	t.Run("故事回复用占位符", func(t *testing.T) {
		assert.Equal(t, "[故事回复]", MessagePreview("很棒的动态！", enums.MessageTypeStoryReply))
	})

	t.Run("短文本原样返回并去掉首尾空白", func(t *testing.T) {
		assert.Equal(t, "你好呀", MessagePreview("  你好呀 ", enums.MessageTypeText))
	})

	t.Run("长文本按字符截断并加省略号", func(t *testing.T) {
		long := strings.Repeat("啊", 80)
		preview := MessagePreview(long, enums.MessageTypeText)
		runes := []rune(preview)
		assert.Len(t, runes, 51) // 50 个字符 + 省略号
		assert.Equal(t, '…', runes[50])
	})

	t.Run("恰好50个字符不截断", func(t *testing.T) {
		exact := strings.Repeat("a", 50)
		assert.Equal(t, exact, MessagePreview(exact, enums.MessageTypeText))
	})
}
