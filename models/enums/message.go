package enums

// MessageType 私信消息类型。
type MessageType string

const (
	MessageTypeText       MessageType = "text"        // 纯文本
	MessageTypeImage      MessageType = "image"       // 图片
	MessageTypeStoryReply MessageType = "story_reply" // 对动态的回复
)

// Valid 校验消息类型是否为已知值。
func (m MessageType) Valid() bool {
	switch m {
	case MessageTypeText, MessageTypeImage, MessageTypeStoryReply:
		return true
	}
	return false
}
