package entities

import (
	"time"

	"gorm.io/gorm"

	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/community_service/models/enums"
)

// Conversation 两人会话实体
// - 表名: conversations
// - 主键 ConvID 是两个参与者ID按字典序排序后用 "_" 连接的确定性字符串，
//   同一对用户至多存在一个会话由该主键保证：并发的“查不到就建”最多一方插入成功，
//   另一方读到已存在的同一行，创建竞态从结构上无害化。
// - 会话一旦创建不删除。
type Conversation struct {
	// 确定性会话ID，形如 "u1_u2"
	ConvID string `gorm:"type:varchar(80);primaryKey"`

	// 最近一条消息的预览文本（非文本类型存占位文案）、发送者与时间，
	// 用于会话列表排序与展示
	LastMessage   string    `gorm:"type:varchar(255)"`
	LastSenderID  string    `gorm:"type:char(36)"`
	LastMessageAt time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ConversationParticipant 会话参与者行
// - 每个会话固定两行，各自持有本人的未读计数与资料快照。
// - 未读计数只做行内原子自增/清零，不整表重写，双方并发收发不会互相丢失未读数。
type ConversationParticipant struct {
	entities.BaseModel

	ConvID string `gorm:"type:varchar(80);not null;uniqueIndex:uk_conv_user"`
	UserID string `gorm:"type:char(36);not null;uniqueIndex:uk_conv_user;index"`

	// 参与者资料快照，作者改资料后由 Kafka 消费者回填
	Nickname  string `gorm:"type:varchar(50);not null"`
	AvatarURL string `gorm:"type:varchar(512)"`

	// 本人在该会话中的未读消息数
	UnreadCount int64 `gorm:"type:bigint;not null;default:0"`
}

// Message 私信消息实体
// - 表名: messages
// - 仅归属于其会话，追加后不修改（append-only）。
type Message struct {
	entities.BaseModel

	ConvID   string `gorm:"type:varchar(80);not null;index:idx_conv_created,priority:1"`
	SenderID string `gorm:"type:char(36);not null"`

	Content string `gorm:"type:text;not null"`

	// 消息类型: text/image/story_reply
	Type enums.MessageType `gorm:"type:varchar(16);not null;default:'text'"`

	// 非文本消息的附件URL
	AttachmentURL string `gorm:"type:varchar(512)"`
}
