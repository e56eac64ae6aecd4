package events

import "time"

// PostCreatedEvent 帖子创建事件，发布到 Kafka 供下游（搜索、推荐等）消费。
type PostCreatedEvent struct {
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	PostID      uint64    `json:"post_id"`
	AuthorID    string    `json:"author_id"`
	Category    string    `json:"category"`
	CommunityID *uint64   `json:"community_id,omitempty"`
}

// PostDeletedEvent 帖子删除事件。
type PostDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    uint64    `json:"post_id"`
}

// UserProfileUpdatedEvent 用户资料变更事件。
// 本服务自己也消费它：把帖子/评论/会话参与者上的冗余昵称、头像快照刷成最新值。
type UserProfileUpdatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar"`
}
