package entities

import "github.com/Xushengqwer/go-common/models/entities"

// Comment 评论实体
// - 表名: comments
// - 评论不再嵌入帖子文档内，而是独立成行：并发追加评论与评论点赞互不覆盖，
//   整数组重写导致的丢失更新从结构上消除。
type Comment struct {
	entities.BaseModel

	// 所属帖子
	PostID uint64 `gorm:"type:bigint;not null;index"`

	// 作者ID与快照，冗余策略同 Post
	AuthorID       string `gorm:"type:char(36);not null;index"`
	AuthorNickname string `gorm:"type:varchar(50);not null"`
	AuthorAvatar   string `gorm:"type:varchar(512);not null"`

	// 评论内容
	Content string `gorm:"type:text;not null"`

	// 点赞数，冗余计数，不变式与 Post.LikeCount 相同
	LikeCount int64 `gorm:"type:bigint;not null;default:0"`
}

// CommentLike 评论点赞行，(comment_id, user_id) 唯一
type CommentLike struct {
	entities.BaseModel

	CommentID uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_comment_user"`
	UserID    string `gorm:"type:char(36);not null;uniqueIndex:uk_comment_user"`
}
