package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/community_service/models/enums"
)

// Post 帖子实体
// - 使用场景: 信息流列表与帖子详情，点赞/评论计数直接冗余在行上
// - 表名: posts
// - 不变式: like_count 恒等于 post_likes 中该帖的行数，comment_count 同理。
//   两者都只通过与点赞/评论行同事务的原子自增修改，且下限被钳制为 0。
type Post struct {
	entities.BaseModel // 嵌入公共 BaseModel，包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 作者ID，UUID 格式
	AuthorID string `gorm:"type:char(36);not null;index"`

	// 作者昵称/头像快照
	// - 冗余字段，列表页免联表；作者修改资料后由 Kafka 消费者异步回填
	AuthorNickname string `gorm:"type:varchar(50);not null"`
	AuthorAvatar   string `gorm:"type:varchar(512);not null"`

	// 标题，可选（动态类帖子通常无标题）
	Title string `gorm:"type:varchar(255)"`

	// 正文
	Content string `gorm:"type:text;not null"`

	// 分类，Status/QnA/Blog/Document/Game
	Category enums.PostCategory `gorm:"type:varchar(16);not null;index"`

	// 标签列表，JSON 数组存储；发到社区的帖子会额外带上社区名标签
	Tags []string `gorm:"type:json;serializer:json"`

	// 点赞数与评论数，冗余计数
	LikeCount    int64 `gorm:"type:bigint;not null;default:0"`
	CommentCount int64 `gorm:"type:bigint;not null;default:0"`

	// 可选媒体附件
	ImageURL string `gorm:"type:varchar(512)"`
	VideoURL string `gorm:"type:varchar(512)"`
	AudioURL string `gorm:"type:varchar(512)"`

	// 所属社区，可为空（全站帖子）
	// - CommunityName 为冗余快照，社区改名不回填（社区名不可改）
	CommunityID   *uint64 `gorm:"type:bigint;index"`
	CommunityName string  `gorm:"type:varchar(64)"`
}

// PostLike 帖子点赞行
// - (post_id, user_id) 唯一，点赞切换依赖该唯一键做幂等
type PostLike struct {
	entities.BaseModel

	PostID uint64 `gorm:"type:bigint;not null;uniqueIndex:uk_post_user"`
	UserID string `gorm:"type:char(36);not null;uniqueIndex:uk_post_user"`
}
