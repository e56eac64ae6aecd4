package vo

import (
	"time"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/enums"
)

// PostVO 帖子响应结构
// - IsLiked 是按当前查看者派生的视图字段，不落库
type PostVO struct {
	ID             uint64             `json:"id"`
	AuthorID       string             `json:"author_id"`
	AuthorNickname string             `json:"author_nickname"`
	AuthorAvatar   string             `json:"author_avatar"`
	Title          string             `json:"title,omitempty"`
	Content        string             `json:"content"`
	Category       enums.PostCategory `json:"category"`
	Tags           []string           `json:"tags"`
	LikeCount      int64              `json:"like_count"`
	CommentCount   int64              `json:"comment_count"`
	IsLiked        bool               `json:"is_liked"`
	ImageURL       string             `json:"image_url,omitempty"`
	VideoURL       string             `json:"video_url,omitempty"`
	AudioURL       string             `json:"audio_url,omitempty"`
	CommunityID    *uint64            `json:"community_id,omitempty"`
	CommunityName  string             `json:"community_name,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// TimelinePageVO 信息流游标分页响应
type TimelinePageVO struct {
	Posts         []*PostVO  `json:"posts"`
	NextCreatedAt *time.Time `json:"next_created_at"` // nil 表示没有下一页
	NextPostID    *uint64    `json:"next_post_id"`
}

// CommentVO 评论响应结构
type CommentVO struct {
	ID             uint64    `json:"id"`
	PostID         uint64    `json:"post_id"`
	AuthorID       string    `json:"author_id"`
	AuthorNickname string    `json:"author_nickname"`
	AuthorAvatar   string    `json:"author_avatar"`
	Content        string    `json:"content"`
	LikeCount      int64     `json:"like_count"`
	IsLiked        bool      `json:"is_liked"`
	CreatedAt      time.Time `json:"created_at"`
}

// LikeToggleVO 点赞切换结果
type LikeToggleVO struct {
	Liked     bool  `json:"liked"`      // 切换后的状态
	LikeCount int64 `json:"like_count"` // 切换后的计数
}

// NewPostVO 将帖子实体转换为响应VO，isLiked 由调用方按查看者计算。
func NewPostVO(p *entities.Post, isLiked bool) *PostVO {
	if p == nil {
		return nil
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PostVO{
		ID:             p.ID,
		AuthorID:       p.AuthorID,
		AuthorNickname: p.AuthorNickname,
		AuthorAvatar:   p.AuthorAvatar,
		Title:          p.Title,
		Content:        p.Content,
		Category:       p.Category,
		Tags:           tags,
		LikeCount:      p.LikeCount,
		CommentCount:   p.CommentCount,
		IsLiked:        isLiked,
		ImageURL:       p.ImageURL,
		VideoURL:       p.VideoURL,
		AudioURL:       p.AudioURL,
		CommunityID:    p.CommunityID,
		CommunityName:  p.CommunityName,
		CreatedAt:      p.CreatedAt,
	}
}

// NewCommentVO 将评论实体转换为响应VO。
func NewCommentVO(c *entities.Comment, isLiked bool) *CommentVO {
	if c == nil {
		return nil
	}
	return &CommentVO{
		ID:             c.ID,
		PostID:         c.PostID,
		AuthorID:       c.AuthorID,
		AuthorNickname: c.AuthorNickname,
		AuthorAvatar:   c.AuthorAvatar,
		Content:        c.Content,
		LikeCount:      c.LikeCount,
		IsLiked:        isLiked,
		CreatedAt:      c.CreatedAt,
	}
}
