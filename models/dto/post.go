package dto

import (
	"time"

	"github.com/Xushengqwer/community_service/models/enums"
)

// CreatePostRequest 创建帖子请求
// - AuthorID 不在请求体中，由认证中间件注入的上下文用户决定
type CreatePostRequest struct {
	Title    string             `json:"title" binding:"omitempty,max=255"`    // 标题，可选
	Content  string             `json:"content" binding:"required,max=5000"`  // 正文，必填
	Category enums.PostCategory `json:"category" binding:"required"`          // 分类，必填（合法性在服务层校验）
	Tags     []string           `json:"tags" binding:"omitempty,max=10"`      // 标签，可选，最多10个
	ImageURL string             `json:"image_url" binding:"omitempty,url"`    // 图片URL，可选
	VideoURL string             `json:"video_url" binding:"omitempty,url"`    // 视频URL，可选
	AudioURL string             `json:"audio_url" binding:"omitempty,url"`    // 音频URL，可选

	// 发到指定社区时携带；服务层校验成员身份并在帖子上冗余社区名
	CommunityID *uint64 `json:"community_id" binding:"omitempty,gt=0"`
}

// TimelineQueryDTO 信息流游标查询参数
// - 分类/社区过滤下推到查询层完成，客户端不再全量拉取后自行筛选
type TimelineQueryDTO struct {
	Category      *enums.PostCategory `form:"category"`                                // 按分类筛选，可选
	CommunityID   *uint64             `form:"community_id"`                            // 按社区筛选，可选
	LastCreatedAt *time.Time          `form:"last_created_at" time_format:"2006-01-02T15:04:05Z07:00"` // 游标：上一页最后一条的创建时间
	LastPostID    *uint64             `form:"last_post_id"`                            // 游标：上一页最后一条的ID
	PageSize      int                 `form:"page_size" binding:"required,gt=0,lte=100"` // 每页数量
}

// AddCommentRequest 追加评论请求
type AddCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}
