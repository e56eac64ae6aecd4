package vo

import (
	"time"

	"github.com/Xushengqwer/community_service/models/entities"
)

// CommunityVO 社区响应结构
type CommunityVO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	MemberCount int64     `json:"member_count"`
	Tags        []string  `json:"tags"`
	IsMember    bool      `json:"is_member"` // 按当前查看者派生
	CreatedAt   time.Time `json:"created_at"`
}

// CommunityPageVO 社区分页响应
type CommunityPageVO struct {
	Communities []*CommunityVO `json:"communities"`
	Total       int64          `json:"total"`
}

// NewCommunityVO 将社区实体转换为响应VO。
func NewCommunityVO(c *entities.Community, isMember bool) *CommunityVO {
	if c == nil {
		return nil
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &CommunityVO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CoverURL:    c.CoverURL,
		AvatarURL:   c.AvatarURL,
		MemberCount: c.MemberCount,
		Tags:        tags,
		IsMember:    isMember,
		CreatedAt:   c.CreatedAt,
	}
}
