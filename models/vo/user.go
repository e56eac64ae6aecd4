package vo

import (
	"time"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/enums"
)

// UserVO 用户公开信息响应结构
type UserVO struct {
	UserID    string          `json:"user_id"`
	Email     string          `json:"email,omitempty"` // 仅本人/管理端可见，公开场景置空
	Nickname  string          `json:"nickname"`
	AvatarURL string          `json:"avatar_url"`
	Points    int64           `json:"points"`
	Badge     string          `json:"badge"`
	BadgeTier enums.BadgeTier `json:"badge_tier"`
	Banned    bool            `json:"banned"`
	CreatedAt time.Time       `json:"created_at"`

	// 已加入的社区 ID 列表，仅资料页填充
	JoinedCommunityIDs []uint64 `json:"joined_community_ids,omitempty"`
}

// NewUserVO 将用户实体转换为响应VO。
// - includePrivate 控制是否携带邮箱等仅本人可见字段
func NewUserVO(u *entities.User, includePrivate bool) *UserVO {
	if u == nil {
		return nil
	}
	v := &UserVO{
		UserID:    u.UserID,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
		Points:    u.Points,
		Badge:     u.Badge,
		BadgeTier: u.BadgeTier,
		Banned:    u.Banned,
		CreatedAt: u.CreatedAt,
	}
	if includePrivate {
		v.Email = u.Email
	}
	return v
}

// AuthVO 登录/注册成功响应，携带令牌对与用户信息
type AuthVO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         *UserVO `json:"user"`
}
