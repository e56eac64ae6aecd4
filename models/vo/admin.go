package vo

import "github.com/Xushengqwer/community_service/models/entities"

// UserPageVO 管理端用户分页响应
type UserPageVO struct {
	Users []*UserVO `json:"users"`
	Total int64     `json:"total"`
}

// DashboardVO 管理端总览计数
type DashboardVO struct {
	UserCount      int64 `json:"user_count"`
	PostCount      int64 `json:"post_count"`
	CommunityCount int64 `json:"community_count"`
	MessageCount   int64 `json:"message_count"`
	OnlineUsers    int   `json:"online_users"` // 当前 websocket 在线人数，仅本实例
}

// SystemSettingVO 系统设置响应
type SystemSettingVO struct {
	Announcement     string `json:"announcement"`
	RegistrationOpen bool   `json:"registration_open"`
	AIEnabled        bool   `json:"ai_enabled"`
}

// NewSystemSettingVO 将设置实体转换为响应VO。
func NewSystemSettingVO(s *entities.SystemSetting) *SystemSettingVO {
	if s == nil {
		return nil
	}
	return &SystemSettingVO{
		Announcement:     s.Announcement,
		RegistrationOpen: s.RegistrationOpen,
		AIEnabled:        s.AIEnabled,
	}
}
