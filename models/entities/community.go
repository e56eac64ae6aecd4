package entities

import "github.com/Xushengqwer/go-common/models/entities"

// Community 社区实体
// - 表名: communities
// - member_count 与 community_members 行数在同一事务内用原子自增维护；
//   历史数据可能存在漂移，由定时对账任务全量重算修正。
type Community struct {
	entities.BaseModel

	// 社区名，唯一
	Name string `gorm:"type:varchar(64);uniqueIndex;not null"`

	// 简介
	Description string `gorm:"type:text"`

	// 封面图与头像
	CoverURL  string `gorm:"type:varchar(512)"`
	AvatarURL string `gorm:"type:varchar(512)"`

	// 成员数，冗余计数，下限钳制为 0
	MemberCount int64 `gorm:"type:bigint;not null;default:0"`

	// 标签列表，JSON 数组
	Tags []string `gorm:"type:json;serializer:json"`
}

// 社区成员角色
const (
	RoleMember = 0
	RoleOwner  = 1
)

// CommunityMember 社区成员关系行
// - (community_id, user_id) 唯一，重复加入依赖唯一键拒绝
type CommunityMember struct {
	entities.BaseModel

	CommunityID uint64 `gorm:"type:bigint;not null;index;uniqueIndex:uk_community_user"`
	UserID      string `gorm:"type:char(36);not null;index;uniqueIndex:uk_community_user"`

	// 角色: 0=member, 1=owner
	Role int `gorm:"type:int;not null;default:0"`
}
