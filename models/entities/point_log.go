package entities

import "github.com/Xushengqwer/go-common/models/entities"

// PointLog 积分流水
// - 表名: point_logs
// - 每次积分变动（注册/发帖/评论/获赞）记一行，余额在 users.points 上原子累加，
//   流水与余额变更在同一事务内提交。
type PointLog struct {
	entities.BaseModel

	UserID string `gorm:"type:char(36);not null;index"`

	// 变动值，正数增加
	Amount int64 `gorm:"type:bigint;not null"`

	// 动作标识，如 register / create_post / comment / receive_like
	Action string `gorm:"type:varchar(32);not null"`
}
