package entities

import "github.com/Xushengqwer/go-common/models/entities"

// SystemSetting 系统设置单例
// - 表名: system_settings，始终只有 ID=1 一行，管理端读写
type SystemSetting struct {
	entities.BaseModel

	// 站内公告，空字符串表示无公告
	Announcement string `gorm:"type:varchar(512)"`

	// 是否开放注册
	RegistrationOpen bool `gorm:"type:tinyint(1);not null;default:1"`

	// 是否启用 AI 助手（关闭后建议接口返回空列表）
	AIEnabled bool `gorm:"type:tinyint(1);not null;default:1"`
}
