package entities

import (
	"time"

	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/enums"
)

// User 用户实体
// - 使用场景: 账号注册/登录、个人主页、积分徽章展示、管理端封禁
// - 表名: users
// - 用户首次注册成功时创建，积分为 0、徽章为 new；之后仅被积分服务与管理端操作修改，
//   本服务范围内不做物理删除。
type User struct {
	// 用户ID，UUID 格式，主键
	// - 类型: char(36)，与帖子/会话中冗余的作者ID保持同一格式
	UserID string `gorm:"type:char(36);primaryKey"`

	// 邮箱，登录凭证，唯一
	Email string `gorm:"type:varchar(128);uniqueIndex;not null"`

	// 密码哈希（bcrypt），绝不外发
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	// 昵称，对外展示名
	Nickname string `gorm:"type:varchar(50);not null"`

	// 头像URL
	// - 注册时写入默认头像，之后由上传服务覆盖
	AvatarURL string `gorm:"type:varchar(512);not null"`

	// 累计积分
	// - 只通过积分服务的原子自增修改，保证并发奖励不丢失
	Points int64 `gorm:"type:bigint;not null;default:0"`

	// 徽章标签，由积分派生（见 service 层 BadgeTierForPoints）
	Badge string `gorm:"type:varchar(32);not null;default:'new'"`

	// 徽章等级，枚举：0=new, 1=contributor, 2=vip, 3=expert, 4=admin
	BadgeTier enums.BadgeTier `gorm:"type:int;not null;default:0"`

	// 封禁标记，封禁后禁止登录与发帖
	Banned bool `gorm:"type:tinyint(1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
