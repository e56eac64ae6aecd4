package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// systemSettingID 设置表是单行表，固定主键。
const systemSettingID uint64 = 1

// SystemSettingRepository 定义了系统设置在 MySQL 中的持久化操作接口。
type SystemSettingRepository interface {
	// GetSettings 读取系统设置，不存在时返回带默认值的记录（注册开放、AI 开启）。
	GetSettings(ctx context.Context) (*entities.SystemSetting, error)

	// UpdateSettings 部分更新系统设置，传入 nil 表示不更新对应字段。
	// - 记录不存在时先落默认行再更新。
	UpdateSettings(ctx context.Context, announcement *string, registrationOpen *bool, aiEnabled *bool) (*entities.SystemSetting, error)
}

type systemSettingRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewSystemSettingRepository 是 systemSettingRepository 的构造函数。
func NewSystemSettingRepository(db *gorm.DB, logger *core.ZapLogger) SystemSettingRepository {
	return &systemSettingRepository{
		db:     db,
		logger: logger,
	}
}

// GetSettings 读取单行设置。
func (r *systemSettingRepository) GetSettings(ctx context.Context) (*entities.SystemSetting, error) {
	var setting entities.SystemSetting
	err := r.db.WithContext(ctx).First(&setting, systemSettingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultSettings(), nil
		}
		return nil, err
	}
	return &setting, nil
}

// UpdateSettings 部分更新，缺行时先补默认行。
func (r *systemSettingRepository) UpdateSettings(ctx context.Context, announcement *string, registrationOpen *bool, aiEnabled *bool) (*entities.SystemSetting, error) {
	updateMap := make(map[string]interface{})
	if announcement != nil {
		updateMap["announcement"] = *announcement
	}
	if registrationOpen != nil {
		updateMap["registration_open"] = *registrationOpen
	}
	if aiEnabled != nil {
		updateMap["ai_enabled"] = *aiEnabled
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var setting entities.SystemSetting
		err := tx.First(&setting, systemSettingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(defaultSettings()).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if len(updateMap) == 0 {
			return nil
		}
		updateMap["updated_at"] = time.Now()
		return tx.Model(&entities.SystemSetting{}).
			Where("id = ?", systemSettingID).
			Updates(updateMap).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetSettings(ctx)
}

func defaultSettings() *entities.SystemSetting {
	s := &entities.SystemSetting{
		Announcement:     "",
		RegistrationOpen: true,
		AIEnabled:        true,
	}
	s.ID = systemSettingID
	return s
}
