package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/enums"
)

// UserRepository 定义了用户数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type UserRepository interface {
	// CreateUser 持久化一个新的用户记录。
	// - 注册流程中调用，邮箱唯一键冲突时返回数据库错误，由服务层转译。
	CreateUser(ctx context.Context, db *gorm.DB, user *entities.User) error

	// GetUserByID 根据用户 ID 检索用户。
	// - 如果未找到用户，返回 commonerrors.ErrRepoNotFound 错误。
	GetUserByID(ctx context.Context, userID string) (*entities.User, error)

	// GetUserByEmail 根据邮箱检索用户，用于登录与注册查重。
	// - 如果未找到用户，返回 commonerrors.ErrRepoNotFound 错误。
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)

	// UpdateProfile 更新昵称/头像，传入 nil 表示不更新对应字段。
	// - 总是会自动更新修改时间 (updated_at)。
	UpdateProfile(ctx context.Context, userID string, nickname *string, avatarURL *string) error

	// AddPointsAndBadge 在事务中原子增加积分并写入换算后的徽章。
	// - amount 可为负；badge/tier 由服务层按累加后的积分计算。
	AddPointsAndBadge(ctx context.Context, db *gorm.DB, userID string, amount int64, badge string, tier enums.BadgeTier) error

	// GetPointsForUpdate 在事务中以行锁读取当前积分，供积分累加前换算徽章。
	GetPointsForUpdate(ctx context.Context, db *gorm.DB, userID string) (int64, error)

	// SetBanned 设置封禁标记，管理端操作。
	SetBanned(ctx context.Context, userID string, banned bool) error

	// ListUsers 管理端分页查询用户，keyword 对昵称/邮箱模糊匹配。
	ListUsers(ctx context.Context, keyword string, offset, limit int) ([]*entities.User, int64, error)

	// CountUsers 返回未删除用户总数，供管理端总览使用。
	CountUsers(ctx context.Context) (int64, error)
}

// userRepository 是 UserRepository 接口针对 MySQL 的具体实现。
type userRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewUserRepository 是 userRepository 的构造函数。
func NewUserRepository(db *gorm.DB, logger *core.ZapLogger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser 实现用户的数据库插入操作。
func (r *userRepository) CreateUser(ctx context.Context, db *gorm.DB, user *entities.User) error {
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	return nil
}

// GetUserByID 根据主键查询用户。
func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("按 ID 查询用户失败", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail 按邮箱查询用户。
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("按邮箱查询用户失败", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 实现昵称/头像的部分更新。
func (r *userRepository) UpdateProfile(ctx context.Context, userID string, nickname *string, avatarURL *string) error {
	updateMap := make(map[string]interface{})
	if nickname != nil {
		updateMap["nickname"] = *nickname
	}
	if avatarURL != nil {
		updateMap["avatar_url"] = *avatarURL
	}
	if len(updateMap) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新用户资料", zap.String("userID", userID))
		return nil
	}
	updateMap["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		Updates(updateMap)
	if result.Error != nil {
		r.logger.Error("更新用户资料数据库操作失败", zap.Error(result.Error), zap.String("userID", userID))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// GetPointsForUpdate 以 FOR UPDATE 行锁读取积分，必须在事务内调用。
func (r *userRepository) GetPointsForUpdate(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var user entities.User
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, commonerrors.ErrRepoNotFound
		}
		return 0, err
	}
	return user.Points, nil
}

// AddPointsAndBadge 原子累加积分并覆盖徽章字段。
func (r *userRepository) AddPointsAndBadge(ctx context.Context, db *gorm.DB, userID string, amount int64, badge string, tier enums.BadgeTier) error {
	result := db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"points":     gorm.Expr("points + ?", amount),
			"badge":      badge,
			"badge_tier": tier,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.logger.Error("累加用户积分失败", zap.Error(result.Error), zap.String("userID", userID), zap.Int64("amount", amount))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// SetBanned 更新封禁标记。
func (r *userRepository) SetBanned(ctx context.Context, userID string, banned bool) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"banned": banned, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// ListUsers 管理端分页查询，按注册时间倒序。
func (r *userRepository) ListUsers(ctx context.Context, keyword string, offset, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.User{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("nickname LIKE ? OR email LIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountUsers 统计用户总数。
func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&total).Error
	return total, err
}
