package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// PointLogRepository 定义了积分流水在 MySQL 中的持久化操作接口。
// 流水与用户积分列在同一事务内写入，保证总分与明细一致。
type PointLogRepository interface {
	// CreateLog 写入一条积分流水。
	CreateLog(ctx context.Context, db *gorm.DB, log *entities.PointLog) error

	// ListLogsByUser 按用户分页查询积分流水，时间倒序。
	ListLogsByUser(ctx context.Context, userID string, offset, limit int) ([]*entities.PointLog, int64, error)
}

type pointLogRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPointLogRepository 是 pointLogRepository 的构造函数。
func NewPointLogRepository(db *gorm.DB, logger *core.ZapLogger) PointLogRepository {
	return &pointLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *pointLogRepository) CreateLog(ctx context.Context, db *gorm.DB, log *entities.PointLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *pointLogRepository) ListLogsByUser(ctx context.Context, userID string, offset, limit int) ([]*entities.PointLog, int64, error) {
	var logs []*entities.PointLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.PointLog{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
