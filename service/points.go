package service

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/enums"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// BadgeTierForPoints 按累计积分换算徽章档位。
// 管理员档位不参与换算，只能由管理端直接赋予。
func BadgeTierForPoints(points int64) enums.BadgeTier {
	switch {
	case points >= 1000:
		return enums.TierExpert
	case points >= 500:
		return enums.TierVip
	case points >= 100:
		return enums.TierContributor
	default:
		return enums.TierNew
	}
}

// PointsService 定义了积分与徽章的业务逻辑接口。
type PointsService interface {
	// AddPoints 在事务中为用户加分: 行锁读当前积分 -> 换算新徽章 -> 原子累加并写流水。
	// - 管理员徽章不会被积分换算覆盖。
	// - tx 为 nil 时自建事务。
	AddPoints(ctx context.Context, tx *gorm.DB, userID string, amount int64, action string) error

	// AddPointsAsync 异步加分，用于点赞等不应阻塞主流程的场景。
	// - 失败只记日志，不影响触发它的业务操作。
	AddPointsAsync(userID string, amount int64, action string)

	// ListLogs 分页查询用户积分流水。
	ListLogs(ctx context.Context, userID string, page, pageSize int) ([]*entities.PointLog, int64, error)
}

// pointsService 是 PointsService 接口的具体实现。
type pointsService struct {
	db           *gorm.DB
	userRepo     mysql.UserRepository
	pointLogRepo mysql.PointLogRepository
	logger       *core.ZapLogger
}

// NewPointsService 是 pointsService 的构造函数。
func NewPointsService(db *gorm.DB, userRepo mysql.UserRepository, pointLogRepo mysql.PointLogRepository, logger *core.ZapLogger) PointsService {
	return &pointsService{
		db:           db,
		userRepo:     userRepo,
		pointLogRepo: pointLogRepo,
		logger:       logger,
	}
}

// AddPoints 事务内加分并同步徽章。
func (s *pointsService) AddPoints(ctx context.Context, tx *gorm.DB, userID string, amount int64, action string) error {
	if amount == 0 {
		return nil
	}

	run := func(tx *gorm.DB) error {
		current, err := s.userRepo.GetPointsForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		newTotal := current + amount
		if newTotal < 0 {
			newTotal = 0
			amount = -current
		}

		// 管理员徽章由管理端赋予，换算不碰它。
		user, err := s.userRepo.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		tier := user.BadgeTier
		badge := user.Badge
		if tier != enums.TierAdmin {
			tier = BadgeTierForPoints(newTotal)
			badge = tier.Label()
		}

		if err := s.userRepo.AddPointsAndBadge(ctx, tx, userID, amount, badge, tier); err != nil {
			return err
		}
		return s.pointLogRepo.CreateLog(ctx, tx, &entities.PointLog{
			UserID: userID,
			Amount: amount,
			Action: action,
		})
	}

	if tx != nil {
		return run(tx)
	}
	return s.db.WithContext(ctx).Transaction(run)
}

// AddPointsAsync 异步加分，带独立超时，不随请求上下文取消。
func (s *pointsService) AddPointsAsync(userID string, amount int64, action string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.AddPoints(ctx, nil, userID, amount, action); err != nil {
			s.logger.Error("异步加分失败",
				zap.Error(err),
				zap.String("userID", userID),
				zap.Int64("amount", amount),
				zap.String("action", action),
			)
		}
	}()
}

// ListLogs 分页查询积分流水。
func (s *pointsService) ListLogs(ctx context.Context, userID string, page, pageSize int) ([]*entities.PointLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.pointLogRepo.ListLogsByUser(ctx, userID, (page-1)*pageSize, pageSize)
}
