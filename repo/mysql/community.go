package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// CommunityRepository 定义了社区数据在 MySQL 中的持久化操作接口。
// 成员计数是冗余列，日常走原子增减，定时任务按成员表对账修正。
type CommunityRepository interface {
	// CreateCommunity 持久化一个新社区。
	// - 名称唯一键冲突由服务层转译为业务错误。
	CreateCommunity(ctx context.Context, db *gorm.DB, community *entities.Community) error

	// GetCommunityByID 按主键查询社区。
	// - 如果未找到，返回 commonerrors.ErrRepoNotFound 错误。
	GetCommunityByID(ctx context.Context, id uint64) (*entities.Community, error)

	// ListCommunities 按成员数降序分页查询社区。
	ListCommunities(ctx context.Context, offset, limit int) ([]*entities.Community, int64, error)

	// AddMember 插入成员关系记录。
	// - 唯一键 (community_id, user_id) 防止重复加入。
	AddMember(ctx context.Context, db *gorm.DB, member *entities.CommunityMember) error

	// RemoveMember 删除成员关系，返回是否真的删除了一行。
	RemoveMember(ctx context.Context, db *gorm.DB, communityID uint64, userID string) (bool, error)

	// IsMember 判断用户是否为社区成员。
	IsMember(ctx context.Context, communityID uint64, userID string) (bool, error)

	// ListMemberships 批量查询用户对一组社区的成员状态，供列表页填充 IsMember。
	ListMemberships(ctx context.Context, communityIDs []uint64, userID string) (map[uint64]struct{}, error)

	// ListUserCommunityIDs 查询用户加入的全部社区 ID，按加入时间正序。
	ListUserCommunityIDs(ctx context.Context, userID string) ([]uint64, error)

	// IncrementMemberCount 原子调整成员计数，减少时钳制在 0。
	IncrementMemberCount(ctx context.Context, db *gorm.DB, communityID uint64, delta int64) error

	// RecountAllMemberCounts 按成员表重算所有社区的成员数并回写。
	// - 对账任务调用，修正并发增减留下的偏差。
	RecountAllMemberCounts(ctx context.Context) (int64, error)

	// CountCommunities 返回社区总数，供管理端总览使用。
	CountCommunities(ctx context.Context) (int64, error)
}

// communityRepository 是 CommunityRepository 接口针对 MySQL 的具体实现。
type communityRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCommunityRepository 是 communityRepository 的构造函数。
func NewCommunityRepository(db *gorm.DB, logger *core.ZapLogger) CommunityRepository {
	return &communityRepository{
		db:     db,
		logger: logger,
	}
}

// CreateCommunity 插入社区。
func (r *communityRepository) CreateCommunity(ctx context.Context, db *gorm.DB, community *entities.Community) error {
	return db.WithContext(ctx).Create(community).Error
}

// GetCommunityByID 按主键查询社区。
func (r *communityRepository) GetCommunityByID(ctx context.Context, id uint64) (*entities.Community, error) {
	var community entities.Community
	err := r.db.WithContext(ctx).First(&community, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &community, nil
}

// ListCommunities 按成员数降序分页。
func (r *communityRepository) ListCommunities(ctx context.Context, offset, limit int) ([]*entities.Community, int64, error) {
	var communities []*entities.Community
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Community{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("member_count DESC, id ASC").Offset(offset).Limit(limit).Find(&communities).Error
	if err != nil {
		return nil, 0, err
	}
	return communities, total, nil
}

// AddMember 插入成员关系。
func (r *communityRepository) AddMember(ctx context.Context, db *gorm.DB, member *entities.CommunityMember) error {
	return db.WithContext(ctx).Create(member).Error
}

// RemoveMember 删除成员关系。
// 物理删除: 软删墓碑会继续占用 uk_community_user 唯一键，退出后无法再次加入。
func (r *communityRepository) RemoveMember(ctx context.Context, db *gorm.DB, communityID uint64, userID string) (bool, error) {
	result := db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Unscoped().
		Delete(&entities.CommunityMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsMember 查询成员状态。
func (r *communityRepository) IsMember(ctx context.Context, communityID uint64, userID string) (bool, error) {
	var member entities.CommunityMember
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListUserCommunityIDs 查询用户加入的社区 ID 列表。
func (r *communityRepository) ListUserCommunityIDs(ctx context.Context, userID string) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&entities.CommunityMember{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("community_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListMemberships 批量查询成员状态。
func (r *communityRepository) ListMemberships(ctx context.Context, communityIDs []uint64, userID string) (map[uint64]struct{}, error) {
	joined := make(map[uint64]struct{}, len(communityIDs))
	if len(communityIDs) == 0 || userID == "" {
		return joined, nil
	}
	var rows []entities.CommunityMember
	err := r.db.WithContext(ctx).
		Where("community_id IN ? AND user_id = ?", communityIDs, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		joined[row.CommunityID] = struct{}{}
	}
	return joined, nil
}

// IncrementMemberCount 原子调整成员计数。
func (r *communityRepository) IncrementMemberCount(ctx context.Context, db *gorm.DB, communityID uint64, delta int64) error {
	result := db.WithContext(ctx).
		Model(&entities.Community{}).
		Where("id = ?", communityID).
		Update("member_count", gorm.Expr("GREATEST(CAST(member_count AS SIGNED) + ?, 0)", delta))
	if result.Error != nil {
		r.logger.Error("调整社区成员计数失败", zap.Error(result.Error), zap.Uint64("communityID", communityID), zap.Int64("delta", delta))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// RecountAllMemberCounts 以成员表为准重算冗余计数。
// 用一条关联 UPDATE 完成，避免逐社区往返。
func (r *communityRepository) RecountAllMemberCounts(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE communities c
		SET c.member_count = (
			SELECT COUNT(*) FROM community_members m
			WHERE m.community_id = c.id AND m.deleted_at IS NULL
		)
		WHERE c.deleted_at IS NULL`)
	if result.Error != nil {
		r.logger.Error("重算社区成员计数失败", zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountCommunities 统计社区总数。
func (r *communityRepository) CountCommunities(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Community{}).Count(&total).Error
	return total, err
}
