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

// CommentRepository 定义了评论数据在 MySQL 中的持久化操作接口。
// 评论是独立行而非帖子文档内嵌，计数走帖子表的原子列。
type CommentRepository interface {
	// CreateComment 持久化一条新评论。
	CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error

	// GetCommentByID 按主键查询评论。
	// - 如果未找到，返回 commonerrors.ErrRepoNotFound 错误。
	GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error)

	// ListCommentsByPost 按帖子查询评论，时间正序（老评论在前）。
	ListCommentsByPost(ctx context.Context, postID uint64, offset, limit int) ([]*entities.Comment, int64, error)

	// IncrementLikeCount 原子调整评论点赞计数，减少时钳制在 0。
	IncrementLikeCount(ctx context.Context, db *gorm.DB, commentID uint64, delta int64) error

	// UpdateAuthorSnapshot 刷新某作者全部评论上的冗余昵称/头像快照。
	UpdateAuthorSnapshot(ctx context.Context, authorID string, nickname string, avatarURL string) error

	// DeleteComment 软删除评论。
	DeleteComment(ctx context.Context, db *gorm.DB, id uint64) error
}

// commentRepository 是 CommentRepository 接口针对 MySQL 的具体实现。
type commentRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCommentRepository 是 commentRepository 的构造函数。
func NewCommentRepository(db *gorm.DB, logger *core.ZapLogger) CommentRepository {
	return &commentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateComment 插入评论。
func (r *commentRepository) CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error {
	return db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID 按主键查询评论。
func (r *commentRepository) GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error) {
	var comment entities.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByPost 分页查询帖子评论。
func (r *commentRepository) ListCommentsByPost(ctx context.Context, postID uint64, offset, limit int) ([]*entities.Comment, int64, error) {
	var comments []*entities.Comment
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Comment{}).Where("post_id = ?", postID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at ASC, id ASC").Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		r.logger.Error("查询帖子评论失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, 0, err
	}
	return comments, total, nil
}

// IncrementLikeCount 原子调整评论点赞计数。
func (r *commentRepository) IncrementLikeCount(ctx context.Context, db *gorm.DB, commentID uint64, delta int64) error {
	result := db.WithContext(ctx).
		Model(&entities.Comment{}).
		Where("id = ?", commentID).
		Update("like_count", gorm.Expr("GREATEST(CAST(like_count AS SIGNED) + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// UpdateAuthorSnapshot 刷新评论作者冗余快照。
func (r *commentRepository) UpdateAuthorSnapshot(ctx context.Context, authorID string, nickname string, avatarURL string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Comment{}).
		Where("author_id = ?", authorID).
		Updates(map[string]interface{}{
			"author_nickname": nickname,
			"author_avatar":   avatarURL,
		})
	if result.Error != nil {
		r.logger.Error("刷新评论作者快照失败", zap.Error(result.Error), zap.String("authorID", authorID))
		return result.Error
	}
	return nil
}

// DeleteComment 软删除评论。
func (r *commentRepository) DeleteComment(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
