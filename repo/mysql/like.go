package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/core"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// LikeRepository 定义了点赞关系在 MySQL 中的持久化操作接口。
// 点赞/取消赞是切换语义，唯一键 (post_id, user_id) 保证同一用户不会重复计数。
type LikeRepository interface {
	// CreatePostLike 插入一条帖子点赞记录。
	// - 唯一键冲突返回 gorm.ErrDuplicatedKey 或底层驱动错误，由服务层处理。
	CreatePostLike(ctx context.Context, db *gorm.DB, like *entities.PostLike) error

	// DeletePostLike 删除点赞记录，返回是否真的删除了一行。
	// - 取消一个不存在的赞不报错，返回 false，服务层据此跳过计数回退。
	DeletePostLike(ctx context.Context, db *gorm.DB, postID uint64, userID string) (bool, error)

	// HasPostLike 判断用户是否赞过某帖。
	HasPostLike(ctx context.Context, postID uint64, userID string) (bool, error)

	// ListPostLikes 批量查询用户对一组帖子的点赞状态，供信息流填充 IsLiked。
	// - 返回被赞过的 postID 集合。
	ListPostLikes(ctx context.Context, postIDs []uint64, userID string) (map[uint64]struct{}, error)

	// CreateCommentLike 插入一条评论点赞记录。
	CreateCommentLike(ctx context.Context, db *gorm.DB, like *entities.CommentLike) error

	// DeleteCommentLike 删除评论点赞记录，返回是否真的删除了一行。
	DeleteCommentLike(ctx context.Context, db *gorm.DB, commentID uint64, userID string) (bool, error)

	// ListCommentLikes 批量查询用户对一组评论的点赞状态。
	ListCommentLikes(ctx context.Context, commentIDs []uint64, userID string) (map[uint64]struct{}, error)
}

// likeRepository 是 LikeRepository 接口针对 MySQL 的具体实现。
type likeRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewLikeRepository 是 likeRepository 的构造函数。
func NewLikeRepository(db *gorm.DB, logger *core.ZapLogger) LikeRepository {
	return &likeRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePostLike 插入帖子点赞记录。
func (r *likeRepository) CreatePostLike(ctx context.Context, db *gorm.DB, like *entities.PostLike) error {
	return db.WithContext(ctx).Create(like).Error
}

// DeletePostLike 删除帖子点赞记录。
// 物理删除: 软删墓碑会继续占用 uk_post_user 唯一键，导致再次点赞插入冲突。
func (r *likeRepository) DeletePostLike(ctx context.Context, db *gorm.DB, postID uint64, userID string) (bool, error) {
	result := db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Unscoped().
		Delete(&entities.PostLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// HasPostLike 查询单帖点赞状态。
func (r *likeRepository) HasPostLike(ctx context.Context, postID uint64, userID string) (bool, error) {
	var like entities.PostLike
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListPostLikes 批量查询点赞状态，一次 IN 查询填充整页。
func (r *likeRepository) ListPostLikes(ctx context.Context, postIDs []uint64, userID string) (map[uint64]struct{}, error) {
	liked := make(map[uint64]struct{}, len(postIDs))
	if len(postIDs) == 0 || userID == "" {
		return liked, nil
	}
	var rows []entities.PostLike
	err := r.db.WithContext(ctx).
		Where("post_id IN ? AND user_id = ?", postIDs, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		liked[row.PostID] = struct{}{}
	}
	return liked, nil
}

// CreateCommentLike 插入评论点赞记录。
func (r *likeRepository) CreateCommentLike(ctx context.Context, db *gorm.DB, like *entities.CommentLike) error {
	return db.WithContext(ctx).Create(like).Error
}

// DeleteCommentLike 删除评论点赞记录。
// 物理删除，理由同 DeletePostLike。
func (r *likeRepository) DeleteCommentLike(ctx context.Context, db *gorm.DB, commentID uint64, userID string) (bool, error) {
	result := db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Unscoped().
		Delete(&entities.CommentLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListCommentLikes 批量查询评论点赞状态。
func (r *likeRepository) ListCommentLikes(ctx context.Context, commentIDs []uint64, userID string) (map[uint64]struct{}, error) {
	liked := make(map[uint64]struct{}, len(commentIDs))
	if len(commentIDs) == 0 || userID == "" {
		return liked, nil
	}
	var rows []entities.CommentLike
	err := r.db.WithContext(ctx).
		Where("comment_id IN ? AND user_id = ?", commentIDs, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		liked[row.CommentID] = struct{}{}
	}
	return liked, nil
}
