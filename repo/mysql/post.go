package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
)

// PostRepository 定义了帖子数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type PostRepository interface {
	// CreatePost 持久化一个新的帖子记录。
	// - 这是帖子生命周期的起点，对应用户发布帖子的操作。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// GetPostByID 根据单个 ID 检索帖子信息。
	// - 如果未找到帖子，返回 commonerrors.ErrRepoNotFound 错误。
	GetPostByID(ctx context.Context, id uint64) (*entities.Post, error)

	// GetPostsByTimeline 实现按时间线、条件筛选和游标分页查询帖子列表。
	// - 筛选条件（分类/社区）在查询层完成，不在内存中过滤。
	// - 返回 ([]*entities.Post, *time.Time, *uint64, error): 帖子列表, 下一页游标时间, 下一页游标ID, 错误。
	GetPostsByTimeline(ctx context.Context, params *dto.TimelineQueryDTO) ([]*entities.Post, *time.Time, *uint64, error)

	// GetPostsByUserIDCursor 实现用户帖子列表的游标分页查询。
	// - 设计为降序（ID越大越新），适用于个人主页展示最新帖子。
	// - cursor (*uint64): nil 表示首次加载。
	// - 返回 nextCursor (*uint64): 下一页的起始ID，nil 表示没有更多数据。
	GetPostsByUserIDCursor(ctx context.Context, userID string, cursor *uint64, pageSize int) ([]*entities.Post, *uint64, error)

	// IncrementLikeCount 原子调整点赞计数。
	// - delta 为 ±1；减少时用 GREATEST 钳制在 0，并发取消赞不会出现负数。
	IncrementLikeCount(ctx context.Context, db *gorm.DB, postID uint64, delta int64) error

	// IncrementCommentCount 原子调整评论计数，同样钳制在 0。
	IncrementCommentCount(ctx context.Context, db *gorm.DB, postID uint64, delta int64) error

	// UpdateAuthorSnapshot 批量刷新某作者全部帖子上的冗余昵称/头像快照。
	// - 由用户资料变更事件的消费者调用。
	UpdateAuthorSnapshot(ctx context.Context, authorID string, nickname string, avatarURL string) error

	// ListTopByLikes 按点赞数取 Top N，供热门榜定时任务刷新缓存。
	ListTopByLikes(ctx context.Context, limit int) ([]*entities.Post, error)

	// DeletePost 对指定帖子执行软删除。
	DeletePost(ctx context.Context, db *gorm.DB, id uint64) error

	// CountPosts 返回未删除帖子总数，供管理端总览使用。
	CountPosts(ctx context.Context) (int64, error)
}

// postRepository 是 PostRepository 接口针对 MySQL 的具体实现。
type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePost 实现帖子的数据库插入操作。
func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	return nil
}

// GetPostByID 按主键查询帖子。
func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("按 ID 查询帖子失败", zap.Error(err), zap.Uint64("postID", id))
		return nil, err
	}
	return &post, nil
}

// GetPostsByTimeline 实现时间线游标分页。
// 游标为 (created_at, id) 复合对，避免同一秒内多条帖子被跳过或重复。
func (r *postRepository) GetPostsByTimeline(ctx context.Context, params *dto.TimelineQueryDTO) ([]*entities.Post, *time.Time, *uint64, error) {
	var posts []*entities.Post

	query := r.db.WithContext(ctx).Model(&entities.Post{})

	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}
	if params.CommunityID != nil {
		query = query.Where("community_id = ?", *params.CommunityID)
	}

	// 复合游标: 时间严格小于，或时间相等且 ID 小于
	if params.LastCreatedAt != nil && params.LastPostID != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			*params.LastCreatedAt, *params.LastCreatedAt, *params.LastPostID,
		)
	}

	// 查询 pageSize + 1 条记录以判断是否还有下一页。
	err := query.Order("created_at DESC, id DESC").
		Limit(params.PageSize + 1).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("时间线查询帖子失败", zap.Error(err))
		return nil, nil, nil, err
	}

	var nextCreatedAt *time.Time
	var nextPostID *uint64
	if len(posts) > params.PageSize {
		last := posts[params.PageSize-1]
		nextCreatedAt = &last.CreatedAt
		nextPostID = &last.ID
		posts = posts[:params.PageSize]
	}
	return posts, nextCreatedAt, nextPostID, nil
}

// GetPostsByUserIDCursor 实现游标方式获取用户帖子。
func (r *postRepository) GetPostsByUserIDCursor(ctx context.Context, userID string, cursor *uint64, pageSize int) ([]*entities.Post, *uint64, error) {
	var posts []*entities.Post

	query := r.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Order("id DESC")
	if cursor != nil {
		query = query.Where("id < ?", *cursor)
	}

	err := query.Limit(pageSize + 1).Find(&posts).Error
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *uint64
	if len(posts) > pageSize {
		nextCursor = &posts[pageSize-1].ID
		posts = posts[:pageSize]
	}
	return posts, nextCursor, nil
}

// IncrementLikeCount 原子调整点赞计数，减少时钳制在 0。
func (r *postRepository) IncrementLikeCount(ctx context.Context, db *gorm.DB, postID uint64, delta int64) error {
	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ?", postID).
		Update("like_count", gorm.Expr("GREATEST(CAST(like_count AS SIGNED) + ?, 0)", delta))
	if result.Error != nil {
		r.logger.Error("调整帖子点赞计数失败", zap.Error(result.Error), zap.Uint64("postID", postID), zap.Int64("delta", delta))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// IncrementCommentCount 原子调整评论计数。
func (r *postRepository) IncrementCommentCount(ctx context.Context, db *gorm.DB, postID uint64, delta int64) error {
	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ?", postID).
		Update("comment_count", gorm.Expr("GREATEST(CAST(comment_count AS SIGNED) + ?, 0)", delta))
	if result.Error != nil {
		r.logger.Error("调整帖子评论计数失败", zap.Error(result.Error), zap.Uint64("postID", postID), zap.Int64("delta", delta))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// UpdateAuthorSnapshot 刷新作者冗余快照。
func (r *postRepository) UpdateAuthorSnapshot(ctx context.Context, authorID string, nickname string, avatarURL string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("author_id = ?", authorID).
		Updates(map[string]interface{}{
			"author_nickname": nickname,
			"author_avatar":   avatarURL,
		})
	if result.Error != nil {
		r.logger.Error("刷新帖子作者快照失败", zap.Error(result.Error), zap.String("authorID", authorID))
		return result.Error
	}
	r.logger.Info("帖子作者快照已刷新",
		zap.String("authorID", authorID),
		zap.Int64("affected", result.RowsAffected),
	)
	return nil
}

// ListTopByLikes 按点赞数降序取前 N 条。
func (r *postRepository) ListTopByLikes(ctx context.Context, limit int) ([]*entities.Post, error) {
	var posts []*entities.Post
	err := r.db.WithContext(ctx).
		Order("like_count DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost 软删除帖子。
func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// CountPosts 统计帖子总数。
func (r *postRepository) CountPosts(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Post{}).Count(&total).Error
	return total, err
}
