package service

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// CommentService 定义了评论业务逻辑的接口。
type CommentService interface {
	// AddComment 发表评论。
	// - 事务内写评论行并原子 +1 帖子评论计数。
	// - 成功后异步发放评论积分。
	AddComment(ctx context.Context, postID uint64, authorID string, req *dto.AddCommentRequest) (*vo.CommentVO, error)

	// ListComments 分页查询帖子评论，时间正序。
	ListComments(ctx context.Context, postID uint64, viewerID string, page, pageSize int) ([]*vo.CommentVO, int64, error)

	// ToggleCommentLike 评论点赞切换，与帖子点赞同一套语义。
	ToggleCommentLike(ctx context.Context, commentID uint64, userID string) (*vo.LikeToggleVO, error)

	// DeleteComment 删除评论，仅作者或管理员可操作，同步 -1 帖子评论计数。
	DeleteComment(ctx context.Context, commentID uint64, operatorID string, isAdmin bool) error
}

// commentService 是 CommentService 接口的具体实现。
type commentService struct {
	db          *gorm.DB
	commentRepo mysql.CommentRepository
	postRepo    mysql.PostRepository
	likeRepo    mysql.LikeRepository
	userRepo    mysql.UserRepository
	pointsSvc   PointsService
	logger      *core.ZapLogger
}

// NewCommentService 是 commentService 的构造函数。
func NewCommentService(
	db *gorm.DB,
	commentRepo mysql.CommentRepository,
	postRepo mysql.PostRepository,
	likeRepo mysql.LikeRepository,
	userRepo mysql.UserRepository,
	pointsSvc PointsService,
	logger *core.ZapLogger,
) CommentService {
	return &commentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
		pointsSvc:   pointsSvc,
		logger:      logger,
	}
}

// AddComment 发表评论。
func (s *commentService) AddComment(ctx context.Context, postID uint64, authorID string, req *dto.AddCommentRequest) (*vo.CommentVO, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment := &entities.Comment{
		PostID:         postID,
		AuthorID:       author.UserID,
		AuthorNickname: author.Nickname,
		AuthorAvatar:   author.AvatarURL,
		Content:        req.Content,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.CreateComment(ctx, tx, comment); err != nil {
			return err
		}
		return s.postRepo.IncrementCommentCount(ctx, tx, postID, 1)
	})
	if err != nil {
		s.logger.Error("发表评论事务失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, err
	}

	s.pointsSvc.AddPointsAsync(authorID, constant.PointsAddComment, "add_comment")
	return vo.NewCommentVO(comment, false), nil
}

// ListComments 分页查询评论。
func (s *commentService) ListComments(ctx context.Context, postID uint64, viewerID string, page, pageSize int) ([]*vo.CommentVO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	comments, total, err := s.commentRepo.ListCommentsByPost(ctx, postID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	liked, err := s.likeRepo.ListCommentLikes(ctx, ids, viewerID)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*vo.CommentVO, 0, len(comments))
	for _, c := range comments {
		_, isLiked := liked[c.ID]
		out = append(out, vo.NewCommentVO(c, isLiked))
	}
	return out, total, nil
}

// ToggleCommentLike 评论点赞切换。
func (s *commentService) ToggleCommentLike(ctx context.Context, commentID uint64, userID string) (*vo.LikeToggleVO, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	liked, err := s.hasCommentLike(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if liked {
			removed, err := s.likeRepo.DeleteCommentLike(ctx, tx, commentID, userID)
			if err != nil {
				return err
			}
			if !removed {
				return nil
			}
			return s.commentRepo.IncrementLikeCount(ctx, tx, commentID, -1)
		}

		if err := s.likeRepo.CreateCommentLike(ctx, tx, &entities.CommentLike{CommentID: commentID, UserID: userID}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		return s.commentRepo.IncrementLikeCount(ctx, tx, commentID, 1)
	})
	if err != nil {
		return nil, err
	}

	if !liked && comment.AuthorID != userID {
		s.pointsSvc.AddPointsAsync(comment.AuthorID, constant.PointsLikeReceived, "like_received")
	}

	fresh, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &vo.LikeToggleVO{Liked: !liked, LikeCount: fresh.LikeCount}, nil
}

// DeleteComment 删除评论。
func (s *commentService) DeleteComment(ctx context.Context, commentID uint64, operatorID string, isAdmin bool) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != operatorID && !isAdmin {
		return myErrors.ErrUnauthorized
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.DeleteComment(ctx, tx, commentID); err != nil {
			return err
		}
		return s.postRepo.IncrementCommentCount(ctx, tx, comment.PostID, -1)
	})
}

func (s *commentService) hasCommentLike(ctx context.Context, commentID uint64, userID string) (bool, error) {
	liked, err := s.likeRepo.ListCommentLikes(ctx, []uint64{commentID}, userID)
	if err != nil {
		return false, err
	}
	_, ok := liked[commentID]
	return ok, nil
}
