package service

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/mq/producer"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// PostService 定义了帖子核心业务逻辑的接口。
type PostService interface {
	// CreatePost 处理用户发布新帖子的业务流程。
	// - 作者昵称/头像以发帖时刻的快照冗余进帖子行。
	// - 指定社区时要求发帖人是社区成员，并冗余社区名。
	// - 成功后异步发放发帖积分、发布 Kafka 事件。
	CreatePost(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*vo.PostVO, error)

	// GetTimeline 信息流游标分页查询，分类/社区筛选在查询层完成。
	// - viewerID 非空时填充每条帖子的 IsLiked。
	GetTimeline(ctx context.Context, viewerID string, query *dto.TimelineQueryDTO) (*vo.TimelinePageVO, error)

	// GetPostByID 获取单个帖子。
	GetPostByID(ctx context.Context, postID uint64, viewerID string) (*vo.PostVO, error)

	// GetUserPosts 游标分页查询某用户发布的帖子。
	GetUserPosts(ctx context.Context, targetUserID string, viewerID string, cursor *uint64, pageSize int) ([]*vo.PostVO, *uint64, error)

	// TogglePostLike 点赞/取消赞切换。
	// - 事务内写点赞关系并原子调整计数；首次点赞异步给作者发被赞积分。
	// - 返回切换后的状态与计数。
	TogglePostLike(ctx context.Context, postID uint64, userID string) (*vo.LikeToggleVO, error)

	// DeletePost 删除帖子，仅作者或管理员可操作。
	// - 软删除后异步发布删除事件。
	DeletePost(ctx context.Context, postID uint64, operatorID string, isAdmin bool) error
}

// postService 是 PostService 接口的具体实现。
type postService struct {
	db            *gorm.DB
	postRepo      mysql.PostRepository
	likeRepo      mysql.LikeRepository
	userRepo      mysql.UserRepository
	communityRepo mysql.CommunityRepository
	pointsSvc     PointsService
	kafkaSvc      *producer.KafkaProducer
	logger        *core.ZapLogger
}

// NewPostService 是 postService 的构造函数，通过依赖注入初始化服务实例。
func NewPostService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	likeRepo mysql.LikeRepository,
	userRepo mysql.UserRepository,
	communityRepo mysql.CommunityRepository,
	pointsSvc PointsService,
	kafkaSvc *producer.KafkaProducer,
	logger *core.ZapLogger,
) PostService {
	return &postService{
		db:            db,
		postRepo:      postRepo,
		likeRepo:      likeRepo,
		userRepo:      userRepo,
		communityRepo: communityRepo,
		pointsSvc:     pointsSvc,
		kafkaSvc:      kafkaSvc,
		logger:        logger,
	}
}

// CreatePost 发布帖子。
func (s *postService) CreatePost(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*vo.PostVO, error) {
	author, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author.Banned {
		return nil, myErrors.ErrUserBanned
	}

	post := &entities.Post{
		AuthorID:       author.UserID,
		AuthorNickname: author.Nickname,
		AuthorAvatar:   author.AvatarURL,
		Title:          req.Title,
		Content:        req.Content,
		Category:       req.Category,
		Tags:           req.Tags,
		ImageURL:       req.ImageURL,
		VideoURL:       req.VideoURL,
		AudioURL:       req.AudioURL,
	}

	if req.CommunityID != nil {
		community, err := s.communityRepo.GetCommunityByID(ctx, *req.CommunityID)
		if err != nil {
			return nil, err
		}
		isMember, err := s.communityRepo.IsMember(ctx, community.ID, authorID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, myErrors.ErrNotMember
		}
		post.CommunityID = &community.ID
		post.CommunityName = community.Name
		// 社区名作为标签带上，信息流里按标签也能聚到该社区的帖子。
		hasTag := false
		for _, tag := range post.Tags {
			if tag == community.Name {
				hasTag = true
				break
			}
		}
		if !hasTag {
			post.Tags = append(post.Tags, community.Name)
		}
	}

	if err := s.postRepo.CreatePost(ctx, s.db, post); err != nil {
		s.logger.Error("创建帖子失败", zap.Error(err), zap.String("authorID", authorID))
		return nil, err
	}

	// 发帖积分与 Kafka 事件都不阻塞响应。
	s.pointsSvc.AddPointsAsync(authorID, constant.PointsCreatePost, "create_post")
	if s.kafkaSvc != nil {
		go func(p *entities.Post) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.kafkaSvc.SendPostCreatedEvent(sendCtx, p.ID, p.AuthorID, string(p.Category), p.CommunityID); err != nil {
				s.logger.Error("发送帖子创建事件失败", zap.Error(err), zap.Uint64("postID", p.ID))
			}
		}(post)
	}

	return vo.NewPostVO(post, false), nil
}

// GetTimeline 信息流查询。
func (s *postService) GetTimeline(ctx context.Context, viewerID string, query *dto.TimelineQueryDTO) (*vo.TimelinePageVO, error) {
	if query.PageSize <= 0 {
		query.PageSize = constant.DefaultTimelinePageSize
	}
	if query.PageSize > constant.MaxTimelinePageSize {
		query.PageSize = constant.MaxTimelinePageSize
	}

	posts, nextCreatedAt, nextPostID, err := s.postRepo.GetPostsByTimeline(ctx, query)
	if err != nil {
		return nil, err
	}

	postVOs, err := s.toPostVOs(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &vo.TimelinePageVO{
		Posts:         postVOs,
		NextCreatedAt: nextCreatedAt,
		NextPostID:    nextPostID,
	}, nil
}

// GetPostByID 单帖查询。
func (s *postService) GetPostByID(ctx context.Context, postID uint64, viewerID string) (*vo.PostVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	isLiked := false
	if viewerID != "" {
		isLiked, err = s.likeRepo.HasPostLike(ctx, postID, viewerID)
		if err != nil {
			return nil, err
		}
	}
	return vo.NewPostVO(post, isLiked), nil
}

// GetUserPosts 用户主页帖子列表。
func (s *postService) GetUserPosts(ctx context.Context, targetUserID string, viewerID string, cursor *uint64, pageSize int) ([]*vo.PostVO, *uint64, error) {
	if pageSize <= 0 {
		pageSize = constant.DefaultTimelinePageSize
	}
	posts, nextCursor, err := s.postRepo.GetPostsByUserIDCursor(ctx, targetUserID, cursor, pageSize)
	if err != nil {
		return nil, nil, err
	}
	postVOs, err := s.toPostVOs(ctx, posts, viewerID)
	if err != nil {
		return nil, nil, err
	}
	return postVOs, nextCursor, nil
}

// TogglePostLike 点赞切换。
func (s *postService) TogglePostLike(ctx context.Context, postID uint64, userID string) (*vo.LikeToggleVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.HasPostLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if liked {
			removed, err := s.likeRepo.DeletePostLike(ctx, tx, postID, userID)
			if err != nil {
				return err
			}
			if !removed {
				// 并发下别的请求已取消，跳过计数回退。
				return nil
			}
			return s.postRepo.IncrementLikeCount(ctx, tx, postID, -1)
		}

		if err := s.likeRepo.CreatePostLike(ctx, tx, &entities.PostLike{PostID: postID, UserID: userID}); err != nil {
			// 唯一键冲突说明并发下已点过，幂等处理。
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		return s.postRepo.IncrementLikeCount(ctx, tx, postID, 1)
	})
	if err != nil {
		s.logger.Error("点赞切换事务失败", zap.Error(err), zap.Uint64("postID", postID), zap.String("userID", userID))
		return nil, err
	}

	// 首次点赞给作者发被赞积分；取消赞不回收。
	if !liked && post.AuthorID != userID {
		s.pointsSvc.AddPointsAsync(post.AuthorID, constant.PointsLikeReceived, "like_received")
	}

	fresh, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &vo.LikeToggleVO{Liked: !liked, LikeCount: fresh.LikeCount}, nil
}

// DeletePost 删除帖子。
func (s *postService) DeletePost(ctx context.Context, postID uint64, operatorID string, isAdmin bool) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return commonerrors.ErrRepoNotFound
		}
		return err
	}
	if post.AuthorID != operatorID && !isAdmin {
		return myErrors.ErrUnauthorized
	}

	if err := s.postRepo.DeletePost(ctx, s.db, postID); err != nil {
		return err
	}

	if s.kafkaSvc != nil {
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.kafkaSvc.SendPostDeleteEvent(sendCtx, postID); err != nil {
				s.logger.Error("发送帖子删除事件失败", zap.Error(err), zap.Uint64("postID", postID))
			}
		}()
	}
	return nil
}

// toPostVOs 批量转换实体并填充 IsLiked。
func (s *postService) toPostVOs(ctx context.Context, posts []*entities.Post, viewerID string) ([]*vo.PostVO, error) {
	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	liked, err := s.likeRepo.ListPostLikes(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	out := make([]*vo.PostVO, 0, len(posts))
	for _, p := range posts {
		_, isLiked := liked[p.ID]
		out = append(out, vo.NewPostVO(p, isLiked))
	}
	return out, nil
}
