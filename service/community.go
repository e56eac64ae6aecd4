package service

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// CommunityService 定义了社区业务逻辑的接口。
type CommunityService interface {
	// CreateCommunity 创建社区，创建者自动成为 owner 成员。
	CreateCommunity(ctx context.Context, creatorID string, req *dto.CreateCommunityRequest) (*vo.CommunityVO, error)

	// GetCommunity 查询单个社区，viewerID 非空时填充 IsMember。
	GetCommunity(ctx context.Context, communityID uint64, viewerID string) (*vo.CommunityVO, error)

	// ListCommunities 按成员数降序分页查询社区。
	ListCommunities(ctx context.Context, viewerID string, req *dto.ListCommunitiesRequest) (*vo.CommunityPageVO, error)

	// JoinCommunity 加入社区。
	// - 事务内写成员关系并原子 +1 成员计数，重复加入返回 ErrAlreadyMember。
	JoinCommunity(ctx context.Context, communityID uint64, userID string) error

	// LeaveCommunity 退出社区。
	// - 未加入时幂等返回 nil，成员计数只在真的删除了成员行时回退。
	LeaveCommunity(ctx context.Context, communityID uint64, userID string) error
}

// communityService 是 CommunityService 接口的具体实现。
type communityService struct {
	db            *gorm.DB
	communityRepo mysql.CommunityRepository
	logger        *core.ZapLogger
}

// NewCommunityService 是 communityService 的构造函数。
func NewCommunityService(db *gorm.DB, communityRepo mysql.CommunityRepository, logger *core.ZapLogger) CommunityService {
	return &communityService{
		db:            db,
		communityRepo: communityRepo,
		logger:        logger,
	}
}

// CreateCommunity 创建社区。
func (s *communityService) CreateCommunity(ctx context.Context, creatorID string, req *dto.CreateCommunityRequest) (*vo.CommunityVO, error) {
	community := &entities.Community{
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		AvatarURL:   req.AvatarURL,
		Tags:        req.Tags,
		MemberCount: 1,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.communityRepo.CreateCommunity(ctx, tx, community); err != nil {
			return err
		}
		return s.communityRepo.AddMember(ctx, tx, &entities.CommunityMember{
			CommunityID: community.ID,
			UserID:      creatorID,
			Role:        entities.RoleOwner,
		})
	})
	if err != nil {
		s.logger.Error("创建社区事务失败", zap.Error(err), zap.String("creatorID", creatorID))
		return nil, err
	}
	return vo.NewCommunityVO(community, true), nil
}

// GetCommunity 查询单个社区。
func (s *communityService) GetCommunity(ctx context.Context, communityID uint64, viewerID string) (*vo.CommunityVO, error) {
	community, err := s.communityRepo.GetCommunityByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	isMember := false
	if viewerID != "" {
		isMember, err = s.communityRepo.IsMember(ctx, communityID, viewerID)
		if err != nil {
			return nil, err
		}
	}
	return vo.NewCommunityVO(community, isMember), nil
}

// ListCommunities 分页查询社区。
func (s *communityService) ListCommunities(ctx context.Context, viewerID string, req *dto.ListCommunitiesRequest) (*vo.CommunityPageVO, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	communities, total, err := s.communityRepo.ListCommunities(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(communities))
	for _, c := range communities {
		ids = append(ids, c.ID)
	}
	joined, err := s.communityRepo.ListMemberships(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	out := make([]*vo.CommunityVO, 0, len(communities))
	for _, c := range communities {
		_, isMember := joined[c.ID]
		out = append(out, vo.NewCommunityVO(c, isMember))
	}
	return &vo.CommunityPageVO{Communities: out, Total: total}, nil
}

// JoinCommunity 加入社区。
func (s *communityService) JoinCommunity(ctx context.Context, communityID uint64, userID string) error {
	if _, err := s.communityRepo.GetCommunityByID(ctx, communityID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.communityRepo.AddMember(ctx, tx, &entities.CommunityMember{
			CommunityID: communityID,
			UserID:      userID,
			Role:        entities.RoleMember,
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return myErrors.ErrAlreadyMember
			}
			return err
		}
		return s.communityRepo.IncrementMemberCount(ctx, tx, communityID, 1)
	})
	if err != nil && !errors.Is(err, myErrors.ErrAlreadyMember) {
		s.logger.Error("加入社区事务失败", zap.Error(err), zap.Uint64("communityID", communityID), zap.String("userID", userID))
	}
	return err
}

// LeaveCommunity 退出社区。
func (s *communityService) LeaveCommunity(ctx context.Context, communityID uint64, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := s.communityRepo.RemoveMember(ctx, tx, communityID, userID)
		if err != nil {
			return err
		}
		if !removed {
			// 本就不是成员，幂等返回。
			return nil
		}
		return s.communityRepo.IncrementMemberCount(ctx, tx, communityID, -1)
	})
}
