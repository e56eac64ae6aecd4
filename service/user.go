package service

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/mq/producer"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// UserService 定义了用户资料的业务逻辑接口。
type UserService interface {
	// GetProfile 查询用户公开信息；本人查询携带邮箱等私有字段。
	GetProfile(ctx context.Context, targetUserID string, viewerID string) (*vo.UserVO, error)

	// UpdateProfile 更新本人昵称/头像。
	// - 成功后发布用户资料变更事件，由消费者刷新帖子/评论/会话上的冗余快照。
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*vo.UserVO, error)
}

// userService 是 UserService 接口的具体实现。
type userService struct {
	userRepo      mysql.UserRepository
	communityRepo mysql.CommunityRepository
	kafkaSvc      *producer.KafkaProducer
	logger        *core.ZapLogger
}

// NewUserService 是 userService 的构造函数。
func NewUserService(userRepo mysql.UserRepository, communityRepo mysql.CommunityRepository, kafkaSvc *producer.KafkaProducer, logger *core.ZapLogger) UserService {
	return &userService{
		userRepo:      userRepo,
		communityRepo: communityRepo,
		kafkaSvc:      kafkaSvc,
		logger:        logger,
	}
}

// GetProfile 查询用户信息。
func (s *userService) GetProfile(ctx context.Context, targetUserID string, viewerID string) (*vo.UserVO, error) {
	user, err := s.userRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	userVO := vo.NewUserVO(user, targetUserID == viewerID)
	communityIDs, err := s.communityRepo.ListUserCommunityIDs(ctx, targetUserID)
	if err != nil {
		// 社区列表查不到不影响主资料返回。
		s.logger.Warn("查询用户已加入社区失败", zap.Error(err), zap.String("userID", targetUserID))
	} else {
		userVO.JoinedCommunityIDs = communityIDs
	}
	return userVO, nil
}

// UpdateProfile 更新资料并广播变更事件。
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*vo.UserVO, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, req.Nickname, req.AvatarURL); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.kafkaSvc != nil {
		go func(nickname, avatar string) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.kafkaSvc.SendUserProfileUpdatedEvent(sendCtx, userID, nickname, avatar); err != nil {
				s.logger.Error("发送用户资料变更事件失败", zap.Error(err), zap.String("userID", userID))
			}
		}(user.Nickname, user.AvatarURL)
	}

	return vo.NewUserVO(user, true), nil
}
