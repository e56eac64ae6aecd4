package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/enums"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/realtime"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// AdminService 定义了管理端业务逻辑的接口。
type AdminService interface {
	// GetDashboard 聚合用户/帖子/社区/消息总数。
	GetDashboard(ctx context.Context) (*vo.DashboardVO, error)

	// ListUsers 分页查询用户，keyword 对昵称/邮箱模糊匹配。
	ListUsers(ctx context.Context, req *dto.ListUsersRequest) (*vo.UserPageVO, error)

	// SetUserBanned 封禁/解封用户。
	SetUserBanned(ctx context.Context, userID string, banned bool) error

	// GrantAdmin 赋予用户管理员徽章。管理员档位只能这样获得，不参与积分换算。
	GrantAdmin(ctx context.Context, userID string) error

	// GetSettings 读取系统设置。
	GetSettings(ctx context.Context) (*vo.SystemSettingVO, error)

	// UpdateSettings 部分更新系统设置（公告、注册开关、AI 开关）。
	UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) (*vo.SystemSettingVO, error)
}

// adminService 是 AdminService 接口的具体实现。
type adminService struct {
	db            *gorm.DB
	userRepo      mysql.UserRepository
	postRepo      mysql.PostRepository
	communityRepo mysql.CommunityRepository
	messageRepo   mysql.MessageRepository
	systemRepo    mysql.SystemSettingRepository
	hub           *realtime.Hub
	logger        *core.ZapLogger
}

// NewAdminService 是 adminService 的构造函数。
func NewAdminService(
	db *gorm.DB,
	userRepo mysql.UserRepository,
	postRepo mysql.PostRepository,
	communityRepo mysql.CommunityRepository,
	messageRepo mysql.MessageRepository,
	systemRepo mysql.SystemSettingRepository,
	hub *realtime.Hub,
	logger *core.ZapLogger,
) AdminService {
	return &adminService{
		db:            db,
		userRepo:      userRepo,
		postRepo:      postRepo,
		communityRepo: communityRepo,
		messageRepo:   messageRepo,
		systemRepo:    systemRepo,
		hub:           hub,
		logger:        logger,
	}
}

// GetDashboard 聚合总览计数。
func (s *adminService) GetDashboard(ctx context.Context) (*vo.DashboardVO, error) {
	userCount, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	postCount, err := s.postRepo.CountPosts(ctx)
	if err != nil {
		return nil, err
	}
	communityCount, err := s.communityRepo.CountCommunities(ctx)
	if err != nil {
		return nil, err
	}
	messageCount, err := s.messageRepo.CountMessages(ctx)
	if err != nil {
		return nil, err
	}
	return &vo.DashboardVO{
		UserCount:      userCount,
		PostCount:      postCount,
		CommunityCount: communityCount,
		MessageCount:   messageCount,
		OnlineUsers:    s.hub.OnlineUserCount(),
	}, nil
}

// ListUsers 管理端用户列表。
func (s *adminService) ListUsers(ctx context.Context, req *dto.ListUsersRequest) (*vo.UserPageVO, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	keyword := ""
	if req.Keyword != nil {
		keyword = *req.Keyword
	}
	users, total, err := s.userRepo.ListUsers(ctx, keyword, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]*vo.UserVO, 0, len(users))
	for _, u := range users {
		out = append(out, vo.NewUserVO(u, true))
	}
	return &vo.UserPageVO{Users: out, Total: total}, nil
}

// SetUserBanned 封禁/解封。
func (s *adminService) SetUserBanned(ctx context.Context, userID string, banned bool) error {
	if err := s.userRepo.SetBanned(ctx, userID, banned); err != nil {
		return err
	}
	s.logger.Info("用户封禁状态已变更", zap.String("userID", userID), zap.Bool("banned", banned))
	return nil
}

// GrantAdmin 赋予管理员徽章。
func (s *adminService) GrantAdmin(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	// 积分保持不变，只改徽章档位。
	return s.userRepo.AddPointsAndBadge(ctx, s.db, user.UserID, 0, enums.TierAdmin.Label(), enums.TierAdmin)
}

// GetSettings 读取系统设置。
func (s *adminService) GetSettings(ctx context.Context) (*vo.SystemSettingVO, error) {
	settings, err := s.systemRepo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return vo.NewSystemSettingVO(settings), nil
}

// UpdateSettings 更新系统设置。
func (s *adminService) UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) (*vo.SystemSettingVO, error) {
	settings, err := s.systemRepo.UpdateSettings(ctx, req.Announcement, req.RegistrationOpen, req.AIEnabled)
	if err != nil {
		return nil, err
	}
	s.logger.Info("系统设置已更新")
	return vo.NewSystemSettingVO(settings), nil
}
