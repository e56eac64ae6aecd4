package service

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/middleware"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/enums"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/community_service/repo/redis"
)

// minPasswordLength 密码最低长度
const minPasswordLength = 8

// AuthService 定义了注册、登录、令牌刷新与登出的业务逻辑接口。
type AuthService interface {
	// Register 注册新账号。
	// - 校验系统设置中注册是否开放、邮箱是否已占用、密码强度。
	// - 注册成功在同一事务内发放注册积分，并返回令牌对（注册即登录）。
	Register(ctx context.Context, req *dto.RegisterRequest) (*vo.AuthVO, error)

	// Login 邮箱密码登录。
	// - 账号不存在返回 ErrAccountNotFound，密码错误返回 ErrWrongPassword，
	//   封禁账号返回 ErrUserBanned。
	Login(ctx context.Context, req *dto.LoginRequest) (*vo.AuthVO, error)

	// Refresh 用刷新令牌换发新的令牌对。
	// - 必须与 Redis 中存储的当前刷新令牌完全一致，旧令牌换发后立即失效。
	Refresh(ctx context.Context, refreshToken string) (*vo.AuthVO, error)

	// Logout 登出，删除服务端存储的刷新令牌。
	Logout(ctx context.Context, userID string) error
}

// authService 是 AuthService 接口的具体实现。
type authService struct {
	db          *gorm.DB
	userRepo    mysql.UserRepository
	systemRepo  mysql.SystemSettingRepository
	pointsSvc   PointsService
	tokenStore  redisrepo.TokenStore
	tokenMaker  *middleware.TokenManager
	refreshTTL  time.Duration
	logger      *core.ZapLogger
}

// NewAuthService 是 authService 的构造函数。
func NewAuthService(
	db *gorm.DB,
	userRepo mysql.UserRepository,
	systemRepo mysql.SystemSettingRepository,
	pointsSvc PointsService,
	tokenStore redisrepo.TokenStore,
	tokenMaker *middleware.TokenManager,
	refreshTTL time.Duration,
	logger *core.ZapLogger,
) AuthService {
	return &authService{
		db:         db,
		userRepo:   userRepo,
		systemRepo: systemRepo,
		pointsSvc:  pointsSvc,
		tokenStore: tokenStore,
		tokenMaker: tokenMaker,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Register 注册新账号。
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*vo.AuthVO, error) {
	settings, err := s.systemRepo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.RegistrationOpen {
		return nil, myErrors.ErrRegistrationClosed
	}

	if len(req.Password) < minPasswordLength {
		return nil, myErrors.ErrWeakPassword
	}

	// 查重。唯一键仍兜底并发窗口内的重复注册。
	if _, err := s.userRepo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, myErrors.ErrEmailTaken
	} else if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Nickname:     req.Nickname,
		Badge:        enums.TierNew.Label(),
		BadgeTier:    enums.TierNew,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.CreateUser(ctx, tx, user); err != nil {
			return err
		}
		return s.pointsSvc.AddPoints(ctx, tx, user.UserID, constant.PointsRegister, "register")
	})
	if err != nil {
		// 查重和插入之间的并发窗口，由邮箱唯一键兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, myErrors.ErrEmailTaken
		}
		s.logger.Error("注册事务失败", zap.Error(err))
		return nil, err
	}

	// 事务内已加过注册积分，读回最新档位用于响应
	fresh, err := s.userRepo.GetUserByID(ctx, user.UserID)
	if err != nil {
		fresh = user
	}
	return s.issueTokens(ctx, fresh)
}

// Login 邮箱密码登录。
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*vo.AuthVO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrAccountNotFound
		}
		return nil, err
	}
	if user.Banned {
		return nil, myErrors.ErrUserBanned
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, myErrors.ErrWrongPassword
	}
	return s.issueTokens(ctx, user)
}

// Refresh 换发令牌对。
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*vo.AuthVO, error) {
	claims, err := s.tokenMaker.ParseRefresh(refreshToken)
	if err != nil {
		return nil, myErrors.ErrInvalidToken
	}

	stored, err := s.tokenStore.GetRefreshToken(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, myErrors.ErrCacheMiss) {
			return nil, myErrors.ErrInvalidToken
		}
		return nil, err
	}
	if stored != refreshToken {
		// 与服务端记录不一致: 令牌已被换发或被登出作废。
		return nil, myErrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrAccountNotFound
		}
		return nil, err
	}
	if user.Banned {
		return nil, myErrors.ErrUserBanned
	}
	return s.issueTokens(ctx, user)
}

// Logout 删除服务端刷新令牌。
func (s *authService) Logout(ctx context.Context, userID string) error {
	return s.tokenStore.DeleteRefreshToken(ctx, userID)
}

// issueTokens 签发令牌对并落 Redis。
func (s *authService) issueTokens(ctx context.Context, user *entities.User) (*vo.AuthVO, error) {
	isAdmin := user.BadgeTier == enums.TierAdmin
	access, refresh, err := s.tokenMaker.GeneratePair(user.UserID, isAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.tokenStore.SaveRefreshToken(ctx, user.UserID, refresh, s.refreshTTL); err != nil {
		return nil, err
	}
	return &vo.AuthVO{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         vo.NewUserVO(user, true),
	}, nil
}
