package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/dependencies"
	"github.com/Xushengqwer/community_service/middleware"
	"github.com/Xushengqwer/community_service/repo/mysql"
	redisRepo "github.com/Xushengqwer/community_service/repo/redis"
	svc "github.com/Xushengqwer/community_service/service"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var configFile string
	var numUsers, numCommunities, numPosts int
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numUsers, "users", 20, "要生成的用户数量")
	flag.IntVar(&numCommunities, "communities", 5, "要生成的社区数量")
	flag.IntVar(&numPosts, "posts", 50, "要生成的帖子数量")
	flag.Parse()

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		fmt.Printf("无法获取配置文件的绝对路径 '%s': %v\n", configFile, err)
		absConfigFile = configFile
	}
	fmt.Printf("准备使用配置文件 '%s' 填充 %d 个用户 / %d 个社区 / %d 条帖子...\n",
		absConfigFile, numUsers, numCommunities, numPosts)

	if numUsers <= 0 || numCommunities <= 0 || numPosts <= 0 {
		fmt.Println("错误: 生成数量必须大于 0")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.CommunityConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}
	fmt.Println("配置加载成功。")

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() { _ = logger.Logger().Sync() }()
	logger.Info("Logger 初始化成功 (Seeder)")

	// --- 3. 初始化 MySQL / Redis ---
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 失败 (Seeder)", zap.Error(dbErr))
	}
	logger.Info("MySQL 连接成功 (Seeder)")

	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败 (Seeder)", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功 (Seeder)")

	// --- 4. 初始化 Repositories 和 Services ---
	userRepo := mysql.NewUserRepository(db, logger)
	postRepo := mysql.NewPostRepository(db, logger)
	likeRepo := mysql.NewLikeRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	communityRepo := mysql.NewCommunityRepository(db, logger)
	pointLogRepo := mysql.NewPointLogRepository(db, logger)
	systemRepo := mysql.NewSystemSettingRepository(db, logger)
	tokenStore := redisRepo.NewTokenStore(rdb, logger)
	tokenManager := middleware.NewTokenManager(&cfg.JWTConfig)

	pointsService := svc.NewPointsService(db, userRepo, pointLogRepo, logger)
	refreshTTL := time.Duration(cfg.JWTConfig.RefreshExpireSecs) * time.Second
	authService := svc.NewAuthService(db, userRepo, systemRepo, pointsService, tokenStore, tokenManager, refreshTTL, logger)
	communityService := svc.NewCommunityService(db, communityRepo, logger)
	// Kafka 生产者留空，填充数据不需要广播事件。
	postService := svc.NewPostService(db, postRepo, likeRepo, userRepo, communityRepo, pointsService, nil, logger)
	commentService := svc.NewCommentService(db, commentRepo, postRepo, likeRepo, userRepo, pointsService, logger)
	logger.Info("Services 已初始化 (Seeder)")

	// --- 5. 执行数据填充 ---
	ctx := context.Background()
	startTime := time.Now()

	Seed(ctx, &SeedServices{
		Auth:      authService,
		Community: communityService,
		Post:      postService,
		Comment:   commentService,
	}, logger, numUsers, numCommunities, numPosts)

	fmt.Printf("数据填充完成！耗时: %v\n", time.Since(startTime))
}
