package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/Xushengqwer/community_service/docs" // swagger 文档

	appConfig "github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/controller"
	"github.com/Xushengqwer/community_service/dependencies"
	"github.com/Xushengqwer/community_service/middleware"
	"github.com/Xushengqwer/community_service/mq/consumer"
	"github.com/Xushengqwer/community_service/mq/producer"
	"github.com/Xushengqwer/community_service/realtime"
	"github.com/Xushengqwer/community_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/community_service/repo/redis"
	"github.com/Xushengqwer/community_service/router"
	"github.com/Xushengqwer/community_service/service"
	"github.com/Xushengqwer/community_service/tasks"

	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// @title           Community Service API
// @version         1.0
// @description     社区服务，提供帖子、社区、私信、AI 助手与积分徽章等功能。
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8085

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.CommunityConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 打印最终生效的配置以供调试
	configBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatalf("无法序列化配置以进行打印: %v", err)
	}
	log.Printf("✅ 配置加载成功！最终生效的配置如下:\n%s\n", string(configBytes))

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	// otelTransport 给 AI 代理的出站 HTTP Client 使用，出站调用也进同一条 trace。
	var otelTransport http.RoundTripper = http.DefaultTransport
	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := sharedTracing.InitTracerProvider(
			constant.ServiceName,
			constant.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			} else {
				logger.Info("TracerProvider 已成功关闭")
			}
		}()
		otelTransport = otelhttp.NewTransport(http.DefaultTransport)
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 数据库 (MySQL)
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(dbErr))
	}
	logger.Info("MySQL 数据库连接成功")

	// 4.2 Redis
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功")

	// 4.3 COS 客户端
	cos, cosErr := dependencies.InitCOS(&cfg.COSConfig, logger)
	if cosErr != nil {
		logger.Fatal("初始化 COS 客户端失败", zap.Error(cosErr))
	}
	logger.Info("COS 客户端初始化成功")

	// 4.4 Kafka 生产者
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，Kafka 生产者将为 nil")
	}

	// --- 5. 初始化数据仓库层 (Repositories) ---
	userRepo := mysql.NewUserRepository(db, logger)
	postRepo := mysql.NewPostRepository(db, logger)
	likeRepo := mysql.NewLikeRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	communityRepo := mysql.NewCommunityRepository(db, logger)
	convRepo := mysql.NewConversationRepository(db, logger)
	messageRepo := mysql.NewMessageRepository(db, logger)
	pointLogRepo := mysql.NewPointLogRepository(db, logger)
	systemRepo := mysql.NewSystemSettingRepository(db, logger)
	logger.Debug("MySQL Repositories 初始化完成")

	tokenStore := redisrepo.NewTokenStore(rdb, logger)
	suggestionCache := redisrepo.NewSuggestionCache(rdb, logger)
	hotPostCache := redisrepo.NewHotPostCache(rdb, logger)
	logger.Debug("Redis Repositories 初始化完成")

	// --- 6. 初始化实时 Hub 与令牌管理 ---
	hub := realtime.NewHub(logger.Logger())
	tokenManager := middleware.NewTokenManager(&cfg.JWTConfig)

	// --- 7. 初始化服务层 (Services) ---
	pointsService := service.NewPointsService(db, userRepo, pointLogRepo, logger)
	refreshTTL := time.Duration(cfg.JWTConfig.RefreshExpireSecs) * time.Second
	authService := service.NewAuthService(db, userRepo, systemRepo, pointsService, tokenStore, tokenManager, refreshTTL, logger)
	userService := service.NewUserService(userRepo, communityRepo, kafkaProducer, logger)
	postService := service.NewPostService(db, postRepo, likeRepo, userRepo, communityRepo, pointsService, kafkaProducer, logger)
	hotPostService := service.NewHotPostService(postRepo, likeRepo, hotPostCache, logger)
	commentService := service.NewCommentService(db, commentRepo, postRepo, likeRepo, userRepo, pointsService, logger)
	communityService := service.NewCommunityService(db, communityRepo, logger)
	convService := service.NewConversationService(db, convRepo, messageRepo, userRepo, hub, logger)
	aiHTTPClient := &http.Client{
		Timeout:   time.Duration(cfg.AIConfig.TimeoutSecs) * time.Second,
		Transport: otelTransport,
	}
	assistantService := service.NewAssistantService(&cfg.AIConfig, aiHTTPClient, convRepo, messageRepo, systemRepo, suggestionCache, logger)
	uploadService := service.NewUploadService(cos, logger)
	adminService := service.NewAdminService(db, userRepo, postRepo, communityRepo, messageRepo, systemRepo, hub, logger)
	syncService := service.NewSnapshotSyncService(postRepo, commentRepo, convRepo, logger)
	logger.Debug("Services 初始化完成")

	// --- 8. 初始化控制器层 (Controllers) ---
	ctrls := &router.Controllers{
		Auth:         controller.NewAuthController(authService),
		User:         controller.NewUserController(userService, pointsService),
		Post:         controller.NewPostController(postService, hotPostService),
		Comment:      controller.NewCommentController(commentService),
		Community:    controller.NewCommunityController(communityService),
		Conversation: controller.NewConversationController(convService, assistantService, hub, logger),
		Assistant:    controller.NewAssistantController(assistantService),
		Admin:        controller.NewAdminController(adminService),
		Upload:       controller.NewUploadController(uploadService),
	}
	logger.Debug("Controllers 初始化完成")

	// --- 9. 初始化 Kafka 消费者 ---
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	if len(cfg.KafkaConfig.Brokers) > 0 {
		groupID := cfg.KafkaConfig.ConsumerGroupID
		if groupID == "" {
			logger.Warn("Kafka ConsumerGroupID 未在配置中设置，将使用默认值 'community_service_group'")
			groupID = "community_service_group"
		}

		// 用户资料变更消费者：刷新帖子/评论/会话上的作者冗余快照
		profileTopic := cfg.KafkaConfig.Topics.UserProfileUpdated
		if profileTopic != "" {
			profileHandler := consumer.NewProfileSyncHandler(logger, syncService)
			profileConsumer, err := consumer.NewConsumer(&cfg.KafkaConfig, groupID, profileTopic, profileHandler, logger)
			if err != nil {
				logger.Fatal("初始化用户资料变更 Kafka 消费者失败", zap.Error(err))
			}
			consumers = append(consumers, profileConsumer)
			logger.Info("用户资料变更 Kafka 消费者已准备就绪", zap.String("topic", profileTopic))
		} else {
			logger.Warn("UserProfileUpdated topic 未配置，跳过资料同步消费者创建")
		}

		if len(consumers) > 0 {
			logger.Info(fmt.Sprintf("准备启动 %d 个 Kafka 消费者...", len(consumers)))
			for _, c := range consumers {
				consumerWg.Add(1)
				go func(cons *consumer.Consumer) {
					defer consumerWg.Done()
					cons.Start(consumerCtx)
				}(c)
			}
		}
	} else {
		logger.Warn("Kafka Brokers 未配置，跳过所有 Kafka 消费者初始化。")
	}

	// --- 10. 初始化定时任务 ---
	memberSyncTask := tasks.NewMemberCountSyncTask(communityRepo, logger)
	hotCacheTask := tasks.NewHotPostsCacheTask(postRepo, hotPostCache, logger)
	logger.Info("后台定时任务已初始化并启动")

	// --- 11. 设置 Gin 路由器并启动 HTTP 服务器 ---
	ginRouter := router.SetupRouter(logger, &cfg, tokenManager, ctrls)
	logger.Info("Gin 路由器已设置")

	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 实现优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancelFunc := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancelFunc()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	logger.Info("正在关闭 HTTP 服务器...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 关闭 Kafka 消费者
	logger.Info("正在发送停止信号给 Kafka 消费者...")
	consumerCancel()
	consumerWg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭某个 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止。")

	// c. 停止定时任务调度器，逐个等待正在执行的任务结束或总超时
	logger.Info("正在停止定时任务...")
	for name, stopCtx := range map[string]context.Context{
		"成员数对账":  memberSyncTask.Stop(),
		"热帖缓存刷新": hotCacheTask.Stop(),
	} {
		select {
		case <-stopCtx.Done():
			logger.Info("定时任务已停止", zap.String("task", name))
		case <-shutdownCtx.Done():
			logger.Error("等待定时任务停止超时", zap.String("task", name), zap.Error(shutdownCtx.Err()))
		}
	}
	logger.Info("所有定时任务已停止")

	// d. 关闭 Kafka 生产者
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		}
	}

	logger.Info("服务已成功关闭")
}
