package router

import (
	"net/http"
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	appConfig "github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/controller"
	"github.com/Xushengqwer/community_service/middleware"
)

// Controllers 聚合全部控制器，避免 SetupRouter 形参无限增长。
type Controllers struct {
	Auth         *controller.AuthController
	User         *controller.UserController
	Post         *controller.PostController
	Comment      *controller.CommentController
	Community    *controller.CommunityController
	Conversation *controller.ConversationController
	Assistant    *controller.AssistantController
	Admin        *controller.AdminController
	Upload       *controller.UploadController
}

// SetupRouter 仅负责配置 Gin 引擎、中间件和路由注册。
func SetupRouter(
	logger *core.ZapLogger,
	cfg *appConfig.CommunityConfig,
	tokenManager *middleware.TokenManager,
	ctrls *Controllers,
) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")

	// 使用 gin.New() 而不是 gin.Default()，Recovery 和访问日志走公共中间件。
	router := gin.New()

	// 1. OTel Middleware (最先，处理追踪上下文和 Span)
	router.Use(otelgin.Middleware(constant.ServiceName))

	// 2. Panic Recovery (捕获后续中间件和 handler 的 panic)
	router.Use(commonMiddleware.ErrorHandlingMiddleware(logger))

	// 3. Request Logger (记录访问日志，需要 TraceID)
	if baseLogger := logger.Logger(); baseLogger != nil {
		router.Use(commonMiddleware.RequestLoggerMiddleware(baseLogger))
	} else {
		logger.Warn("无法获取底层的 *zap.Logger，跳过 RequestLoggerMiddleware 注册")
	}

	// 4. Request Timeout (超时控制)
	// 注意 websocket 路由是长连接，不挂这个中间件（见下方 ws 分组）。
	requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second

	logger.Debug("已注册全局中间件")

	// --- 创建 API 版本分组 ---
	// public: 匿名可访问，带可选登录态（登录后信息流等接口会返回 IsLiked/IsMember）
	// authed: 必须携带有效访问令牌
	// admin:  在 authed 基础上要求管理员徽章
	v1 := router.Group("/api/v1/community")

	public := v1.Group("")
	public.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))
	public.Use(middleware.OptionalAuthMiddleware(tokenManager))

	authed := v1.Group("")
	authed.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))
	authed.Use(middleware.AuthMiddleware(tokenManager))

	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnlyMiddleware())

	// websocket 长连接单独分组：要求登录，但不能挂请求超时。
	ws := v1.Group("")
	ws.Use(middleware.AuthMiddleware(tokenManager))

	// --- 注册控制器路由 ---
	ctrls.Auth.RegisterRoutes(public, authed)
	ctrls.User.RegisterRoutes(public, authed)
	ctrls.Post.RegisterRoutes(public, authed)
	ctrls.Comment.RegisterRoutes(public, authed)
	ctrls.Community.RegisterRoutes(public, authed)
	ctrls.Conversation.RegisterRoutes(authed, ws)
	ctrls.Assistant.RegisterRoutes(authed)
	ctrls.Admin.RegisterRoutes(admin)
	ctrls.Upload.RegisterRoutes(authed)
	logger.Info("所有控制器路由已注册到 /api/v1/community 分组")

	// --- 注册 Swagger UI 路由 ---
	// 访问 /swagger/index.html 即可看到 Swagger UI 界面
	swaggerURL := ginSwagger.URL("/swagger/doc.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
	logger.Info("Swagger UI endpoint registered at /swagger/*any")

	// --- 健康检查等路由 ---
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	logger.Info("Gin 路由器设置完成")
	return router
}
