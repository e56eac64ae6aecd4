package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/middleware"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/service"
)

// AuthController 定义认证控制器的结构体
type AuthController struct {
	authService service.AuthService
}

// NewAuthController 构造函数，用于创建 AuthController 实例
func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register 注册新账号
// @Summary      注册
// @Description  邮箱+密码注册，成功后直接返回令牌对（注册即登录），并发放注册积分。
// @Tags         auth (认证)
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} vo.AuthResponseWrapper "注册成功"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误/密码过弱/邮箱已占用/注册已关闭"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/community/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	authVO, err := ctrl.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrEmailTaken):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "邮箱已被注册")
		case errors.Is(err, myErrors.ErrWeakPassword):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "密码长度不足")
		case errors.Is(err, myErrors.ErrRegistrationClosed):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientInvalidInput, "注册暂未开放")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "注册失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess(c, authVO, "注册成功")
}

// Login 邮箱密码登录
// @Summary      登录
// @Tags         auth (认证)
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} vo.AuthResponseWrapper "登录成功"
// @Failure      401 {object} vo.BaseResponseWrapper "账号不存在或密码错误"
// @Failure      403 {object} vo.BaseResponseWrapper "账号已被封禁"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/community/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	authVO, err := ctrl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrAccountNotFound), errors.Is(err, myErrors.ErrWrongPassword):
			// 统一文案，不区分账号不存在与密码错误。
			response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "账号或密码错误")
		case errors.Is(err, myErrors.ErrUserBanned):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "账号已被封禁")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "登录失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess(c, authVO, "登录成功")
}

// Refresh 刷新令牌
// @Summary      刷新令牌
// @Description  用刷新令牌换发新的令牌对，旧刷新令牌立即失效。
// @Tags         auth (认证)
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "刷新令牌"
// @Success      200 {object} vo.AuthResponseWrapper "刷新成功"
// @Failure      401 {object} vo.BaseResponseWrapper "刷新令牌无效或已过期"
// @Router       /api/v1/community/auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	authVO, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrInvalidToken), errors.Is(err, myErrors.ErrAccountNotFound):
			response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "刷新令牌无效或已过期")
		case errors.Is(err, myErrors.ErrUserBanned):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "账号已被封禁")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "刷新令牌失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess(c, authVO, "刷新成功")
}

// Logout 登出
// @Summary      登出
// @Description  删除服务端存储的刷新令牌，已签发的刷新令牌立即失效。
// @Tags         auth (认证)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} vo.BaseResponseWrapper "登出成功"
// @Failure      401 {object} vo.BaseResponseWrapper "未登录"
// @Router       /api/v1/community/auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}
	if err := ctrl.authService.Logout(c.Request.Context(), userID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "登出失败: "+err.Error())
		return
	}
	response.RespondSuccess[any](c, nil, "登出成功")
}

// RegisterRoutes 注册认证相关路由。
// public 组匿名可访问，authed 组要求携带有效访问令牌。
func (ctrl *AuthController) RegisterRoutes(public, authed *gin.RouterGroup) {
	auth := public.Group("/auth")
	{
		auth.POST("/register", ctrl.Register) // POST /api/v1/community/auth/register
		auth.POST("/login", ctrl.Login)       // POST /api/v1/community/auth/login
		auth.POST("/refresh", ctrl.Refresh)   // POST /api/v1/community/auth/refresh
	}
	authed.POST("/auth/logout", ctrl.Logout) // POST /api/v1/community/auth/logout
}
