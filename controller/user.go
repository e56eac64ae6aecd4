package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/middleware"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/service"
)

// UserController 定义用户资料控制器的结构体
type UserController struct {
	userService   service.UserService
	pointsService service.PointsService
}

// NewUserController 构造函数，用于创建 UserController 实例
func NewUserController(userService service.UserService, pointsService service.PointsService) *UserController {
	return &UserController{
		userService:   userService,
		pointsService: pointsService,
	}
}

// GetProfile 查询用户资料
// @Summary      获取用户资料 (公开)
// @Description  查询任意用户的公开资料；本人查询会额外返回邮箱等私有字段。
// @Tags         users (用户)
// @Produce      json
// @Param        userId path string true "用户ID"
// @Success      200 {object} vo.UserResponseWrapper "用户资料"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Router       /api/v1/community/users/{userId} [get]
func (ctrl *UserController) GetProfile(c *gin.Context) {
	targetUserID := c.Param("userId")

	userVO, err := ctrl.userService.GetProfile(c.Request.Context(), targetUserID, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取用户资料失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, userVO, "用户资料获取成功")
}

// UpdateProfile 更新本人资料
// @Summary      更新个人资料
// @Description  更新本人昵称/头像；成功后异步广播资料变更事件，刷新各处冗余快照。
// @Tags         users (用户)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "要修改的字段"
// @Success      200 {object} vo.UserResponseWrapper "更新后的资料"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误"
// @Router       /api/v1/community/users/me [put]
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	userVO, err := ctrl.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新资料失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, userVO, "资料更新成功")
}

// ListPointLogs 查询本人积分流水
// @Summary      获取积分流水
// @Tags         users (用户)
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} vo.BaseResponseWrapper "积分流水列表"
// @Router       /api/v1/community/users/me/points [get]
func (ctrl *UserController) ListPointLogs(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	logs, total, err := ctrl.pointsService.ListLogs(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取积分流水失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, gin.H{"logs": logs, "total": total}, "积分流水获取成功")
}

// RegisterRoutes 注册用户资料相关路由。
func (ctrl *UserController) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/users/:userId", ctrl.GetProfile) // GET /api/v1/community/users/:userId

	me := authed.Group("/users/me")
	{
		me.PUT("", ctrl.UpdateProfile)       // PUT /api/v1/community/users/me
		me.GET("/points", ctrl.ListPointLogs) // GET /api/v1/community/users/me/points
	}
}
