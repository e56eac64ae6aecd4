package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/service"
)

// AdminController 定义管理端控制器的结构体
type AdminController struct {
	adminService service.AdminService
}

// NewAdminController 构造函数，用于创建 AdminController 实例
func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// GetDashboard 总览数据
// @Summary      管理端总览
// @Description  聚合用户/帖子/社区/消息总数与当前在线人数。
// @Tags         admin (管理端)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} vo.BaseResponseWrapper "总览数据"
// @Failure      403 {object} vo.BaseResponseWrapper "需要管理员权限"
// @Router       /api/v1/community/admin/dashboard [get]
func (ctrl *AdminController) GetDashboard(c *gin.Context) {
	dashboard, err := ctrl.adminService.GetDashboard(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取总览数据失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, dashboard, "总览数据获取成功")
}

// ListUsers 用户列表
// @Summary      管理端用户列表
// @Tags         admin (管理端)
// @Produce      json
// @Security     BearerAuth
// @Param        page query int true "页码" minimum(1)
// @Param        page_size query int true "每页数量" minimum(1) maximum(100)
// @Param        keyword query string false "按昵称/邮箱模糊搜索"
// @Success      200 {object} vo.BaseResponseWrapper "用户列表"
// @Router       /api/v1/community/admin/users [get]
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	pageVO, err := ctrl.adminService.ListUsers(c.Request.Context(), &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取用户列表失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, pageVO, "用户列表获取成功")
}

// BanUser 封禁用户
// @Summary      封禁用户
// @Tags         admin (管理端)
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "用户ID"
// @Success      200 {object} vo.BaseResponseWrapper "封禁成功"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Router       /api/v1/community/admin/users/{userId}/ban [post]
func (ctrl *AdminController) BanUser(c *gin.Context) {
	ctrl.setBanned(c, true, "用户已封禁")
}

// UnbanUser 解封用户
// @Summary      解封用户
// @Tags         admin (管理端)
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "用户ID"
// @Success      200 {object} vo.BaseResponseWrapper "解封成功"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Router       /api/v1/community/admin/users/{userId}/unban [post]
func (ctrl *AdminController) UnbanUser(c *gin.Context) {
	ctrl.setBanned(c, false, "用户已解封")
}

func (ctrl *AdminController) setBanned(c *gin.Context, banned bool, successMsg string) {
	userID := c.Param("userId")
	if err := ctrl.adminService.SetUserBanned(c.Request.Context(), userID, banned); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "操作失败: "+err.Error())
		return
	}
	response.RespondSuccess[any](c, nil, successMsg)
}

// GrantAdmin 授予管理员
// @Summary      授予管理员徽章
// @Description  管理员档位只能由此接口授予，不参与积分换算。
// @Tags         admin (管理端)
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "用户ID"
// @Success      200 {object} vo.BaseResponseWrapper "授予成功"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Router       /api/v1/community/admin/users/{userId}/grant-admin [post]
func (ctrl *AdminController) GrantAdmin(c *gin.Context) {
	userID := c.Param("userId")
	if err := ctrl.adminService.GrantAdmin(c.Request.Context(), userID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "用户不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "授予管理员失败: "+err.Error())
		return
	}
	response.RespondSuccess[any](c, nil, "已授予管理员徽章")
}

// GetSettings 读取系统设置
// @Summary      获取系统设置
// @Tags         admin (管理端)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} vo.BaseResponseWrapper "系统设置"
// @Router       /api/v1/community/admin/settings [get]
func (ctrl *AdminController) GetSettings(c *gin.Context) {
	settings, err := ctrl.adminService.GetSettings(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取系统设置失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, settings, "系统设置获取成功")
}

// UpdateSettings 更新系统设置
// @Summary      更新系统设置
// @Description  部分更新公告、注册开关、AI 开关，传 null 的字段保持不变。
// @Tags         admin (管理端)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateSettingsRequest true "要修改的设置项"
// @Success      200 {object} vo.BaseResponseWrapper "更新后的设置"
// @Router       /api/v1/community/admin/settings [put]
func (ctrl *AdminController) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	settings, err := ctrl.adminService.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新系统设置失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, settings, "系统设置更新成功")
}

// RegisterRoutes 注册管理端路由，要求登录且具备管理员徽章。
func (ctrl *AdminController) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/dashboard", ctrl.GetDashboard) // GET /api/v1/community/admin/dashboard
	users := admin.Group("/users")
	{
		users.GET("", ctrl.ListUsers)                       // GET /api/v1/community/admin/users
		users.POST(":userId/ban", ctrl.BanUser)             // POST /api/v1/community/admin/users/:userId/ban
		users.POST(":userId/unban", ctrl.UnbanUser)         // POST /api/v1/community/admin/users/:userId/unban
		users.POST(":userId/grant-admin", ctrl.GrantAdmin)  // POST /api/v1/community/admin/users/:userId/grant-admin
	}
	admin.GET("/settings", ctrl.GetSettings)    // GET /api/v1/community/admin/settings
	admin.PUT("/settings", ctrl.UpdateSettings) // PUT /api/v1/community/admin/settings
}
