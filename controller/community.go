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
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/service"
)

// CommunityController 定义社区控制器的结构体
type CommunityController struct {
	communityService service.CommunityService
}

// NewCommunityController 构造函数，用于创建 CommunityController 实例
func NewCommunityController(communityService service.CommunityService) *CommunityController {
	return &CommunityController{communityService: communityService}
}

// CreateCommunity 创建社区
// @Summary      创建社区
// @Description  创建新社区，创建者自动成为 owner 成员。
// @Tags         communities (社区)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCommunityRequest true "社区信息"
// @Success      200 {object} vo.BaseResponseWrapper "创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误或社区名已存在"
// @Router       /api/v1/community/communities [post]
func (ctrl *CommunityController) CreateCommunity(c *gin.Context) {
	var req dto.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	communityVO, err := ctrl.communityService.CreateCommunity(c.Request.Context(), userID, &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建社区失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, communityVO, "社区创建成功")
}

// GetCommunity 获取社区详情
// @Summary      获取社区详情 (公开)
// @Tags         communities (社区)
// @Produce      json
// @Param        id path uint64 true "社区ID"
// @Success      200 {object} vo.BaseResponseWrapper "社区详情"
// @Failure      404 {object} vo.BaseResponseWrapper "社区不存在"
// @Router       /api/v1/community/communities/{id} [get]
func (ctrl *CommunityController) GetCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的社区 ID 格式")
		return
	}

	communityVO, err := ctrl.communityService.GetCommunity(c.Request.Context(), communityID, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "社区不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取社区失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, communityVO, "社区获取成功")
}

// ListCommunities 社区列表
// @Summary      获取社区列表 (公开)
// @Description  按成员数降序分页；登录用户会额外返回 IsMember。
// @Tags         communities (社区)
// @Produce      json
// @Param        page query int true "页码" minimum(1)
// @Param        page_size query int true "每页数量" minimum(1) maximum(100)
// @Success      200 {object} vo.CommunityPageResponseWrapper "社区列表"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误"
// @Router       /api/v1/community/communities [get]
func (ctrl *CommunityController) ListCommunities(c *gin.Context) {
	var req dto.ListCommunitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	pageVO, err := ctrl.communityService.ListCommunities(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取社区列表失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, pageVO, "社区列表获取成功")
}

// JoinCommunity 加入社区
// @Summary      加入社区
// @Tags         communities (社区)
// @Produce      json
// @Security     BearerAuth
// @Param        id path uint64 true "社区ID"
// @Success      200 {object} vo.BaseResponseWrapper "加入成功"
// @Failure      400 {object} vo.BaseResponseWrapper "已是社区成员"
// @Failure      404 {object} vo.BaseResponseWrapper "社区不存在"
// @Router       /api/v1/community/communities/{id}/join [post]
func (ctrl *CommunityController) JoinCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的社区 ID 格式")
		return
	}
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	if err := ctrl.communityService.JoinCommunity(c.Request.Context(), communityID, userID); err != nil {
		switch {
		case errors.Is(err, myErrors.ErrAlreadyMember):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "已经是该社区成员")
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "社区不存在")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "加入社区失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess[any](c, nil, "加入社区成功")
}

// LeaveCommunity 退出社区
// @Summary      退出社区
// @Description  未加入时幂等返回成功。
// @Tags         communities (社区)
// @Produce      json
// @Security     BearerAuth
// @Param        id path uint64 true "社区ID"
// @Success      200 {object} vo.BaseResponseWrapper "退出成功"
// @Router       /api/v1/community/communities/{id}/leave [post]
func (ctrl *CommunityController) LeaveCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的社区 ID 格式")
		return
	}
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	if err := ctrl.communityService.LeaveCommunity(c.Request.Context(), communityID, userID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "退出社区失败: "+err.Error())
		return
	}
	response.RespondSuccess[any](c, nil, "退出社区成功")
}

// RegisterRoutes 注册社区相关路由。
func (ctrl *CommunityController) RegisterRoutes(public, authed *gin.RouterGroup) {
	communities := public.Group("/communities")
	{
		communities.GET("", ctrl.ListCommunities) // GET /api/v1/community/communities
		communities.GET(":id", ctrl.GetCommunity) // GET /api/v1/community/communities/:id
	}

	authedCommunities := authed.Group("/communities")
	{
		authedCommunities.POST("", ctrl.CreateCommunity)         // POST /api/v1/community/communities
		authedCommunities.POST(":id/join", ctrl.JoinCommunity)   // POST /api/v1/community/communities/:id/join
		authedCommunities.POST(":id/leave", ctrl.LeaveCommunity) // POST /api/v1/community/communities/:id/leave
	}
}
