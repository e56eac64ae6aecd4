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

// PostController 定义帖子控制器的结构体
type PostController struct {
	postService    service.PostService
	hotPostService service.HotPostService
}

// NewPostController 构造函数，用于创建 PostController 实例
func NewPostController(postService service.PostService, hotPostService service.HotPostService) *PostController {
	return &PostController{
		postService:    postService,
		hotPostService: hotPostService,
	}
}

// CreatePost 发布新帖子
// @Summary      发布帖子
// @Description  创建一条新帖子。作者信息取自登录态；指定社区时要求发帖人已加入该社区。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreatePostRequest true "帖子内容"
// @Success      200 {object} vo.PostResponseWrapper "发布成功"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误"
// @Failure      403 {object} vo.BaseResponseWrapper "不是社区成员"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/community/posts [post]
func (ctrl *PostController) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}
	if !req.Category.Valid() {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子分类")
		return
	}

	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	postVO, err := ctrl.postService.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrNotMember):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientInvalidInput, "尚未加入该社区")
		case errors.Is(err, myErrors.ErrUserBanned):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "账号已被封禁，无法发帖")
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "社区不存在")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "发布帖子失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess(c, postVO, "帖子发布成功")
}

// GetTimeline 获取信息流 (游标分页)
// @Summary      获取信息流 (公开)
// @Description  按时间倒序的帖子信息流，支持分类和社区筛选；登录用户会额外返回 IsLiked。
// @Tags         posts (帖子)
// @Produce      json
// @Param        category query string false "分类 (status/qna/blog/document/game)"
// @Param        community_id query uint64 false "社区ID" minimum(1)
// @Param        last_created_at query string false "上一页最后一条记录的创建时间 (RFC3339)" format(date-time)
// @Param        last_post_id query uint64 false "上一页最后一条记录的帖子ID" minimum(1)
// @Param        page_size query int true "每页数量" minimum(1) maximum(100) default(10)
// @Success      200 {object} vo.TimelinePageResponseWrapper "成功响应，包含帖子列表和下一页游标"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/community/posts/timeline [get]
func (ctrl *PostController) GetTimeline(c *gin.Context) {
	var query dto.TimelineQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}
	if query.Category != nil && !query.Category.Valid() {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子分类")
		return
	}

	pageVO, err := ctrl.postService.GetTimeline(c.Request.Context(), middleware.CurrentUserID(c), &query)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取信息流失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, pageVO, "信息流获取成功")
}

// GetHotPosts 获取热门帖子
// @Summary      获取热门帖子 (公开)
// @Description  按点赞数排序的热门帖子榜单，走 Redis 缓存。
// @Tags         posts (帖子)
// @Produce      json
// @Param        limit query int false "数量上限" minimum(1) maximum(20) default(20)
// @Success      200 {object} vo.TimelinePageResponseWrapper "热门帖子列表"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/community/posts/hot [get]
func (ctrl *PostController) GetHotPosts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 limit，必须是正整数")
			return
		}
		limit = parsed
	}

	posts, err := ctrl.hotPostService.GetHotPosts(c.Request.Context(), middleware.CurrentUserID(c), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索热门帖子失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, posts, "热门帖子检索成功")
}

// GetPostByID 获取单个帖子
// @Summary      获取帖子详情 (公开)
// @Tags         posts (帖子)
// @Produce      json
// @Param        id path uint64 true "帖子ID"
// @Success      200 {object} vo.PostResponseWrapper "帖子详情"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/community/posts/{id} [get]
func (ctrl *PostController) GetPostByID(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	postVO, err := ctrl.postService.GetPostByID(c.Request.Context(), postID, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取帖子失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, postVO, "帖子获取成功")
}

// GetUserPosts 获取指定用户的帖子列表 (游标分页)
// @Summary      获取用户帖子列表 (公开)
// @Tags         posts (帖子)
// @Produce      json
// @Param        userId path string true "用户ID"
// @Param        cursor query uint64 false "上一页最后一条的帖子ID"
// @Param        page_size query int false "每页数量" default(10)
// @Success      200 {object} vo.TimelinePageResponseWrapper "用户帖子列表"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/community/users/{userId}/posts [get]
func (ctrl *PostController) GetUserPosts(c *gin.Context) {
	targetUserID := c.Param("userId")

	var cursor *uint64
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 cursor 格式")
			return
		}
		cursor = &parsed
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	posts, nextCursor, err := ctrl.postService.GetUserPosts(c.Request.Context(), targetUserID, middleware.CurrentUserID(c), cursor, pageSize)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取用户帖子列表失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, gin.H{"posts": posts, "next_cursor": nextCursor}, "用户帖子列表获取成功")
}

// TogglePostLike 点赞/取消赞
// @Summary      帖子点赞切换
// @Description  已赞则取消，未赞则点赞；返回切换后的状态与计数。
// @Tags         posts (帖子)
// @Produce      json
// @Security     BearerAuth
// @Param        id path uint64 true "帖子ID"
// @Success      200 {object} vo.BaseResponseWrapper "切换成功"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/community/posts/{id}/like [post]
func (ctrl *PostController) TogglePostLike(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	result, err := ctrl.postService.TogglePostLike(c.Request.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "点赞操作失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, result, "点赞操作成功")
}

// DeletePost 删除帖子
// @Summary      删除帖子
// @Description  软删除。仅作者本人或管理员可操作。
// @Tags         posts (帖子)
// @Produce      json
// @Security     BearerAuth
// @Param        id path uint64 true "帖子ID"
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      403 {object} vo.BaseResponseWrapper "无权操作"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/community/posts/{id} [delete]
func (ctrl *PostController) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}
	userID := middleware.CurrentUserID(c)
	isAdmin := c.GetBool("is_admin")

	if err := ctrl.postService.DeletePost(c.Request.Context(), postID, userID, isAdmin); err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		case errors.Is(err, myErrors.ErrUnauthorized):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "只有作者或管理员可以删除帖子")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除帖子失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess[any](c, nil, "帖子删除成功")
}

// RegisterRoutes 注册帖子相关路由。
func (ctrl *PostController) RegisterRoutes(public, authed *gin.RouterGroup) {
	posts := public.Group("/posts")
	{
		posts.GET("/timeline", ctrl.GetTimeline) // GET /api/v1/community/posts/timeline
		posts.GET("/hot", ctrl.GetHotPosts)      // GET /api/v1/community/posts/hot
		posts.GET(":id", ctrl.GetPostByID)       // GET /api/v1/community/posts/:id
	}
	public.GET("/users/:userId/posts", ctrl.GetUserPosts) // GET /api/v1/community/users/:userId/posts

	authedPosts := authed.Group("/posts")
	{
		authedPosts.POST("", ctrl.CreatePost)           // POST /api/v1/community/posts
		authedPosts.POST(":id/like", ctrl.TogglePostLike) // POST /api/v1/community/posts/:id/like
		authedPosts.DELETE(":id", ctrl.DeletePost)      // DELETE /api/v1/community/posts/:id
	}
}
