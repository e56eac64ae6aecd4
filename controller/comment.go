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

// CommentController 定义评论控制器的结构体
type CommentController struct {
	commentService service.CommentService
}

// NewCommentController 构造函数，用于创建 CommentController 实例
func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// AddComment 追加评论
// @Summary      发表评论
// @Description  给帖子追加一条评论，并原子更新帖子评论数。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path uint64 true "帖子ID"
// @Param        request body dto.AddCommentRequest true "评论内容"
// @Success      200 {object} vo.BaseResponseWrapper "评论成功"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/community/posts/{id}/comments [post]
func (ctrl *CommentController) AddComment(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	commentVO, err := ctrl.commentService.AddComment(c.Request.Context(), postID, userID, &req)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "发表评论失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, commentVO, "评论成功")
}

// ListComments 评论列表 (时间正序)
// @Summary      获取帖子评论 (公开)
// @Tags         comments (评论)
// @Produce      json
// @Param        id path uint64 true "帖子ID"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} vo.BaseResponseWrapper "评论列表"
// @Router       /api/v1/community/posts/{id}/comments [get]
func (ctrl *CommentController) ListComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的帖子 ID 格式")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	comments, total, err := ctrl.commentService.ListComments(c.Request.Context(), postID, middleware.CurrentUserID(c), page, pageSize)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取评论失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, gin.H{"comments": comments, "total": total}, "评论获取成功")
}

// ToggleCommentLike 评论点赞切换
// @Summary      评论点赞切换
// @Tags         comments (评论)
// @Produce      json
// @Security     BearerAuth
// @Param        id path uint64 true "评论ID"
// @Success      200 {object} vo.BaseResponseWrapper "切换成功"
// @Failure      404 {object} vo.BaseResponseWrapper "评论不存在"
// @Router       /api/v1/community/comments/{id}/like [post]
func (ctrl *CommentController) ToggleCommentLike(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的评论 ID 格式")
		return
	}
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	result, err := ctrl.commentService.ToggleCommentLike(c.Request.Context(), commentID, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "评论不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "点赞操作失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, result, "点赞操作成功")
}

// DeleteComment 删除评论
// @Summary      删除评论
// @Description  仅评论作者或管理员可操作，帖子评论数同步回退。
// @Tags         comments (评论)
// @Produce      json
// @Security     BearerAuth
// @Param        id path uint64 true "评论ID"
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      403 {object} vo.BaseResponseWrapper "无权操作"
// @Failure      404 {object} vo.BaseResponseWrapper "评论不存在"
// @Router       /api/v1/community/comments/{id} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的评论 ID 格式")
		return
	}
	userID := middleware.CurrentUserID(c)
	isAdmin := c.GetBool("is_admin")

	if err := ctrl.commentService.DeleteComment(c.Request.Context(), commentID, userID, isAdmin); err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "评论不存在")
		case errors.Is(err, myErrors.ErrUnauthorized):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "只有作者或管理员可以删除评论")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除评论失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess[any](c, nil, "评论删除成功")
}

// RegisterRoutes 注册评论相关路由。
func (ctrl *CommentController) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/posts/:id/comments", ctrl.ListComments) // GET /api/v1/community/posts/:id/comments

	authed.POST("/posts/:id/comments", ctrl.AddComment) // POST /api/v1/community/posts/:id/comments
	comments := authed.Group("/comments")
	{
		comments.POST(":id/like", ctrl.ToggleCommentLike) // POST /api/v1/community/comments/:id/like
		comments.DELETE(":id", ctrl.DeleteComment)        // DELETE /api/v1/community/comments/:id
	}
}
