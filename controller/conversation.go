package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/middleware"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/realtime"
	"github.com/Xushengqwer/community_service/service"
)

// upgrader 把 HTTP 连接升级为 websocket。
// 跨域校验交给网关层，这里放行所有来源。
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ConversationController 定义私信会话控制器的结构体
type ConversationController struct {
	convService      service.ConversationService
	assistantService service.AssistantService
	hub              *realtime.Hub
	logger           *core.ZapLogger
}

// NewConversationController 构造函数，用于创建 ConversationController 实例
func NewConversationController(
	convService service.ConversationService,
	assistantService service.AssistantService,
	hub *realtime.Hub,
	logger *core.ZapLogger,
) *ConversationController {
	return &ConversationController{
		convService:      convService,
		assistantService: assistantService,
		hub:              hub,
		logger:           logger,
	}
}

// OpenConversation 打开（或创建）会话
// @Summary      打开会话
// @Description  打开与指定用户的会话，不存在则创建；两端并发打开也只会得到同一条会话。打开即清零本人未读数。
// @Tags         conversations (私信)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.OpenConversationRequest true "对方用户ID"
// @Success      200 {object} vo.BaseResponseWrapper "会话详情"
// @Failure      400 {object} vo.BaseResponseWrapper "不能和自己对话"
// @Failure      404 {object} vo.BaseResponseWrapper "对方用户不存在"
// @Router       /api/v1/community/conversations [post]
func (ctrl *ConversationController) OpenConversation(c *gin.Context) {
	var req dto.OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	convVO, err := ctrl.convService.OpenConversation(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrSelfConversation):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "不能和自己发起会话")
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "对方用户不存在")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "打开会话失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess(c, convVO, "会话打开成功")
}

// ListConversations 会话列表
// @Summary      获取会话列表
// @Description  查询本人全部会话，按最近消息时间倒序，附带对方快照与未读数。
// @Tags         conversations (私信)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} vo.ConversationListResponseWrapper "会话列表"
// @Router       /api/v1/community/conversations [get]
func (ctrl *ConversationController) ListConversations(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	conversations, err := ctrl.convService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取会话列表失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, conversations, "会话列表获取成功")
}

// SendMessage 发送消息
// @Summary      发送私信
// @Description  向会话发送一条消息；落库后通过 websocket 向双方推送实时事件。
// @Tags         conversations (私信)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        convId path string true "会话ID"
// @Param        request body dto.SendMessageRequest true "消息内容"
// @Success      200 {object} vo.BaseResponseWrapper "发送成功"
// @Failure      403 {object} vo.BaseResponseWrapper "不是会话参与者"
// @Router       /api/v1/community/conversations/{convId}/messages [post]
func (ctrl *ConversationController) SendMessage(c *gin.Context) {
	convID := c.Param("convId")

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	messageVO, err := ctrl.convService.SendMessage(c.Request.Context(), convID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrNotParticipant):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "不是该会话的参与者")
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "会话不存在")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "发送消息失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess(c, messageVO, "消息发送成功")
}

// ListMessages 拉取消息历史
// @Summary      获取会话消息
// @Description  时间正序返回消息；before_id 用于向上翻页取更早的消息。
// @Tags         conversations (私信)
// @Produce      json
// @Security     BearerAuth
// @Param        convId path string true "会话ID"
// @Param        before_id query uint64 false "只取该消息之前的历史"
// @Param        limit query int false "数量上限" default(50)
// @Success      200 {object} vo.BaseResponseWrapper "消息列表"
// @Failure      403 {object} vo.BaseResponseWrapper "不是会话参与者"
// @Router       /api/v1/community/conversations/{convId}/messages [get]
func (ctrl *ConversationController) ListMessages(c *gin.Context) {
	convID := c.Param("convId")
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	var beforeID *uint64
	if raw := c.Query("before_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 before_id 格式")
			return
		}
		beforeID = &parsed
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	messages, err := ctrl.convService.ListMessages(c.Request.Context(), convID, userID, beforeID, limit)
	if err != nil {
		if errors.Is(err, myErrors.ErrNotParticipant) {
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "不是该会话的参与者")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取消息失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, messages, "消息获取成功")
}

// MarkRead 标记已读
// @Summary      标记会话已读
// @Description  将本人在该会话的未读数清零。
// @Tags         conversations (私信)
// @Produce      json
// @Security     BearerAuth
// @Param        convId path string true "会话ID"
// @Success      200 {object} vo.BaseResponseWrapper "标记成功"
// @Router       /api/v1/community/conversations/{convId}/read [post]
func (ctrl *ConversationController) MarkRead(c *gin.Context) {
	convID := c.Param("convId")
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	if err := ctrl.convService.MarkRead(c.Request.Context(), convID, userID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "标记已读失败: "+err.Error())
		return
	}
	response.RespondSuccess[any](c, nil, "标记已读成功")
}

// GetSuggestions 获取 AI 回复建议
// @Summary      获取回复建议
// @Description  为会话生成最多 3 条回复建议；AI 不可用时返回空列表而非报错。
// @Tags         conversations (私信)
// @Produce      json
// @Security     BearerAuth
// @Param        convId path string true "会话ID"
// @Success      200 {object} vo.SuggestionResponseWrapper "建议列表"
// @Failure      403 {object} vo.BaseResponseWrapper "不是会话参与者"
// @Router       /api/v1/community/conversations/{convId}/suggestions [get]
func (ctrl *ConversationController) GetSuggestions(c *gin.Context) {
	convID := c.Param("convId")
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	suggestions, err := ctrl.assistantService.GetSuggestions(c.Request.Context(), convID, userID)
	if err != nil {
		if errors.Is(err, myErrors.ErrNotParticipant) {
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "不是该会话的参与者")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取建议失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, &vo.SuggestionVO{Suggestions: suggestions}, "建议获取成功")
}

// ServeWS 建立 websocket 实时连接
// @Summary      建立实时连接
// @Description  升级为 websocket，连接后可通过 {"action":"subscribe","conv_id":"..."} 订阅会话事件；订阅会校验参与者身份。
// @Tags         conversations (私信)
// @Security     BearerAuth
// @Success      101 {string} string "协议切换"
// @Router       /api/v1/community/ws [get]
func (ctrl *ConversationController) ServeWS(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失败时已向客户端写了响应，这里只记录。
		ctrl.logger.Warn("websocket 升级失败", zap.Error(err), zap.String("userID", userID))
		return
	}

	client := realtime.NewClient(userID, conn)
	// 连接被劫持后请求上下文会随 handler 返回而取消，鉴权查询用独立上下文。
	client.Authorize = func(convID string, uid string) bool {
		authCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ctrl.convService.IsParticipant(authCtx, convID, uid)
	}

	ctrl.hub.Register(client)
	go client.WritePump()
	go client.ReadPump(ctrl.hub, ctrl.logger.Logger())
}

// RegisterRoutes 注册私信会话与实时连接路由，全部要求登录。
// ws 组不挂请求超时中间件，websocket 长连接不能被超时切断。
func (ctrl *ConversationController) RegisterRoutes(authed, ws *gin.RouterGroup) {
	conversations := authed.Group("/conversations")
	{
		conversations.POST("", ctrl.OpenConversation)                      // POST /api/v1/community/conversations
		conversations.GET("", ctrl.ListConversations)                      // GET /api/v1/community/conversations
		conversations.POST(":convId/messages", ctrl.SendMessage)           // POST /api/v1/community/conversations/:convId/messages
		conversations.GET(":convId/messages", ctrl.ListMessages)           // GET /api/v1/community/conversations/:convId/messages
		conversations.POST(":convId/read", ctrl.MarkRead)                  // POST /api/v1/community/conversations/:convId/read
		conversations.GET(":convId/suggestions", ctrl.GetSuggestions)      // GET /api/v1/community/conversations/:convId/suggestions
	}
	ws.GET("/ws", ctrl.ServeWS) // GET /api/v1/community/ws
}
