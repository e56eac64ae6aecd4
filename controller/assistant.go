package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/service"
)

// AssistantController 定义 AI 助手控制器的结构体
type AssistantController struct {
	assistantService service.AssistantService
}

// NewAssistantController 构造函数，用于创建 AssistantController 实例
func NewAssistantController(assistantService service.AssistantService) *AssistantController {
	return &AssistantController{assistantService: assistantService}
}

// ProxyChat 代理 AI 聊天请求
// @Summary      AI 聊天代理
// @Description  把 chat-completions 风格的请求转发给上游模型服务，凭证由服务端持有；上游响应原样透传。
// @Tags         assistant (AI 助手)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChatProxyRequest true "聊天请求"
// @Success      200 {object} object "上游模型服务的原始响应"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误"
// @Failure      403 {object} vo.BaseResponseWrapper "AI 功能已关闭"
// @Failure      405 {object} object "方法不允许"
// @Failure      500 {object} vo.BaseResponseWrapper "服务端未配置上游凭证或调用失败"
// @Router       /api/v1/community/assistant/chat [post]
func (ctrl *AssistantController) ProxyChat(c *gin.Context) {
	var req dto.ChatProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	body, statusCode, err := ctrl.assistantService.ProxyChat(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrAIDisabled):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientInvalidInput, "AI 功能已关闭")
		case errors.Is(err, service.ErrMissingAICredential):
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "服务端未配置 AI 凭证")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "调用 AI 服务失败: "+err.Error())
		}
		return
	}

	// 上游响应整体透传，不包 BaseResponse，客户端按 chat-completions 协议解析。
	c.Data(statusCode, "application/json", body)
}

// MethodNotAllowed 非 POST 访问聊天代理时的应答。
// 返回 chat-completions 风格的错误结构，方便客户端 SDK 统一解析。
func (ctrl *AssistantController) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"error": gin.H{"message": "method not allowed, use POST"},
	})
}

// RegisterRoutes 注册 AI 助手路由，要求登录。
// 聊天代理只接受 POST，其余方法命中同路径时返回 405 而不是 404。
func (ctrl *AssistantController) RegisterRoutes(authed *gin.RouterGroup) {
	assistant := authed.Group("/assistant")
	{
		assistant.POST("/chat", ctrl.ProxyChat) // POST /api/v1/community/assistant/chat
		assistant.GET("/chat", ctrl.MethodNotAllowed)
		assistant.PUT("/chat", ctrl.MethodNotAllowed)
		assistant.DELETE("/chat", ctrl.MethodNotAllowed)
	}
}
