package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/middleware"
	"github.com/Xushengqwer/community_service/service"
)

// UploadController 定义文件上传控制器的结构体
type UploadController struct {
	uploadService service.UploadService
}

// NewUploadController 构造函数，用于创建 UploadController 实例
func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// UploadFile 上传文件
// @Summary      上传文件
// @Description  上传图片/音视频等文件到对象存储，返回公开访问 URL。对象键由服务端生成。
// @Tags         uploads (上传)
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "要上传的文件 (上限 50MB)"
// @Success      200 {object} vo.BaseResponseWrapper "上传成功，data.url 为访问地址"
// @Failure      400 {object} vo.BaseResponseWrapper "缺少文件或文件过大"
// @Router       /api/v1/community/uploads [post]
func (ctrl *UploadController) UploadFile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "请求中缺少 file 字段: "+err.Error())
		return
	}

	url, err := ctrl.uploadService.UploadFile(c.Request.Context(), userID, fileHeader)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "上传失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, gin.H{"url": url}, "上传成功")
}

// RegisterRoutes 注册上传路由，要求登录。
func (ctrl *UploadController) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/uploads", ctrl.UploadFile) // POST /api/v1/community/uploads
}
