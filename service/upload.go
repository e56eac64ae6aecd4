package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/dependencies"
)

// UploadService 定义了文件上传的业务逻辑接口。
type UploadService interface {
	// UploadFile 把 multipart 文件上传到对象存储，返回公开访问 URL。
	// - 对象键由服务端生成，用户提交的文件名只取扩展名。
	// - 整个上传使用独立的超时（constant.UploadTimeout），大文件慢速链路不会
	//   被网关层较短的请求超时切断。
	UploadFile(ctx context.Context, userID string, fileHeader *multipart.FileHeader) (string, error)
}

// uploadService 是 UploadService 接口的具体实现。
type uploadService struct {
	cosClient dependencies.COSClientInterface
	logger    *core.ZapLogger
}

// NewUploadService 是 uploadService 的构造函数。
func NewUploadService(cosClient dependencies.COSClientInterface, logger *core.ZapLogger) UploadService {
	return &uploadService{
		cosClient: cosClient,
		logger:    logger,
	}
}

// BuildObjectKey 生成对象键: uploads/YYYYMMDD/userID_uuid.ext。
// 扩展名统一小写；文件名的其余部分不进入路径，避免用户输入污染对象键。
func BuildObjectKey(originalFilename string, userID string, now time.Time) string {
	extension := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s%s/%s_%s%s",
		constant.COSObjectKeyPrefixUploads,
		now.Format("20060102"),
		userID,
		uuid.NewString(),
		extension,
	)
}

// UploadFile 上传文件。
func (s *uploadService) UploadFile(ctx context.Context, userID string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > constant.MaxUploadSizeBytes {
		return "", fmt.Errorf("文件大小 %d 超出上限 %d", fileHeader.Size, constant.MaxUploadSizeBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("打开上传文件失败", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return "", fmt.Errorf("打开上传文件 %s 失败: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := BuildObjectKey(fileHeader.Filename, userID, time.Now())

	uploadCtx, cancel := context.WithTimeout(ctx, constant.UploadTimeout)
	defer cancel()

	url, err := s.cosClient.UploadFile(uploadCtx, objectKey, file, fileHeader.Size, contentType)
	if err != nil {
		return "", err
	}
	return url, nil
}
