package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/community_service/repo/redis"
)

// ErrMissingAICredential 服务端未配置上游 API Key。
var ErrMissingAICredential = errors.New("assistant: missing upstream api key")

// chatCompletionResponse 上游返回结构中本服务关心的部分。
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AssistantService 定义了 AI 助手相关的业务逻辑接口。
// 上游凭证只保存在服务端配置中，客户端请求不携带任何密钥。
type AssistantService interface {
	// ProxyChat 把聊天请求原样转发给上游模型服务，附上服务端保存的凭证。
	// - 返回上游的原始响应体与状态码，由控制器透传。
	// - 未配置 API Key 返回 ErrMissingAICredential。
	// - 系统设置关闭 AI 时返回 myErrors.ErrAIDisabled。
	ProxyChat(ctx context.Context, req *dto.ChatProxyRequest) (body []byte, statusCode int, err error)

	// GetSuggestions 为会话生成最多 3 条回复建议。
	// - 有对方消息时按上下文生成回复，否则生成 3 条开场白。
	// - 结果按 (convID, 最后消息ID) 缓存；任何失败都静默降级为空列表。
	GetSuggestions(ctx context.Context, convID string, userID string) ([]string, error)
}

// assistantService 是 AssistantService 接口的具体实现。
type assistantService struct {
	cfg         *config.AIConfig
	httpClient  *http.Client
	convRepo    mysql.ConversationRepository
	messageRepo mysql.MessageRepository
	systemRepo  mysql.SystemSettingRepository
	cache       redisrepo.SuggestionCache
	logger      *core.ZapLogger
}

// NewAssistantService 是 assistantService 的构造函数。
// httpClient 由调用方注入（main 中带 otelhttp Transport），便于测试替换。
func NewAssistantService(
	cfg *config.AIConfig,
	httpClient *http.Client,
	convRepo mysql.ConversationRepository,
	messageRepo mysql.MessageRepository,
	systemRepo mysql.SystemSettingRepository,
	cache redisrepo.SuggestionCache,
	logger *core.ZapLogger,
) AssistantService {
	if httpClient == nil {
		timeout := 30 * time.Second
		if cfg.TimeoutSecs > 0 {
			timeout = time.Duration(cfg.TimeoutSecs) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &assistantService{
		cfg:         cfg,
		httpClient:  httpClient,
		convRepo:    convRepo,
		messageRepo: messageRepo,
		systemRepo:  systemRepo,
		cache:       cache,
		logger:      logger,
	}
}

// ProxyChat 转发聊天请求。
func (s *assistantService) ProxyChat(ctx context.Context, req *dto.ChatProxyRequest) ([]byte, int, error) {
	settings, err := s.systemRepo.GetSettings(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !settings.AIEnabled {
		return nil, 0, myErrors.ErrAIDisabled
	}
	if s.cfg.APIKey == "" {
		return nil, 0, ErrMissingAICredential
	}

	if req.Model == "" {
		req.Model = s.cfg.Model
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(s.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Error("调用上游模型服务失败", zap.Error(err))
		return nil, 0, fmt.Errorf("调用上游模型服务失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// GetSuggestions 生成回复建议。
func (s *assistantService) GetSuggestions(ctx context.Context, convID string, userID string) ([]string, error) {
	if _, err := s.convRepo.GetParticipant(ctx, convID, userID); err != nil {
		return nil, myErrors.ErrNotParticipant
	}

	settings, err := s.systemRepo.GetSettings(ctx)
	if err != nil || !settings.AIEnabled || s.cfg.APIKey == "" {
		// 建议是锦上添花的功能，不可用时静默返回空列表。
		return []string{}, nil
	}

	// 取会话最近消息，定位最后一条对方消息。
	messages, err := s.messageRepo.ListRecentMessages(ctx, convID, nil, 10)
	if err != nil {
		s.logger.Warn("读取会话消息失败，建议降级为空", zap.Error(err), zap.String("convID", convID))
		return []string{}, nil
	}

	var lastMessageID uint64
	var lastPeerContent string
	if len(messages) > 0 {
		lastMessageID = messages[len(messages)-1].ID
		for i := len(messages) - 1; i >= 0; i-- {
			if messages[i].SenderID != userID {
				lastPeerContent = messages[i].Content
				break
			}
		}
	}

	if cached, err := s.cache.GetSuggestions(ctx, convID, lastMessageID); err == nil {
		return cached, nil
	} else if !errors.Is(err, myErrors.ErrCacheMiss) {
		s.logger.Warn("读取建议缓存失败", zap.Error(err), zap.String("convID", convID))
	}

	suggestions := s.generateSuggestions(ctx, lastPeerContent)
	if len(suggestions) > 0 {
		if err := s.cache.SetSuggestions(ctx, convID, lastMessageID, suggestions); err != nil {
			s.logger.Warn("写入建议缓存失败", zap.Error(err), zap.String("convID", convID))
		}
	}
	return suggestions, nil
}

// generateSuggestions 调上游模型生成建议，任何失败返回空列表。
func (s *assistantService) generateSuggestions(ctx context.Context, lastPeerContent string) []string {
	var prompt string
	if lastPeerContent != "" {
		prompt = fmt.Sprintf("对方刚发来这条私信：“%s”。请生成 %d 条简短、友好的中文回复，每行一条，不要编号。", lastPeerContent, constant.SuggestionCount)
	} else {
		prompt = fmt.Sprintf("请生成 %d 条适合向新朋友发起私信的简短中文开场白，每行一条，不要编号。", constant.SuggestionCount)
	}

	temperature := s.cfg.Temperature
	req := &dto.ChatProxyRequest{
		Model: s.cfg.Model,
		Messages: []dto.ChatMessage{
			{Role: "system", Content: "你是一个社区私信助手，帮助用户起草友好的回复。"},
			{Role: "user", Content: prompt},
		},
		Temperature: &temperature,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return []string{}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(s.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return []string{}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Warn("生成建议时调用上游失败", zap.Error(err))
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("生成建议时上游返回非200", zap.Int("status", resp.StatusCode))
		return []string{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []string{}
	}
	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil || len(completion.Choices) == 0 {
		return []string{}
	}

	return ParseSuggestionLines(completion.Choices[0].Message.Content, constant.SuggestionCount)
}

// ParseSuggestionLines 把模型输出按行拆成建议列表，去掉空行与序号前缀，最多取 max 条。
func ParseSuggestionLines(content string, max int) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, max)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.、-) ")
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}
