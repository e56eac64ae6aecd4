package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/myErrors"
)

// fakeSystemRepo 返回固定的系统设置，供代理转发测试使用。
type fakeSystemRepo struct {
	settings *entities.SystemSetting
	err      error
}

func (f *fakeSystemRepo) GetSettings(ctx context.Context) (*entities.SystemSetting, error) {
	return f.settings, f.err
}

func (f *fakeSystemRepo) UpdateSettings(ctx context.Context, announcement *string, registrationOpen *bool, aiEnabled *bool) (*entities.SystemSetting, error) {
	return f.settings, f.err
}

func TestProxyChatForwardsRequestWithServerCredential(t *testing.T) {
	var gotAuth string
	var gotPath string
	var gotReq dto.ChatProxyRequest

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"你好呀"}}]}`))
	}))
	defer upstream.Close()

	svc := &assistantService{
		cfg: &config.AIConfig{
			BaseURL: upstream.URL,
			APIKey:  "sk-server-side",
			Model:   "deepseek-chat",
		},
		httpClient: upstream.Client(),
		systemRepo: &fakeSystemRepo{settings: &entities.SystemSetting{AIEnabled: true}},
	}

	body, status, err := svc.ProxyChat(context.Background(), &dto.ChatProxyRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "你好"}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"choices":[{"message":{"content":"你好呀"}}]}`, string(body))

	assert.Equal(t, "Bearer sk-server-side", gotAuth, "凭证由服务端注入，不来自客户端请求")
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "deepseek-chat", gotReq.Model, "未指定模型时使用服务端默认模型")
}

func TestProxyChatPassesThroughUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer upstream.Close()

	svc := &assistantService{
		cfg:        &config.AIConfig{BaseURL: upstream.URL, APIKey: "sk-x", Model: "deepseek-chat"},
		httpClient: upstream.Client(),
		systemRepo: &fakeSystemRepo{settings: &entities.SystemSetting{AIEnabled: true}},
	}

	body, status, err := svc.ProxyChat(context.Background(), &dto.ChatProxyRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "你好"}},
	})
	require.NoError(t, err, "上游的业务错误原样透传，不转成本地错误")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Contains(t, string(body), "rate limited")
}

func TestProxyChatWhenAIDisabled(t *testing.T) {
	svc := &assistantService{
		cfg:        &config.AIConfig{APIKey: "sk-x"},
		systemRepo: &fakeSystemRepo{settings: &entities.SystemSetting{AIEnabled: false}},
	}

	_, _, err := svc.ProxyChat(context.Background(), &dto.ChatProxyRequest{})
	assert.ErrorIs(t, err, myErrors.ErrAIDisabled)
}

func TestProxyChatWithoutServerCredential(t *testing.T) {
	svc := &assistantService{
		cfg:        &config.AIConfig{APIKey: ""},
		systemRepo: &fakeSystemRepo{settings: &entities.SystemSetting{AIEnabled: true}},
	}

	_, _, err := svc.ProxyChat(context.Background(), &dto.ChatProxyRequest{})
	assert.ErrorIs(t, err, ErrMissingAICredential)
}
