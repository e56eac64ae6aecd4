package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// 认证相关错误，由服务层返回，控制器据此映射响应码
var (
	// ErrEmailTaken 注册邮箱已被占用
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrWeakPassword 密码不满足最低强度要求
	ErrWeakPassword = errors.New("auth: password too weak")
	// ErrAccountNotFound 账号不存在
	ErrAccountNotFound = errors.New("auth: account not found")
	// ErrWrongPassword 密码错误
	ErrWrongPassword = errors.New("auth: wrong password")
	// ErrUserBanned 账号已被封禁
	ErrUserBanned = errors.New("auth: user banned")
	// ErrInvalidToken 令牌无效或已过期
	ErrInvalidToken = errors.New("auth: invalid or expired token")
	// ErrRegistrationClosed 系统设置中已关闭注册
	ErrRegistrationClosed = errors.New("auth: registration closed")
)

// 业务规则错误
var (
	// ErrAlreadyMember 重复加入社区
	ErrAlreadyMember = errors.New("community: already a member")
	// ErrNotMember 未加入社区时执行需要成员身份的操作
	ErrNotMember = errors.New("community: not a member")
	// ErrSelfConversation 不允许与自己建立会话
	ErrSelfConversation = errors.New("conversation: cannot open conversation with self")
	// ErrNotParticipant 非会话参与者访问会话资源
	ErrNotParticipant = errors.New("conversation: not a participant")
	// ErrAIDisabled 系统设置中已关闭 AI 功能
	ErrAIDisabled = errors.New("assistant: ai features disabled")
	// ErrUnauthorized 无权限执行该操作（非作者且非管理员）
	ErrUnauthorized = errors.New("unauthorized: operation not permitted")
)
