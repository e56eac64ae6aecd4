package dto

// RegisterRequest 注册请求
// - 添加了 binding 标签用于输入验证
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`    // 邮箱，必填
	Password string `json:"password" binding:"required,max=72"`       // 密码，必填（强度在服务层校验，便于返回本地化文案）
	Nickname string `json:"nickname" binding:"required,min=1,max=50"` // 昵称，必填
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,max=72"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
