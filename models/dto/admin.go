package dto

// ListUsersRequest 管理端用户列表分页参数
type ListUsersRequest struct {
	Page     int     `form:"page" binding:"required,gte=1"`
	PageSize int     `form:"page_size" binding:"required,gt=0,lte=100"`
	Keyword  *string `form:"keyword" binding:"omitempty,max=128"` // 按昵称/邮箱模糊搜索，可选
}

// UpdateSettingsRequest 更新系统设置请求
// - 传 nil 表示不修改对应字段
type UpdateSettingsRequest struct {
	Announcement     *string `json:"announcement" binding:"omitempty,max=512"`
	RegistrationOpen *bool   `json:"registration_open"`
	AIEnabled        *bool   `json:"ai_enabled"`
}
