package dto

// UpdateProfileRequest 修改个人资料请求
// - 传 nil 表示不修改对应字段
type UpdateProfileRequest struct {
	Nickname  *string `json:"nickname" binding:"omitempty,min=1,max=50"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}
