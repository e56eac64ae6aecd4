package dto

// CreateCommunityRequest 创建社区请求
type CreateCommunityRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=64"` // 社区名，唯一
	Description string   `json:"description" binding:"omitempty,max=2000"`
	CoverURL    string   `json:"cover_url" binding:"omitempty,url"`
	AvatarURL   string   `json:"avatar_url" binding:"omitempty,url"`
	Tags        []string `json:"tags" binding:"omitempty,max=10"`
}

// ListCommunitiesRequest 社区列表分页参数
type ListCommunitiesRequest struct {
	Page     int `form:"page" binding:"required,gte=1"`
	PageSize int `form:"page_size" binding:"required,gt=0,lte=100"`
}
