package constant

import "time"

// 服务级常量
const (
	// ServiceName 用于链路追踪与日志标识
	ServiceName = "community_service"
	// ServiceVersion 当前服务版本
	ServiceVersion = "v1.0.0"
)

// 定时任务 cron 表达式
const (
	// MemberCountSyncCronSpec 社区成员数对账任务，每 10 分钟执行一次
	MemberCountSyncCronSpec = "*/10 * * * *"
	// HotPostsCacheCronSpec 热门帖子缓存刷新任务，每 5 分钟执行一次
	HotPostsCacheCronSpec = "*/5 * * * *"
)

// 对象存储相关常量
const (
	// COSObjectKeyPrefixUploads 上传文件在存储桶中的目录前缀
	COSObjectKeyPrefixUploads = "uploads/"
	// UploadTimeout 单次上传的总超时时间，覆盖大文件的慢速链路
	UploadTimeout = 120 * time.Second
	// MaxUploadSizeBytes 单文件上限 50MB
	MaxUploadSizeBytes = 50 << 20
)

// 分页与缓存规模
const (
	// DefaultTimelinePageSize 信息流默认每页条数
	DefaultTimelinePageSize = 10
	// MaxTimelinePageSize 信息流每页条数上限
	MaxTimelinePageSize = 50
	// DefaultMessagePageSize 会话消息默认拉取条数
	DefaultMessagePageSize = 50
	// HotPostsCacheSize 热门榜缓存的帖子数量
	HotPostsCacheSize = 20
	// SuggestionCacheTTL AI 建议缓存有效期
	SuggestionCacheTTL = 10 * time.Minute
	// SuggestionCount 每次生成的建议条数
	SuggestionCount = 3
)

// 积分规则
const (
	// PointsRegister 注册奖励
	PointsRegister = 50
	// PointsCreatePost 发帖奖励
	PointsCreatePost = 10
	// PointsAddComment 评论奖励
	PointsAddComment = 5
	// PointsLikeReceived 被赞奖励（记给被赞内容作者）
	PointsLikeReceived = 2
)
