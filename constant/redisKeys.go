package constant

// Redis Key 相关常量 (导出)
const (
	// --- Key 前缀 (用于动态生成 Key) ---

	// RefreshTokenPrefix 是刷新令牌存储的 Key 前缀。
	// 每个用户会有一个对应的 String 类型的 Key，值为当前有效的刷新令牌。
	// 登出或刷新时覆盖/删除，实现服务端可控的令牌失效。
	// 示例 Key: "refresh_token:550e8400-..." (其中后缀是 userID)
	// Redis 类型: String
	RefreshTokenPrefix = "refresh_token:"

	// SuggestionCachePrefix 是 AI 回复建议缓存的 Key 前缀。
	// Key 由会话 ID 和该会话最后一条消息 ID 组合而成，
	// 任何新消息都会自然使旧 Key 失效（不再被读取）。
	// 示例 Key: "conv_suggest:u1_u2:42"
	// Redis 类型: String (JSON 数组)
	SuggestionCachePrefix = "conv_suggest:"

	// PostsHashKey 是热门帖子内容缓存的 Hash Key 名称。
	// Field 为 postID，Value 为帖子 VO 的 JSON 序列化结果。
	// 与 HotPostsRankKey 配套使用，由定时任务整体刷新。
	// Redis 类型: Hash
	PostsHashKey = "hot_posts"

	// --- 固定 Key 名称 (全局使用的 Key) ---

	// HotPostsRankKey 是热门帖子榜单的 Key 名称。
	// 这是一个 Sorted Set (ZSet)，成员是帖子 ID (postID)，分数是点赞数。
	// 由定时任务从数据库按点赞数截取 Top N 生成，供信息流首屏快速读取。
	// Redis 类型: Sorted Set
	HotPostsRankKey = "hot_post_rank"
)
