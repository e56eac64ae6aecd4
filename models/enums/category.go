package enums

// PostCategory 帖子分类。
// - 存储为字符串而非整数，客户端直接以 Tab 名称筛选，避免一层映射。
type PostCategory string

const (
	CategoryStatus   PostCategory = "Status"   // 动态
	CategoryQnA      PostCategory = "QnA"      // 问答
	CategoryBlog     PostCategory = "Blog"     // 博客
	CategoryDocument PostCategory = "Document" // 资料
	CategoryGame     PostCategory = "Game"     // 游戏
)

// Valid 校验分类是否为已知值。
func (c PostCategory) Valid() bool {
	switch c {
	case CategoryStatus, CategoryQnA, CategoryBlog, CategoryDocument, CategoryGame:
		return true
	}
	return false
}
