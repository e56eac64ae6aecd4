package enums

// BadgeTier 用户徽章等级，完全由累计积分派生（admin 除外，仅由管理端指定）。
type BadgeTier int

const (
	TierNew         BadgeTier = 0 // 新手
	TierContributor BadgeTier = 1 // 贡献者
	TierVip         BadgeTier = 2 // VIP
	TierExpert      BadgeTier = 3 // 专家
	TierAdmin       BadgeTier = 4 // 管理员（不参与积分派生）
)

// Label 返回徽章的展示标签，与客户端约定保持一致。
func (t BadgeTier) Label() string {
	switch t {
	case TierContributor:
		return "contributor"
	case TierVip:
		return "vip"
	case TierExpert:
		return "expert"
	case TierAdmin:
		return "admin"
	default:
		return "new"
	}
}
