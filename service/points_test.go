package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Xushengqwer/community_service/models/enums"
)

// 徽章档位完全由累计积分派生，边界值必须精确。
func TestBadgeTierForPoints(t *testing.T) {
	testCases := []struct {
		name     string
		points   int64
		expected enums.BadgeTier
	}{
		{name: "零分是新手", points: 0, expected: enums.TierNew},
		{name: "99分仍是新手", points: 99, expected: enums.TierNew},
		{name: "100分升贡献者", points: 100, expected: enums.TierContributor},
		{name: "499分仍是贡献者", points: 499, expected: enums.TierContributor},
		{name: "500分升VIP", points: 500, expected: enums.TierVip},
		{name: "999分仍是VIP", points: 999, expected: enums.TierVip},
		{name: "1000分升专家", points: 1000, expected: enums.TierExpert},
		{name: "超高分仍是专家", points: 100000, expected: enums.TierExpert},
		{name: "负分按新手处理", points: -10, expected: enums.TierNew},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, BadgeTierForPoints(tc.points))
		})
	}
}

// 积分换算永远不会产出管理员档位。
func TestBadgeTierForPointsNeverAdmin(t *testing.T) {
	for _, points := range []int64{0, 100, 500, 1000, 1 << 40} {
		assert.NotEqual(t, enums.TierAdmin, BadgeTierForPoints(points), "points=%d", points)
	}
}
