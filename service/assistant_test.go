package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSuggestionLines(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		max      int
		expected []string
	}{
		{
			name:     "普通三行",
			content:  "好的，明天见！\n辛苦啦\n周末一起带娃出去玩吗？",
			max:      3,
			expected: []string{"好的，明天见！", "辛苦啦", "周末一起带娃出去玩吗？"},
		},
		{
			name:     "去掉数字编号前缀",
			content:  "1. 好的\n2、没问题\n3) 收到",
			max:      3,
			expected: []string{"好的", "没问题", "收到"},
		},
		{
			name:     "去掉列表破折号前缀",
			content:  "- 好的\n- 没问题",
			max:      3,
			expected: []string{"好的", "没问题"},
		},
		{
			name:     "跳过空行",
			content:  "好的\n\n\n没问题\n",
			max:      3,
			expected: []string{"好的", "没问题"},
		},
		{
			name:     "超过上限只取前几条",
			content:  "一\n二\n三\n四\n五",
			max:      3,
			expected: []string{"一", "二", "三"},
		},
		{
			name:     "空输入返回空列表",
			content:  "",
			max:      3,
			expected: []string{},
		},
		{
			name:     "纯编号行被整行剔除",
			content:  "1.\n2. 有内容",
			max:      3,
			expected: []string{"有内容"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseSuggestionLines(tc.content, tc.max))
		})
	}
}
