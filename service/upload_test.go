package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildObjectKey(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	t.Run("对象键包含日期目录与用户ID", func(t *testing.T) {
		key := BuildObjectKey("photo.JPG", "user-1", now)
		assert.True(t, strings.HasPrefix(key, "uploads/20250615/user-1_"), key)
		assert.True(t, strings.HasSuffix(key, ".jpg"), "扩展名应统一小写: %s", key)
	})

	t.Run("无扩展名文件不带后缀", func(t *testing.T) {
		key := BuildObjectKey("README", "user-2", now)
		assert.False(t, strings.Contains(key, "."), key)
	})

	t.Run("文件名主体不进入对象键", func(t *testing.T) {
		key := BuildObjectKey("../../etc/passwd.png", "user-3", now)
		assert.NotContains(t, key, "passwd")
		assert.NotContains(t, key, "..")
	})

	t.Run("同名文件生成不同对象键", func(t *testing.T) {
		a := BuildObjectKey("a.png", "user-4", now)
		b := BuildObjectKey("a.png", "user-4", now)
		assert.NotEqual(t, a, b)
	})
}
