package middleware

import (
	"net/http"
	"strings"

	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
)

// adminFlagKey 管理员标记在 gin 上下文中的 Key。
const adminFlagKey = "is_admin"

// AuthMiddleware 校验 Authorization 头中的 Bearer 访问令牌，
// 并把 userID 写入上下文，供后续控制器通过 constants.UserIDKey 读取。
func AuthMiddleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "缺少访问令牌")
			c.Abort()
			return
		}

		claims, err := tm.ParseAccess(token)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "访问令牌无效或已过期")
			c.Abort()
			return
		}

		c.Set(string(constants.UserIDKey), claims.UserID)
		c.Set(adminFlagKey, claims.IsAdmin)
		c.Next()
	}
}

// OptionalAuthMiddleware 与 AuthMiddleware 类似，但缺少或无效的令牌不拦截请求。
// 用于公开接口（如信息流）：登录用户能看到个性化的 IsLiked 字段，游客照常浏览。
func OptionalAuthMiddleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token != "" {
			if claims, err := tm.ParseAccess(token); err == nil {
				c.Set(string(constants.UserIDKey), claims.UserID)
				c.Set(adminFlagKey, claims.IsAdmin)
			}
		}
		c.Next()
	}
}

// AdminOnlyMiddleware 仅放行管理员，必须排在 AuthMiddleware 之后。
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, _ := c.Get(adminFlagKey)
		if flag, ok := isAdmin.(bool); !ok || !flag {
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 从上下文取当前用户 ID，未登录返回空串。
func CurrentUserID(c *gin.Context) string {
	value, exists := c.Get(string(constants.UserIDKey))
	if !exists {
		return ""
	}
	userID, _ := value.(string)
	return userID
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
