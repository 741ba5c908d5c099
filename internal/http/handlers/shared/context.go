package shared

import (
	"strings"

	"github.com/florarie-simona/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ShopSessionContextKey 会话中间件写入的会话 ID
const ShopSessionContextKey = "shop_session_id"

// GetShopSessionID 从上下文读取会话 ID，缺失时直接返回 401。
func GetShopSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ShopSessionContextKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	sessionID, ok := value.(string)
	if !ok || strings.TrimSpace(sessionID) == "" {
		RespondError(c, response.CodeUnauthorized, "error.session_token_invalid", nil)
		return "", false
	}
	return sessionID, true
}
