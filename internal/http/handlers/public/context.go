package public

import (
	handlershared "github.com/florarie-simona/internal/http/handlers/shared"
	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// shopFromContext 获取当前会话的引擎，首次访问时创建并恢复状态
func (h *Handler) shopFromContext(c *gin.Context) (*service.ShopService, bool) {
	sessionID, ok := handlershared.GetShopSessionID(c)
	if !ok {
		return nil, false
	}
	shop, err := h.SessionManager.Open(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, response.CodeUnauthorized, "error.session_not_found", nil)
		return nil, false
	}
	return shop, true
}
