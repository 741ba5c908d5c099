package public

import (
	"github.com/florarie-simona/internal/http/response"

	handlershared "github.com/florarie-simona/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SessionResponse 会话令牌响应
type SessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	ExpiresAt int64  `json:"expires_at"`
}

// CreateSession 创建购物会话并签发令牌
func (h *Handler) CreateSession(c *gin.Context) {
	sessionID := h.SessionManager.NewSessionID()
	token, expiresAt, err := h.SessionTokens.Issue(sessionID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.session_issue_failed", err)
		return
	}
	if _, err := h.SessionManager.Open(c.Request.Context(), sessionID); err != nil {
		respondError(c, response.CodeInternal, "error.session_issue_failed", err)
		return
	}
	handlershared.RequestLog(c).Infow("shop_session_created", "session_id", sessionID)
	response.Success(c, SessionResponse{
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: expiresAt.Unix(),
	})
}

// DeleteSession 登出：回收会话引擎，本地持久化记录保留
func (h *Handler) DeleteSession(c *gin.Context) {
	sessionID, ok := handlershared.GetShopSessionID(c)
	if !ok {
		return
	}
	closed := h.SessionManager.Close(sessionID)
	response.Success(c, gin.H{"closed": closed})
}
