package public

import (
	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/notify"

	handlershared "github.com/florarie-simona/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// GetNotifications 读取并清空当前会话的提示
func (h *Handler) GetNotifications(c *gin.Context) {
	sessionID, ok := handlershared.GetShopSessionID(c)
	if !ok {
		return
	}
	if h.ToastFeed == nil {
		response.Success(c, gin.H{"items": []notify.Toast{}})
		return
	}
	toasts, err := h.ToastFeed.Drain(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.notifications_fetch_failed", err)
		return
	}
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	response.Success(c, gin.H{"items": toasts})
}
