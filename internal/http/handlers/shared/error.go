package shared

import (
	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 按文案 key 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	respond(c, response.WrapError(code, Message(key), err))
}

// RespondErrorWithData 返回带附加数据的错误响应。
func RespondErrorWithData(c *gin.Context, code int, key string, data interface{}, args ...interface{}) {
	respond(c, response.WrapError(code, Message(key, args...), nil).WithData(data))
}

func respond(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", appErr.Err,
		)
	}
	response.AppErrorResponse(c, appErr)
}
