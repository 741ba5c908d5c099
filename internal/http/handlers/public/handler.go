package public

import "github.com/florarie-simona/internal/provider"

// Handler 店铺前台接口处理器入口
// 说明：每个请求通过会话令牌定位到自己的引擎实例。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
