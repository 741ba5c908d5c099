package public

import (
	"time"

	"github.com/florarie-simona/internal/cache"
	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// PublicConfig 店铺公开配置
type PublicConfig struct {
	Currency           string       `json:"currency"`
	ShippingFlatCost   models.Money `json:"shipping_flat_cost"`
	FreeDeliveryCities []string     `json:"free_delivery_cities"`
	CartExpireDays     int          `json:"cart_expire_days"`
}

// GetConfig 获取店铺公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	var cached PublicConfig
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	shopCfg := h.Config.Shop
	cities := shopCfg.Shipping.FreeCities
	if cities == nil {
		cities = []string{}
	}
	data := PublicConfig{
		Currency:           "RON",
		ShippingFlatCost:   models.NewMoneyFromMinor(shopCfg.Shipping.FlatCost),
		FreeDeliveryCities: cities,
		CartExpireDays:     int(shopCfg.EnvelopeTTL() / (24 * time.Hour)),
	}
	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}
