package router

import (
	"fmt"
	"strings"

	"github.com/florarie-simona/internal/cache"
	"github.com/florarie-simona/internal/config"
	publichandlers "github.com/florarie-simona/internal/http/handlers/public"
	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/logger"
	"github.com/florarie-simona/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fs"
	}
	sessionRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:session", redisPrefix),
		WindowSeconds: cfg.Security.SessionRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SessionRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{
			"status":   "ok",
			"sessions": c.SessionManager.Len(),
		})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
		}

		shop := apiV1.Group("/shop")
		{
			shop.POST("/session", RateLimitMiddleware(cache.Client(), sessionRule, KeyByIP), publicHandler.CreateSession)
		}

		// 会话接口
		session := shop.Group("")
		session.Use(ShopSessionMiddleware(c.SessionTokens))
		{
			session.DELETE("/session", publicHandler.DeleteSession)

			session.GET("/cart", publicHandler.GetCart)
			session.DELETE("/cart", publicHandler.ClearCart)
			session.POST("/cart/items", publicHandler.AddCartItem)
			session.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			session.DELETE("/cart/items/:product_id", publicHandler.DeleteCartItem)
			session.GET("/cart/items/:product_id/exists", publicHandler.CartItemExists)

			session.GET("/wishlist", publicHandler.GetWishlist)
			session.POST("/wishlist/items", publicHandler.AddWishlistItem)
			session.DELETE("/wishlist/items/:product_id", publicHandler.DeleteWishlistItem)
			session.GET("/wishlist/items/:product_id/exists", publicHandler.WishlistItemExists)

			session.PUT("/shipping-address", publicHandler.SaveShippingAddress)
			session.GET("/shipping", publicHandler.GetShipping)
			session.GET("/checkout/preview", publicHandler.PreviewCheckout)
			session.POST("/checkout/complete", publicHandler.CompleteCheckout)

			session.GET("/notifications", publicHandler.GetNotifications)
		}
	}

	return r
}
