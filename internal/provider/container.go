package provider

import (
	"strings"
	"time"

	"github.com/florarie-simona/internal/cache"
	"github.com/florarie-simona/internal/config"
	"github.com/florarie-simona/internal/constants"
	"github.com/florarie-simona/internal/logger"
	"github.com/florarie-simona/internal/models"
	"github.com/florarie-simona/internal/notify"
	"github.com/florarie-simona/internal/queue"
	"github.com/florarie-simona/internal/repository"
	"github.com/florarie-simona/internal/service"
)

// Redis 记录在引擎过期判断之后再多保留一天
const redisRecordGrace = 24 * time.Hour

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ShopRecordRepo repository.ShopRecordRepository

	// Notifications
	ToastFeed  notify.ToastFeed
	Dispatcher *notify.Dispatcher

	// Services
	SessionManager  *service.ShopSessionManager
	SessionTokens   *service.SessionTokenService
	CheckoutService *service.CheckoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化通知链路
	c.initNotify()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	storage := strings.ToLower(strings.TrimSpace(c.Config.Shop.Storage))
	switch storage {
	case constants.ShopStorageRedis:
		if cache.Enabled() {
			c.ShopRecordRepo = repository.NewRedisShopRecordRepository(
				cache.Client(),
				cache.Prefix(),
				c.Config.Shop.EnvelopeTTL()+redisRecordGrace,
			)
			return
		}
		logger.Warnw("provider_shop_storage_fallback", "storage", storage, "fallback", constants.ShopStorageMemory, "reason", "redis_disabled")
		c.ShopRecordRepo = repository.NewMemoryShopRecordRepository()
	case constants.ShopStorageMemory:
		c.ShopRecordRepo = repository.NewMemoryShopRecordRepository()
	default:
		if models.DB == nil {
			logger.Warnw("provider_shop_storage_fallback", "storage", storage, "fallback", constants.ShopStorageMemory, "reason", "db_not_initialized")
			c.ShopRecordRepo = repository.NewMemoryShopRecordRepository()
			return
		}
		c.ShopRecordRepo = repository.NewShopRecordRepository(models.DB)
	}
}

func (c *Container) initNotify() {
	notifyCfg := c.Config.Shop.Notify
	if cache.Enabled() {
		c.ToastFeed = notify.NewRedisFeed(notifyCfg.FeedLimit, time.Duration(notifyCfg.FeedTTL)*time.Second)
	} else {
		c.ToastFeed = notify.NewMemoryFeed(notifyCfg.FeedLimit)
	}

	c.Dispatcher = notify.NewDispatcher(notifyCfg.Buffer, notify.LogSink())
	if c.UsesQueueTransport() {
		c.Dispatcher.Subscribe(notify.QueueSink(c.QueueClient))
		return
	}
	c.Dispatcher.Subscribe(notify.FeedSink(c.ToastFeed))
}

func (c *Container) initServices() {
	shopCfg := c.Config.Shop
	base := service.ShopOptions{
		Expiry: shopCfg.EnvelopeTTL(),
		Shipping: service.ShippingPolicy{
			FlatCost:   shopCfg.Shipping.FlatCost,
			FreeCities: shopCfg.Shipping.FreeCities,
		},
		Publisher:         c.Dispatcher,
		NotifyNoopRemoval: shopCfg.NotifyNoopRemoval,
	}
	c.SessionManager = service.NewShopSessionManager(c.ShopRecordRepo, base, c.Config.Session.IdleTimeout())
	if feed, ok := c.ToastFeed.(*notify.MemoryFeed); ok {
		c.SessionManager.OnClose(feed.Forget)
		feed.AcceptOnly(func(sessionID string) bool {
			_, open := c.SessionManager.Get(sessionID)
			return open
		})
	}
	c.SessionTokens = service.NewSessionTokenService(c.Config.Session)
	c.CheckoutService = service.NewCheckoutService(c.ShopRecordRepo)
}

// UsesQueueTransport 提示是否经由异步队列投递
func (c *Container) UsesQueueTransport() bool {
	if c == nil || c.Config == nil {
		return false
	}
	transport := strings.ToLower(strings.TrimSpace(c.Config.Shop.Notify.Transport))
	if transport != constants.NotifyTransportQueue {
		return false
	}
	if !c.QueueClient.Enabled() {
		logger.Warnw("provider_notify_transport_fallback", "transport", transport, "fallback", constants.NotifyTransportDirect)
		return false
	}
	return true
}
