package constants

// 店铺本地持久化键（每个会话命名空间内独立存储）
const (
	ShopKeyCart            = "cart"
	ShopKeyWishlist        = "wishlist"
	ShopKeyTimestamp       = "timestamp"
	ShopKeyShippingAddress = "shippingAddress"
)

// 引擎操作结果类型
const (
	ShopOutcomeAdded              = "added"
	ShopOutcomeDuplicateMerged    = "duplicate_merged"
	ShopOutcomeStockLimitExceeded = "stock_limit_exceeded"
	ShopOutcomeRemoved            = "removed"
	ShopOutcomeUpdated            = "updated"
	ShopOutcomeCleared            = "cleared"
	ShopOutcomeSaved              = "saved"
	ShopOutcomeAlreadySaved       = "already_saved"
	ShopOutcomeUnchanged          = "unchanged"
	ShopOutcomeInvalid            = "invalid"
)

// 集合类型
const (
	ShopCollectionCart     = "cart"
	ShopCollectionWishlist = "wishlist"
)

// 店铺持久化后端
const (
	ShopStorageDatabase = "database"
	ShopStorageRedis    = "redis"
	ShopStorageMemory   = "memory"
)

// 通知投递方式
const (
	NotifyTransportDirect = "direct"
	NotifyTransportQueue  = "queue"
)

// 提示级别
const (
	ToastLevelSuccess = "success"
	ToastLevelInfo    = "info"
	ToastLevelWarning = "warning"
)

// 默认配送策略（金额单位：bani）
const (
	DefaultShippingFlatCost   = 2000
	DefaultEnvelopeExpireDays = 7
)

// DefaultFreeDeliveryCities 默认免运费地区
var DefaultFreeDeliveryCities = []string{"Tămășeni", "Roman"}

// 异步任务类型
const (
	TaskShopToast = "shop:toast"
)

// 队列名称
const (
	QueueDefault = "default"
)
