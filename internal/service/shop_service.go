package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/florarie-simona/internal/constants"
	"github.com/florarie-simona/internal/logger"
	"github.com/florarie-simona/internal/models"
	"github.com/florarie-simona/internal/notify"
	"github.com/florarie-simona/internal/repository"

	"go.uber.org/zap"
)

// EventPublisher 结果事件发布者（非阻塞）
type EventPublisher interface {
	Publish(ev notify.Event) bool
}

// ShopOptions 引擎构造参数
type ShopOptions struct {
	SessionID         string
	Expiry            time.Duration
	Shipping          ShippingPolicy
	Publisher         EventPublisher
	NotifyNoopRemoval bool
	Now               func() time.Time
}

// ShopService 单个会话的购物车/心愿单状态引擎
type ShopService struct {
	mu       sync.Mutex
	records  repository.ShopRecordRepository
	opts     ShopOptions
	cart     []models.CartLineItem
	wishlist []models.WishlistEntry
	closed   bool
	lastUsed atomic.Int64
}

// NewShopService 创建引擎并从持久化记录恢复状态
func NewShopService(ctx context.Context, records repository.ShopRecordRepository, opts ShopOptions) *ShopService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Expiry <= 0 {
		opts.Expiry = time.Duration(constants.DefaultEnvelopeExpireDays) * 24 * time.Hour
	}
	if opts.Shipping.isZero() {
		opts.Shipping = DefaultShippingPolicy()
	}
	s := &ShopService{
		records:  records,
		opts:     opts,
		cart:     []models.CartLineItem{},
		wishlist: []models.WishlistEntry{},
	}
	s.touch()
	s.hydrate(ctx)
	return s
}

// SessionID 会话命名空间
func (s *ShopService) SessionID() string {
	return s.opts.SessionID
}

// LastUsed 最近一次访问时间
func (s *ShopService) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// Close 关闭引擎，之后的变更操作被忽略
func (s *ShopService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// AddToCart 加入购物车：已存在时合并数量，受库存上限约束
func (s *ShopService) AddToCart(ctx context.Context, item models.CartLineItem) ShopOutcome {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.ProductID == "" {
		return s.reject(invalidOutcome(constants.ShopCollectionCart))
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return s.mutate(ctx, constants.ShopCollectionCart, func() ShopOutcome {
		idx := s.cartIndex(item.ProductID)
		if idx < 0 {
			if item.HasStockLimit() && item.Quantity > item.StockLimit() {
				return stockLimitOutcome(item.ProductID, item.Name, item.StockLimit())
			}
			next := s.copyCart(len(s.cart) + 1)
			s.cart = append(next, item.Clone())
			return ShopOutcome{
				Kind:       OutcomeAdded,
				Collection: constants.ShopCollectionCart,
				ProductID:  item.ProductID,
				Name:       item.Name,
				Quantity:   item.Quantity,
				Changed:    true,
			}
		}

		newQty := s.cart[idx].Quantity + item.Quantity
		ceiling := item.Stock
		if ceiling == nil {
			ceiling = s.cart[idx].Stock
		}
		if ceiling != nil && newQty > *ceiling {
			return stockLimitOutcome(item.ProductID, s.cart[idx].Name, *ceiling)
		}
		next := s.copyCart(len(s.cart))
		next[idx].Quantity = newQty
		if item.Stock != nil {
			next[idx].Stock = models.IntPtr(*item.Stock)
		}
		s.cart = next
		return ShopOutcome{
			Kind:       OutcomeDuplicateMerged,
			Collection: constants.ShopCollectionCart,
			ProductID:  item.ProductID,
			Name:       next[idx].Name,
			Quantity:   newQty,
			Changed:    true,
		}
	})
}

// RemoveFromCart 从购物车移除；不存在时返回 Changed=false
func (s *ShopService) RemoveFromCart(ctx context.Context, item models.CartLineItem) ShopOutcome {
	productID := strings.TrimSpace(item.ProductID)
	return s.mutate(ctx, constants.ShopCollectionCart, func() ShopOutcome {
		return s.removeCartLocked(productID, item.Name)
	})
}

// UpdateCartItemQuantity 直接设置数量；数量小于 1 时等同移除
func (s *ShopService) UpdateCartItemQuantity(ctx context.Context, item models.CartLineItem, quantity int) ShopOutcome {
	productID := strings.TrimSpace(item.ProductID)
	return s.mutate(ctx, constants.ShopCollectionCart, func() ShopOutcome {
		if quantity < 1 {
			return s.removeCartLocked(productID, item.Name)
		}
		idx := s.cartIndex(productID)
		if idx < 0 {
			return ShopOutcome{Kind: OutcomeUnchanged, Collection: constants.ShopCollectionCart, ProductID: productID}
		}
		ceiling := item.Stock
		if ceiling == nil {
			ceiling = s.cart[idx].Stock
		}
		if ceiling != nil && quantity > *ceiling {
			return stockLimitOutcome(productID, s.cart[idx].Name, *ceiling)
		}
		if s.cart[idx].Quantity == quantity && item.Stock == nil {
			return ShopOutcome{
				Kind:       OutcomeUnchanged,
				Collection: constants.ShopCollectionCart,
				ProductID:  productID,
				Name:       s.cart[idx].Name,
				Quantity:   quantity,
			}
		}
		next := s.copyCart(len(s.cart))
		next[idx].Quantity = quantity
		if item.Stock != nil {
			next[idx].Stock = models.IntPtr(*item.Stock)
		}
		s.cart = next
		return ShopOutcome{
			Kind:       OutcomeUpdated,
			Collection: constants.ShopCollectionCart,
			ProductID:  productID,
			Name:       next[idx].Name,
			Quantity:   quantity,
			Changed:    true,
		}
	})
}

// ClearCart 清空购物车
func (s *ShopService) ClearCart(ctx context.Context) ShopOutcome {
	return s.mutate(ctx, constants.ShopCollectionCart, func() ShopOutcome {
		if len(s.cart) == 0 {
			return ShopOutcome{Kind: OutcomeUnchanged, Collection: constants.ShopCollectionCart}
		}
		s.cart = []models.CartLineItem{}
		return ShopOutcome{Kind: OutcomeCleared, Collection: constants.ShopCollectionCart, Changed: true}
	})
}

// AddToWishlist 加入心愿单；已存在时返回 AlreadySaved
func (s *ShopService) AddToWishlist(ctx context.Context, entry models.WishlistEntry) ShopOutcome {
	entry.ProductID = strings.TrimSpace(entry.ProductID)
	if entry.ProductID == "" {
		return s.reject(invalidOutcome(constants.ShopCollectionWishlist))
	}
	return s.mutate(ctx, constants.ShopCollectionWishlist, func() ShopOutcome {
		if s.wishlistIndex(entry.ProductID) >= 0 {
			return ShopOutcome{
				Kind:       OutcomeAlreadySaved,
				Collection: constants.ShopCollectionWishlist,
				ProductID:  entry.ProductID,
				Name:       entry.Name,
			}
		}
		next := make([]models.WishlistEntry, 0, len(s.wishlist)+1)
		for _, existing := range s.wishlist {
			next = append(next, existing.Clone())
		}
		s.wishlist = append(next, entry.Clone())
		return ShopOutcome{
			Kind:       OutcomeSaved,
			Collection: constants.ShopCollectionWishlist,
			ProductID:  entry.ProductID,
			Name:       entry.Name,
			Changed:    true,
		}
	})
}

// RemoveFromWishlist 从心愿单移除
func (s *ShopService) RemoveFromWishlist(ctx context.Context, productID string) ShopOutcome {
	productID = strings.TrimSpace(productID)
	return s.mutate(ctx, constants.ShopCollectionWishlist, func() ShopOutcome {
		idx := s.wishlistIndex(productID)
		if idx < 0 {
			return ShopOutcome{Kind: OutcomeUnchanged, Collection: constants.ShopCollectionWishlist, ProductID: productID}
		}
		removed := s.wishlist[idx]
		next := make([]models.WishlistEntry, 0, len(s.wishlist)-1)
		for i, existing := range s.wishlist {
			if i != idx {
				next = append(next, existing.Clone())
			}
		}
		s.wishlist = next
		return ShopOutcome{
			Kind:       OutcomeRemoved,
			Collection: constants.ShopCollectionWishlist,
			ProductID:  productID,
			Name:       removed.Name,
			Changed:    true,
		}
	})
}

// IsInCart 商品是否在购物车中
func (s *ShopService) IsInCart(productID string) bool {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartIndex(strings.TrimSpace(productID)) >= 0
}

// IsInWishlist 商品是否在心愿单中
func (s *ShopService) IsInWishlist(productID string) bool {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistIndex(strings.TrimSpace(productID)) >= 0
}

// Cart 购物车快照
func (s *ShopService) Cart() []models.CartLineItem {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyCart(len(s.cart))
}

// Wishlist 心愿单快照
func (s *ShopService) Wishlist() []models.WishlistEntry {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WishlistEntry, 0, len(s.wishlist))
	for _, entry := range s.wishlist {
		out = append(out, entry.Clone())
	}
	return out
}

// mutate 在锁内执行变更，提交后持久化，解锁后发布事件
func (s *ShopService) mutate(ctx context.Context, collection string, fn func() ShopOutcome) ShopOutcome {
	s.touch()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return closedOutcome(collection)
	}
	outcome := fn()
	if outcome.Changed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	s.publish(outcome)
	return outcome
}

func (s *ShopService) reject(outcome ShopOutcome) ShopOutcome {
	s.touch()
	s.publish(outcome)
	return outcome
}

func (s *ShopService) removeCartLocked(productID, name string) ShopOutcome {
	idx := s.cartIndex(productID)
	if idx < 0 {
		return ShopOutcome{
			Kind:       OutcomeRemoved,
			Collection: constants.ShopCollectionCart,
			ProductID:  productID,
			Name:       name,
		}
	}
	removed := s.cart[idx]
	next := make([]models.CartLineItem, 0, len(s.cart)-1)
	for i, existing := range s.cart {
		if i != idx {
			next = append(next, existing.Clone())
		}
	}
	s.cart = next
	return ShopOutcome{
		Kind:       OutcomeRemoved,
		Collection: constants.ShopCollectionCart,
		ProductID:  productID,
		Name:       removed.Name,
		Changed:    true,
	}
}

func (s *ShopService) publish(outcome ShopOutcome) {
	if s.opts.Publisher == nil || !s.shouldNotify(outcome) {
		return
	}
	s.opts.Publisher.Publish(notify.Event{
		SessionID:   s.opts.SessionID,
		Kind:        string(outcome.Kind),
		Collection:  outcome.Collection,
		ProductID:   outcome.ProductID,
		Name:        outcome.Name,
		Quantity:    outcome.Quantity,
		MaxQuantity: outcome.MaxQuantity,
		At:          s.opts.Now(),
	})
}

func (s *ShopService) shouldNotify(outcome ShopOutcome) bool {
	switch outcome.Kind {
	case OutcomeUnchanged, OutcomeInvalid:
		return false
	case OutcomeRemoved:
		return outcome.Changed || s.opts.NotifyNoopRemoval
	default:
		return true
	}
}

func (s *ShopService) touch() {
	s.lastUsed.Store(s.opts.Now().UnixNano())
}

func (s *ShopService) cartIndex(productID string) int {
	for i := range s.cart {
		if s.cart[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *ShopService) wishlistIndex(productID string) int {
	for i := range s.wishlist {
		if s.wishlist[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// copyCart 深拷贝购物车，容量至少为 capacity
func (s *ShopService) copyCart(capacity int) []models.CartLineItem {
	if capacity < len(s.cart) {
		capacity = len(s.cart)
	}
	out := make([]models.CartLineItem, 0, capacity)
	for _, item := range s.cart {
		out = append(out, item.Clone())
	}
	return out
}

func (s *ShopService) log() *zap.SugaredLogger {
	return logger.ForSession(s.opts.SessionID)
}
