package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/florarie-simona/internal/constants"
	"github.com/florarie-simona/internal/models"
)

// persistedCartLine 兼容缺少 quantity 的旧记录
type persistedCartLine struct {
	models.CartLineItem
	Quantity *int `json:"quantity"`
}

// hydrate 从持久化记录恢复状态，仅在构造时调用
func (s *ShopService) hydrate(ctx context.Context) {
	if s.records == nil {
		return
	}
	ns := s.opts.SessionID
	raw, ok, err := s.records.Get(ctx, ns, constants.ShopKeyTimestamp)
	if err != nil {
		s.log().Warnw("shop_hydrate_read_failed", "key", constants.ShopKeyTimestamp, "error", err)
		return
	}
	if !ok {
		return
	}

	savedAt, err := parseEpochMillis(raw)
	if err != nil {
		s.log().Warnw("shop_record_malformed",
			"key", constants.ShopKeyTimestamp,
			"error", fmt.Errorf("%w: %v", ErrMalformedPersistedRecord, err),
		)
		s.clearNamespace(ctx)
		return
	}
	if s.opts.Now().Sub(savedAt) > s.opts.Expiry {
		s.log().Infow("shop_envelope_expired", "saved_at", savedAt.UnixMilli())
		s.clearNamespace(ctx)
		return
	}

	s.cart = s.loadCart(ctx)
	s.wishlist = s.loadWishlist(ctx)
}

func (s *ShopService) loadCart(ctx context.Context) []models.CartLineItem {
	var lines []persistedCartLine
	if !s.readJSON(ctx, constants.ShopKeyCart, &lines) {
		return []models.CartLineItem{}
	}
	cart := make([]models.CartLineItem, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		item := line.CartLineItem
		item.ProductID = strings.TrimSpace(item.ProductID)
		if item.ProductID == "" {
			continue
		}
		item.Quantity = 1
		if line.Quantity != nil && *line.Quantity >= 1 {
			item.Quantity = *line.Quantity
		}
		if pos, exists := index[item.ProductID]; exists {
			cart[pos].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(cart)
		cart = append(cart, item)
	}

	bounded := cart[:0]
	for _, item := range cart {
		if item.Stock != nil {
			if *item.Stock < 1 {
				s.log().Infow("shop_hydrate_line_dropped", "product_id", item.ProductID, "stock", *item.Stock)
				continue
			}
			if item.Quantity > *item.Stock {
				s.log().Infow("shop_hydrate_line_capped", "product_id", item.ProductID, "quantity", item.Quantity, "stock", *item.Stock)
				item.Quantity = *item.Stock
			}
		}
		bounded = append(bounded, item)
	}
	return bounded
}

func (s *ShopService) loadWishlist(ctx context.Context) []models.WishlistEntry {
	var entries []models.WishlistEntry
	if !s.readJSON(ctx, constants.ShopKeyWishlist, &entries) {
		return []models.WishlistEntry{}
	}
	wishlist := make([]models.WishlistEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		entry.ProductID = strings.TrimSpace(entry.ProductID)
		if entry.ProductID == "" {
			continue
		}
		if _, exists := seen[entry.ProductID]; exists {
			continue
		}
		seen[entry.ProductID] = struct{}{}
		wishlist = append(wishlist, entry)
	}
	return wishlist
}

// readJSON 读取并解析单个键，失败时记录日志并返回 false
func (s *ShopService) readJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, ok, err := s.records.Get(ctx, s.opts.SessionID, key)
	if err != nil {
		s.log().Warnw("shop_hydrate_read_failed", "key", key, "error", err)
		return false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.log().Warnw("shop_record_malformed",
			"key", key,
			"error", fmt.Errorf("%w: %v", ErrMalformedPersistedRecord, err),
		)
		return false
	}
	return true
}

// persistLocked 写入 cart、wishlist、timestamp 三个键，调用方需持有锁
func (s *ShopService) persistLocked(ctx context.Context) {
	if s.records == nil {
		return
	}
	cartJSON, err := json.Marshal(s.cart)
	if err != nil {
		s.log().Errorw("shop_persist_failed", "key", constants.ShopKeyCart, "error", err)
		return
	}
	wishlistJSON, err := json.Marshal(s.wishlist)
	if err != nil {
		s.log().Errorw("shop_persist_failed", "key", constants.ShopKeyWishlist, "error", err)
		return
	}
	writes := []struct {
		key   string
		value string
	}{
		{constants.ShopKeyCart, string(cartJSON)},
		{constants.ShopKeyWishlist, string(wishlistJSON)},
		{constants.ShopKeyTimestamp, strconv.FormatInt(s.opts.Now().UnixMilli(), 10)},
	}
	for _, w := range writes {
		if err := s.records.Set(ctx, s.opts.SessionID, w.key, w.value); err != nil {
			s.log().Warnw("shop_persist_failed", "key", w.key, "error", err)
		}
	}
}

func (s *ShopService) clearNamespace(ctx context.Context) {
	if err := s.records.Clear(ctx, s.opts.SessionID); err != nil {
		s.log().Warnw("shop_namespace_clear_failed", "error", err)
	}
}

// parseEpochMillis 解析毫秒时间戳，兼容带引号的 JSON 字符串
func parseEpochMillis(raw string) (time.Time, error) {
	value := strings.Trim(strings.TrimSpace(raw), `"`)
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
