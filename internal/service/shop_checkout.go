package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/florarie-simona/internal/constants"
	"github.com/florarie-simona/internal/models"
	"github.com/florarie-simona/internal/repository"
)

// OrderDraft 结账预览（只读）
type OrderDraft struct {
	Items     []models.CartLineItem   `json:"items"`
	ItemCount int                     `json:"item_count"`
	Subtotal  int64                   `json:"subtotal"`
	Shipping  int64                   `json:"shipping"`
	Total     int64                   `json:"total"`
	Address   *models.ShippingAddress `json:"address,omitempty"`
}

// BuildOrderDraft 基于当前购物车与配送地址生成订单草稿
func (s *ShopService) BuildOrderDraft(ctx context.Context) (*OrderDraft, error) {
	items := s.Cart()
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	draft := &OrderDraft{Items: items}
	for _, item := range items {
		draft.ItemCount += item.Quantity
		draft.Subtotal += item.Subtotal()
	}
	addr, err := s.ShippingAddress(ctx)
	if err != nil {
		s.log().Warnw("shop_shipping_address_unreadable", "error", err)
		addr = nil
	}
	draft.Address = addr
	draft.Shipping = s.opts.Shipping.CostFor(addr)
	draft.Total = draft.Subtotal + draft.Shipping
	return draft, nil
}

// CheckoutService 结账协作方：维护配送地址并在下单后清空购物车
type CheckoutService struct {
	records repository.ShopRecordRepository
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(records repository.ShopRecordRepository) *CheckoutService {
	return &CheckoutService{records: records}
}

// SaveShippingAddress 保存配送地址
func (c *CheckoutService) SaveShippingAddress(ctx context.Context, shop *ShopService, addr models.ShippingAddress) error {
	if shop == nil {
		return ErrShopSessionNotFound
	}
	addr = normalizeShippingAddress(addr)
	if addr.City == "" {
		return ErrShippingAddressInvalid
	}
	payload, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	return c.records.Set(ctx, shop.SessionID(), constants.ShopKeyShippingAddress, string(payload))
}

// Complete 生成订单草稿并清空购物车
func (c *CheckoutService) Complete(ctx context.Context, shop *ShopService) (*OrderDraft, ShopOutcome, error) {
	if shop == nil {
		return nil, ShopOutcome{}, ErrShopSessionNotFound
	}
	draft, err := shop.BuildOrderDraft(ctx)
	if err != nil {
		return nil, ShopOutcome{}, err
	}
	if draft.Address == nil {
		return nil, ShopOutcome{}, ErrShippingAddressInvalid
	}
	outcome := shop.ClearCart(ctx)
	if err := outcome.Err(); err != nil {
		return nil, outcome, err
	}
	return draft, outcome, nil
}

func normalizeShippingAddress(addr models.ShippingAddress) models.ShippingAddress {
	addr.Name = strings.TrimSpace(addr.Name)
	addr.Phone = strings.TrimSpace(addr.Phone)
	addr.Email = strings.TrimSpace(addr.Email)
	addr.Street = strings.TrimSpace(addr.Street)
	addr.City = strings.TrimSpace(addr.City)
	addr.County = strings.TrimSpace(addr.County)
	addr.PostalCode = strings.TrimSpace(addr.PostalCode)
	addr.Notes = strings.TrimSpace(addr.Notes)
	return addr
}
