package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/florarie-simona/internal/constants"
	"github.com/florarie-simona/internal/models"
)

// ShippingPolicy 运费策略：指定地区免运费，其余固定运费
type ShippingPolicy struct {
	FlatCost   int64
	FreeCities []string
}

// DefaultShippingPolicy 默认运费策略
func DefaultShippingPolicy() ShippingPolicy {
	cities := make([]string, len(constants.DefaultFreeDeliveryCities))
	copy(cities, constants.DefaultFreeDeliveryCities)
	return ShippingPolicy{
		FlatCost:   constants.DefaultShippingFlatCost,
		FreeCities: cities,
	}
}

func (p ShippingPolicy) isZero() bool {
	return p.FlatCost == 0 && len(p.FreeCities) == 0
}

// CostFor 计算地址对应运费；城市比较忽略大小写但不做模糊匹配
func (p ShippingPolicy) CostFor(addr *models.ShippingAddress) int64 {
	if addr == nil {
		return p.FlatCost
	}
	city := strings.TrimSpace(addr.City)
	if city == "" {
		return p.FlatCost
	}
	for _, free := range p.FreeCities {
		if strings.EqualFold(city, strings.TrimSpace(free)) {
			return 0
		}
	}
	return p.FlatCost
}

// PriceShipping 按已保存的配送地址计算运费，地址缺失或无法解析时收取固定运费
func (s *ShopService) PriceShipping(ctx context.Context) int64 {
	addr, err := s.ShippingAddress(ctx)
	if err != nil {
		s.log().Warnw("shop_shipping_address_unreadable", "error", err)
		return s.opts.Shipping.FlatCost
	}
	return s.opts.Shipping.CostFor(addr)
}

// ShippingAddress 读取已保存的配送地址，未保存时返回 nil
func (s *ShopService) ShippingAddress(ctx context.Context) (*models.ShippingAddress, error) {
	if s.records == nil {
		return nil, nil
	}
	raw, ok, err := s.records.Get(ctx, s.opts.SessionID, constants.ShopKeyShippingAddress)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var addr models.ShippingAddress
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		return nil, ErrMalformedPersistedRecord
	}
	return &addr, nil
}
