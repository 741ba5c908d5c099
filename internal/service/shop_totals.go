package service

// CartTotal 购物车总价（最小货币单位）
func (s *ShopService) CartTotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.cart {
		total += item.Subtotal()
	}
	return total
}

// CartItemCount 购物车商品件数
func (s *ShopService) CartItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.cart {
		count += item.Quantity
	}
	return count
}
