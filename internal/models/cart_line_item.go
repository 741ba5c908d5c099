package models

// CartLineItem 购物车行项目（价格为下单时快照，单位 bani）
type CartLineItem struct {
	ProductID     string `json:"productId"`               // 商品ID，购物车内唯一
	Name          string `json:"name"`                    // 商品名称快照
	Price         int64  `json:"price"`                   // 单价（最小货币单位）
	Quantity      int    `json:"quantity"`                // 数量，>= 1
	Stock         *int   `json:"stock,omitempty"`         // 库存上限，nil 表示不限
	Image         string `json:"image,omitempty"`         // 主图
	IsExtra       bool   `json:"isExtra"`                 // 是否为附加品（卡片、糖果等）
	Category      string `json:"category,omitempty"`      // 分类
	CustomMessage string `json:"customMessage,omitempty"` // 贺卡留言，原样透传
}

// HasStockLimit 是否存在库存上限
func (i CartLineItem) HasStockLimit() bool {
	return i.Stock != nil
}

// StockLimit 返回库存上限
func (i CartLineItem) StockLimit() int {
	if i.Stock == nil {
		return 0
	}
	return *i.Stock
}

// Subtotal 行小计
func (i CartLineItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Clone 深拷贝，避免快照与内部状态共享指针
func (i CartLineItem) Clone() CartLineItem {
	cloned := i
	if i.Stock != nil {
		stock := *i.Stock
		cloned.Stock = &stock
	}
	return cloned
}

// IntPtr 返回 int 指针，便于构造库存上限
func IntPtr(v int) *int {
	return &v
}
