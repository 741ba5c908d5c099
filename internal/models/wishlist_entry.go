package models

// WishlistEntry 心愿单条目
type WishlistEntry struct {
	ProductID string   `json:"productId"` // 商品ID，心愿单内唯一
	Name      string   `json:"name"`      // 商品名称
	Price     int64    `json:"price"`     // 单价（最小货币单位）
	Images    []string `json:"images"`    // 图片列表
}

// Clone 深拷贝
func (e WishlistEntry) Clone() WishlistEntry {
	cloned := e
	if e.Images != nil {
		cloned.Images = append([]string(nil), e.Images...)
	}
	return cloned
}
