package models

// ShippingAddress 收货地址（由结账流程写入，购物车只读）
type ShippingAddress struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city"`
	County     string `json:"county,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Notes      string `json:"notes,omitempty"`
}
