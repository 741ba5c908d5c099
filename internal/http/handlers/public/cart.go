package public

import (
	"strings"

	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/models"
	"github.com/florarie-simona/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求（字段与前端本地存储一致）
type CartItemRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	Name          string `json:"name"`
	Price         int64  `json:"price" binding:"gte=0"`
	Quantity      int    `json:"quantity"`
	Stock         *int   `json:"stock" binding:"omitempty,gte=0"`
	Image         string `json:"image"`
	IsExtra       bool   `json:"isExtra"`
	Category      string `json:"category"`
	CustomMessage string `json:"customMessage"`
}

// CartItemQuantityRequest 修改数量请求
type CartItemQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
	Stock    *int `json:"stock" binding:"omitempty,gte=0"`
}

// CartItemResponse 购物车项响应
type CartItemResponse struct {
	models.CartLineItem
	UnitPrice models.Money `json:"unit_price"`
	Subtotal  models.Money `json:"subtotal"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	Total      models.Money       `json:"total"`
	TotalMinor int64              `json:"total_minor"`
	Shipping   models.Money       `json:"shipping"`
	GrandTotal models.Money       `json:"grand_total"`
}

// OutcomeResponse 变更操作响应
type OutcomeResponse struct {
	Outcome   service.ShopOutcome `json:"outcome"`
	ItemCount int                 `json:"item_count"`
	Total     models.Money        `json:"total"`
}

func (r CartItemRequest) toLineItem() models.CartLineItem {
	return models.CartLineItem{
		ProductID:     strings.TrimSpace(r.ProductID),
		Name:          strings.TrimSpace(r.Name),
		Price:         r.Price,
		Quantity:      r.Quantity,
		Stock:         r.Stock,
		Image:         r.Image,
		IsExtra:       r.IsExtra,
		Category:      r.Category,
		CustomMessage: r.CustomMessage,
	}
}

// GetCart 获取购物车及金额汇总
func (h *Handler) GetCart(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	items := shop.Cart()
	respItems := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		respItems = append(respItems, CartItemResponse{
			CartLineItem: item,
			UnitPrice:    models.NewMoneyFromMinor(item.Price),
			Subtotal:     models.NewMoneyFromMinor(item.Subtotal()),
		})
	}
	total := shop.CartTotal()
	shipping := shop.PriceShipping(c.Request.Context())
	response.Success(c, CartResponse{
		Items:      respItems,
		ItemCount:  shop.CartItemCount(),
		Total:      models.NewMoneyFromMinor(total),
		TotalMinor: total,
		Shipping:   models.NewMoneyFromMinor(shipping),
		GrandTotal: models.NewMoneyFromMinor(total + shipping),
	})
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	respondOutcome(c, shop, shop.AddToCart(c.Request.Context(), req.toLineItem()))
}

// UpdateCartItem 修改购物车项数量，数量小于 1 时移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	var req CartItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item := models.CartLineItem{ProductID: c.Param("product_id"), Stock: req.Stock}
	respondOutcome(c, shop, shop.UpdateCartItemQuantity(c.Request.Context(), item, *req.Quantity))
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	item := models.CartLineItem{ProductID: c.Param("product_id")}
	respondOutcome(c, shop, shop.RemoveFromCart(c.Request.Context(), item))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	respondOutcome(c, shop, shop.ClearCart(c.Request.Context()))
}

// CartItemExists 商品是否已在购物车
func (h *Handler) CartItemExists(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"exists": shop.IsInCart(c.Param("product_id"))})
}

func respondOutcome(c *gin.Context, shop *service.ShopService, outcome service.ShopOutcome) {
	if outcome.Rejected() {
		respondOutcomeError(c, outcome)
		return
	}
	response.Success(c, OutcomeResponse{
		Outcome:   outcome,
		ItemCount: shop.CartItemCount(),
		Total:     models.NewMoneyFromMinor(shop.CartTotal()),
	})
}
