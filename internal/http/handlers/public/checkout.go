package public

import (
	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/models"
	"github.com/florarie-simona/internal/service"

	"github.com/gin-gonic/gin"
)

// ShippingAddressRequest 配送地址请求
type ShippingAddressRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email" binding:"omitempty,email"`
	Street     string `json:"street"`
	City       string `json:"city" binding:"required"`
	County     string `json:"county"`
	PostalCode string `json:"postalCode"`
	Notes      string `json:"notes"`
}

// OrderDraftResponse 结账预览响应
type OrderDraftResponse struct {
	Items     []CartItemResponse      `json:"items"`
	ItemCount int                     `json:"item_count"`
	Subtotal  models.Money            `json:"subtotal"`
	Shipping  models.Money            `json:"shipping"`
	Total     models.Money            `json:"total"`
	Address   *models.ShippingAddress `json:"address,omitempty"`
}

func newOrderDraftResponse(draft *service.OrderDraft) OrderDraftResponse {
	items := make([]CartItemResponse, 0, len(draft.Items))
	for _, item := range draft.Items {
		items = append(items, CartItemResponse{
			CartLineItem: item,
			UnitPrice:    models.NewMoneyFromMinor(item.Price),
			Subtotal:     models.NewMoneyFromMinor(item.Subtotal()),
		})
	}
	return OrderDraftResponse{
		Items:     items,
		ItemCount: draft.ItemCount,
		Subtotal:  models.NewMoneyFromMinor(draft.Subtotal),
		Shipping:  models.NewMoneyFromMinor(draft.Shipping),
		Total:     models.NewMoneyFromMinor(draft.Total),
		Address:   draft.Address,
	}
}

// SaveShippingAddress 保存配送地址
func (h *Handler) SaveShippingAddress(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	var req ShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.shipping_address_invalid", nil)
		return
	}
	addr := models.ShippingAddress{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Street:     req.Street,
		City:       req.City,
		County:     req.County,
		PostalCode: req.PostalCode,
		Notes:      req.Notes,
	}
	if err := h.CheckoutService.SaveShippingAddress(c.Request.Context(), shop, addr); err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.shipping_address_save_failed")
		return
	}
	shipping := shop.PriceShipping(c.Request.Context())
	response.Success(c, gin.H{
		"saved":    true,
		"shipping": models.NewMoneyFromMinor(shipping),
	})
}

// GetShipping 计算运费
func (h *Handler) GetShipping(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	shipping := shop.PriceShipping(c.Request.Context())
	response.Success(c, gin.H{
		"shipping":       models.NewMoneyFromMinor(shipping),
		"shipping_minor": shipping,
		"free":           shipping == 0,
	})
}

// PreviewCheckout 结账预览
func (h *Handler) PreviewCheckout(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	draft, err := shop.BuildOrderDraft(c.Request.Context())
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, newOrderDraftResponse(draft))
}

// CompleteCheckout 下单完成后清空购物车
func (h *Handler) CompleteCheckout(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	draft, outcome, err := h.CheckoutService.Complete(c.Request.Context(), shop)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":   newOrderDraftResponse(draft),
		"outcome": outcome,
	})
}
