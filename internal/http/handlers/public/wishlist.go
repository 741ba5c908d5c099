package public

import (
	"strings"

	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/models"

	"github.com/gin-gonic/gin"
)

// WishlistItemRequest 加入心愿单请求
type WishlistItemRequest struct {
	ProductID string   `json:"productId" binding:"required"`
	Name      string   `json:"name"`
	Price     int64    `json:"price" binding:"gte=0"`
	Images    []string `json:"images"`
}

// WishlistItemResponse 心愿单项响应
type WishlistItemResponse struct {
	models.WishlistEntry
	DisplayPrice models.Money `json:"display_price"`
}

// GetWishlist 获取心愿单
func (h *Handler) GetWishlist(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	entries := shop.Wishlist()
	items := make([]WishlistItemResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, WishlistItemResponse{
			WishlistEntry: entry,
			DisplayPrice:  models.NewMoneyFromMinor(entry.Price),
		})
	}
	response.Success(c, gin.H{"items": items})
}

// AddWishlistItem 加入心愿单
func (h *Handler) AddWishlistItem(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	var req WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	outcome := shop.AddToWishlist(c.Request.Context(), models.WishlistEntry{
		ProductID: strings.TrimSpace(req.ProductID),
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Images:    req.Images,
	})
	if outcome.Rejected() {
		respondOutcomeError(c, outcome)
		return
	}
	response.Success(c, gin.H{"outcome": outcome, "count": len(shop.Wishlist())})
}

// DeleteWishlistItem 从心愿单移除
func (h *Handler) DeleteWishlistItem(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	outcome := shop.RemoveFromWishlist(c.Request.Context(), c.Param("product_id"))
	if outcome.Rejected() {
		respondOutcomeError(c, outcome)
		return
	}
	response.Success(c, gin.H{"outcome": outcome, "count": len(shop.Wishlist())})
}

// WishlistItemExists 商品是否已在心愿单
func (h *Handler) WishlistItemExists(c *gin.Context) {
	shop, ok := h.shopFromContext(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"exists": shop.IsInWishlist(c.Param("product_id"))})
}
