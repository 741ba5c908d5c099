package public

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/florarie-simona/internal/config"
	"github.com/florarie-simona/internal/constants"
	handlershared "github.com/florarie-simona/internal/http/handlers/shared"
	"github.com/florarie-simona/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cfg, err := config.LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	cfg.Shop.Storage = constants.ShopStorageMemory
	return New(provider.NewContainer(cfg))
}

func newTestEngine(h *Handler, sessionID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sessionID != "" {
			c.Set(handlershared.ShopSessionContextKey, sessionID)
		}
		c.Next()
	})
	r.GET("/config", h.GetConfig)
	r.POST("/session", h.CreateSession)
	r.DELETE("/session", h.DeleteSession)
	r.GET("/cart", h.GetCart)
	r.DELETE("/cart", h.ClearCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PUT("/cart/items/:product_id", h.UpdateCartItem)
	r.DELETE("/cart/items/:product_id", h.DeleteCartItem)
	r.GET("/cart/items/:product_id/exists", h.CartItemExists)
	r.GET("/wishlist", h.GetWishlist)
	r.POST("/wishlist/items", h.AddWishlistItem)
	r.DELETE("/wishlist/items/:product_id", h.DeleteWishlistItem)
	r.GET("/wishlist/items/:product_id/exists", h.WishlistItemExists)
	r.PUT("/shipping-address", h.SaveShippingAddress)
	r.GET("/shipping", h.GetShipping)
	r.GET("/checkout/preview", h.PreviewCheckout)
	r.POST("/checkout/complete", h.CompleteCheckout)
	r.GET("/notifications", h.GetNotifications)
	return r
}

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) apiResponse {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, w.Code)
	}
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: decode response failed: %v body=%s", method, path, err, w.Body.String())
	}
	return resp
}

func decodeData(t *testing.T, resp apiResponse, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dest); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(resp.Data))
	}
}

func TestCartFlow(t *testing.T) {
	h := newTestHandler(t)
	r := newTestEngine(h, "sess-cart")

	resp := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{
		"productId": "b1", "name": "Buchet trandafiri", "price": 15000, "quantity": 2, "stock": 3,
	})
	if resp.StatusCode != 0 {
		t.Fatalf("add failed: %+v", resp)
	}
	var added struct {
		Outcome struct {
			Kind     string `json:"kind"`
			Quantity int    `json:"quantity"`
			Changed  bool   `json:"changed"`
		} `json:"outcome"`
		ItemCount int    `json:"item_count"`
		Total     string `json:"total"`
	}
	decodeData(t, resp, &added)
	if added.Outcome.Kind != constants.ShopOutcomeAdded || added.ItemCount != 2 || added.Total != "300.00" {
		t.Fatalf("unexpected add response: %+v", added)
	}

	resp = doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"productId": "b1", "price": 15000, "quantity": 2, "stock": 3})
	if resp.StatusCode != 409 {
		t.Fatalf("expected stock conflict, got %+v", resp)
	}
	var conflict struct {
		ProductID   string `json:"product_id"`
		MaxQuantity int    `json:"max_quantity"`
	}
	decodeData(t, resp, &conflict)
	if conflict.ProductID != "b1" || conflict.MaxQuantity != 3 {
		t.Fatalf("unexpected conflict data: %+v", conflict)
	}

	resp = doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"productId": "x1", "name": "Felicitare", "price": 500, "isExtra": true})
	if resp.StatusCode != 0 {
		t.Fatalf("add extra failed: %+v", resp)
	}

	resp = doJSON(t, r, http.MethodGet, "/cart", nil)
	var cart struct {
		Items []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
			UnitPrice string `json:"unit_price"`
			Subtotal  string `json:"subtotal"`
		} `json:"items"`
		ItemCount  int    `json:"item_count"`
		Total      string `json:"total"`
		TotalMinor int64  `json:"total_minor"`
		Shipping   string `json:"shipping"`
		GrandTotal string `json:"grand_total"`
	}
	decodeData(t, resp, &cart)
	if len(cart.Items) != 2 || cart.Items[0].Subtotal != "300.00" || cart.Items[1].Quantity != 1 {
		t.Fatalf("unexpected cart items: %+v", cart.Items)
	}
	if cart.ItemCount != 3 || cart.TotalMinor != 30500 || cart.Shipping != "20.00" || cart.GrandTotal != "325.00" {
		t.Fatalf("unexpected cart totals: %+v", cart)
	}

	resp = doJSON(t, r, http.MethodPut, "/cart/items/b1", gin.H{"quantity": 0})
	var updated struct {
		Outcome struct {
			Kind string `json:"kind"`
		} `json:"outcome"`
		ItemCount int `json:"item_count"`
	}
	decodeData(t, resp, &updated)
	if updated.Outcome.Kind != constants.ShopOutcomeRemoved || updated.ItemCount != 1 {
		t.Fatalf("expected removal via zero quantity, got %+v", updated)
	}

	resp = doJSON(t, r, http.MethodGet, "/cart/items/b1/exists", nil)
	var exists struct {
		Exists bool `json:"exists"`
	}
	decodeData(t, resp, &exists)
	if exists.Exists {
		t.Fatalf("b1 should be gone")
	}

	resp = doJSON(t, r, http.MethodDelete, "/cart", nil)
	decodeData(t, resp, &updated)
	if updated.Outcome.Kind != constants.ShopOutcomeCleared || updated.ItemCount != 0 {
		t.Fatalf("expected cleared cart, got %+v", updated)
	}
}

func TestCartValidation(t *testing.T) {
	h := newTestHandler(t)
	r := newTestEngine(h, "sess-validate")

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{name: "missing_product", method: http.MethodPost, path: "/cart/items", body: gin.H{"price": 100}, want: 400},
		{name: "blank_product", method: http.MethodPost, path: "/cart/items", body: gin.H{"productId": "   ", "price": 100}, want: 400},
		{name: "negative_price", method: http.MethodPost, path: "/cart/items", body: gin.H{"productId": "a", "price": -1}, want: 400},
		{name: "quantity_required", method: http.MethodPut, path: "/cart/items/a", body: gin.H{}, want: 400},
		{name: "wishlist_missing_product", method: http.MethodPost, path: "/wishlist/items", body: gin.H{"name": "x"}, want: 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, r, tc.method, tc.path, tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("status_code want %d got %d (%s)", tc.want, resp.StatusCode, resp.Msg)
			}
		})
	}
}

func TestMissingSessionIsUnauthorized(t *testing.T) {
	h := newTestHandler(t)
	r := newTestEngine(h, "")

	for _, path := range []string{"/cart", "/wishlist", "/shipping", "/notifications"} {
		resp := doJSON(t, r, http.MethodGet, path, nil)
		if resp.StatusCode != 401 {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestWishlistFlow(t *testing.T) {
	h := newTestHandler(t)
	r := newTestEngine(h, "sess-wish")

	body := gin.H{"productId": "w1", "name": "Orhidee", "price": 22000, "images": []string{"o.jpg"}}
	first := doJSON(t, r, http.MethodPost, "/wishlist/items", body)
	second := doJSON(t, r, http.MethodPost, "/wishlist/items", body)
	var out struct {
		Outcome struct {
			Kind string `json:"kind"`
		} `json:"outcome"`
		Count int `json:"count"`
	}
	decodeData(t, first, &out)
	if out.Outcome.Kind != constants.ShopOutcomeSaved || out.Count != 1 {
		t.Fatalf("unexpected first add: %+v", out)
	}
	decodeData(t, second, &out)
	if out.Outcome.Kind != constants.ShopOutcomeAlreadySaved || out.Count != 1 {
		t.Fatalf("expected duplicate to be unchanged: %+v", out)
	}

	resp := doJSON(t, r, http.MethodGet, "/wishlist", nil)
	var list struct {
		Items []struct {
			ProductID    string `json:"productId"`
			DisplayPrice string `json:"display_price"`
		} `json:"items"`
	}
	decodeData(t, resp, &list)
	if len(list.Items) != 1 || list.Items[0].DisplayPrice != "220.00" {
		t.Fatalf("unexpected wishlist: %+v", list)
	}

	resp = doJSON(t, r, http.MethodDelete, "/wishlist/items/w1", nil)
	decodeData(t, resp, &out)
	if out.Outcome.Kind != constants.ShopOutcomeRemoved || out.Count != 0 {
		t.Fatalf("unexpected removal: %+v", out)
	}
}

func TestCheckoutFlow(t *testing.T) {
	h := newTestHandler(t)
	r := newTestEngine(h, "sess-checkout")

	resp := doJSON(t, r, http.MethodGet, "/checkout/preview", nil)
	if resp.StatusCode != 400 {
		t.Fatalf("expected empty cart error, got %+v", resp)
	}

	doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"productId": "b1", "name": "Buchet", "price": 10000, "quantity": 1})

	resp = doJSON(t, r, http.MethodPut, "/shipping-address", gin.H{"name": "Ana"})
	if resp.StatusCode != 400 {
		t.Fatalf("expected city required, got %+v", resp)
	}
	resp = doJSON(t, r, http.MethodPut, "/shipping-address", gin.H{"name": "Ana", "city": "roman"})
	var saved struct {
		Saved    bool   `json:"saved"`
		Shipping string `json:"shipping"`
	}
	decodeData(t, resp, &saved)
	if !saved.Saved || saved.Shipping != "0.00" {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	resp = doJSON(t, r, http.MethodGet, "/checkout/preview", nil)
	var draft struct {
		ItemCount int    `json:"item_count"`
		Subtotal  string `json:"subtotal"`
		Shipping  string `json:"shipping"`
		Total     string `json:"total"`
		Address   *struct {
			City string `json:"city"`
		} `json:"address"`
	}
	decodeData(t, resp, &draft)
	if draft.ItemCount != 1 || draft.Total != "100.00" || draft.Shipping != "0.00" || draft.Address == nil {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	resp = doJSON(t, r, http.MethodPost, "/checkout/complete", nil)
	if resp.StatusCode != 0 {
		t.Fatalf("complete failed: %+v", resp)
	}
	resp = doJSON(t, r, http.MethodGet, "/cart", nil)
	var cart struct {
		ItemCount int `json:"item_count"`
	}
	decodeData(t, resp, &cart)
	if cart.ItemCount != 0 {
		t.Fatalf("expected empty cart after checkout, got %d", cart.ItemCount)
	}
}

func TestNotificationsDrain(t *testing.T) {
	h := newTestHandler(t)
	r := newTestEngine(h, "sess-toast")

	done := make(chan struct{})
	go func() {
		_ = h.Dispatcher.Start(context.Background())
		close(done)
	}()

	doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"productId": "b1", "name": "Lalele", "price": 100})
	doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"productId": "b2", "name": "Crini", "price": 100, "quantity": 5, "stock": 2})

	if err := h.Dispatcher.Stop(context.Background()); err != nil {
		t.Fatalf("stop dispatcher failed: %v", err)
	}
	<-done

	resp := doJSON(t, r, http.MethodGet, "/notifications", nil)
	var feed struct {
		Items []struct {
			Level string `json:"level"`
		} `json:"items"`
	}
	decodeData(t, resp, &feed)
	if len(feed.Items) != 2 {
		t.Fatalf("expected two toasts, got %+v", feed.Items)
	}

	resp = doJSON(t, r, http.MethodGet, "/notifications", nil)
	decodeData(t, resp, &feed)
	if len(feed.Items) != 0 {
		t.Fatalf("feed should be drained, got %+v", feed.Items)
	}
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestHandler(t)
	r := newTestEngine(h, "")

	resp := doJSON(t, r, http.MethodPost, "/session", nil)
	var created SessionResponse
	decodeData(t, resp, &created)
	if created.Token == "" || created.SessionID == "" || created.ExpiresAt == 0 {
		t.Fatalf("unexpected session response: %+v", created)
	}
	claims, err := h.SessionTokens.Parse(created.Token)
	if err != nil || claims.SessionID != created.SessionID {
		t.Fatalf("token does not carry session id: %v", err)
	}
	if _, ok := h.SessionManager.Get(created.SessionID); !ok {
		t.Fatalf("engine should be open after session creation")
	}

	authed := newTestEngine(h, created.SessionID)
	resp = doJSON(t, authed, http.MethodDelete, "/session", nil)
	var closed struct {
		Closed bool `json:"closed"`
	}
	decodeData(t, resp, &closed)
	if !closed.Closed || h.SessionManager.Len() != 0 {
		t.Fatalf("expected session closed, len=%d", h.SessionManager.Len())
	}
}

func TestGetConfig(t *testing.T) {
	h := newTestHandler(t)
	r := newTestEngine(h, "")

	resp := doJSON(t, r, http.MethodGet, "/config", nil)
	var cfg PublicConfig
	var raw struct {
		ShippingFlatCost   string   `json:"shipping_flat_cost"`
		FreeDeliveryCities []string `json:"free_delivery_cities"`
		CartExpireDays     int      `json:"cart_expire_days"`
	}
	decodeData(t, resp, &raw)
	decodeData(t, resp, &cfg)
	if raw.ShippingFlatCost != "20.00" || raw.CartExpireDays != 7 || len(raw.FreeDeliveryCities) != 2 {
		t.Fatalf("unexpected config: %+v", raw)
	}
	if cfg.ShippingFlatCost.Minor() != 2000 {
		t.Fatalf("money should round trip, got %d", cfg.ShippingFlatCost.Minor())
	}
}
