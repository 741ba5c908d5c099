package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/florarie-simona/internal/config"
	handlershared "github.com/florarie-simona/internal/http/handlers/shared"
	"github.com/florarie-simona/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func newTestTokens() *service.SessionTokenService {
	return service.NewSessionTokenService(config.SessionConfig{SecretKey: "test-secret", ExpireHours: 1})
}

func TestShopSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens := newTestTokens()
	r := gin.New()
	r.Use(ShopSessionMiddleware(tokens))
	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": c.GetString(handlershared.ShopSessionContextKey)})
	})

	token, _, err := tokens.Issue("sess-abc")
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	cases := []struct {
		name       string
		header     string
		wantStatus float64
		wantID     string
	}{
		{name: "missing", header: "", wantStatus: 401},
		{name: "wrong_scheme", header: "Basic " + token, wantStatus: 401},
		{name: "garbage", header: "Bearer not-a-jwt", wantStatus: 401},
		{name: "foreign_secret", header: "Bearer " + foreignToken(t), wantStatus: 401},
		{name: "valid", header: "Bearer " + token, wantID: "sess-abc"},
		{name: "lowercase_scheme", header: "bearer " + token, wantID: "sess-abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			var resp map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response failed: %v", err)
			}
			if tc.wantID != "" {
				if resp["session_id"] != tc.wantID {
					t.Fatalf("session id want %s got %v", tc.wantID, resp["session_id"])
				}
				return
			}
			if resp["status_code"] != tc.wantStatus {
				t.Fatalf("status_code want %v got %v", tc.wantStatus, resp["status_code"])
			}
		})
	}
}

func TestShopSessionMiddlewareWithoutTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ShopSessionMiddleware(nil))
	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("handler must not run without token service")
	}
}

func foreignToken(t *testing.T) string {
	t.Helper()
	other := service.NewSessionTokenService(config.SessionConfig{SecretKey: "other-secret"})
	token, _, err := other.Issue("sess-abc")
	if err != nil {
		t.Fatalf("issue foreign token failed: %v", err)
	}
	return token
}

func TestBearerToken(t *testing.T) {
	if _, ok := bearerToken("Bearer "); ok {
		t.Fatalf("empty bearer token should be rejected")
	}
	if got, ok := bearerToken("  Bearer abc "); !ok || got != "abc" {
		t.Fatalf("unexpected token %q ok=%v", got, ok)
	}
}
