package public

import (
	"errors"

	handlershared "github.com/florarie-simona/internal/http/handlers/shared"
	"github.com/florarie-simona/internal/http/response"
	"github.com/florarie-simona/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var shopOutcomeErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidShopItem, code: response.CodeBadRequest, key: "error.shop_item_invalid"},
	{target: service.ErrShopSessionClosed, code: response.CodeUnauthorized, key: "error.session_not_found"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrShippingAddressInvalid, code: response.CodeBadRequest, key: "error.shipping_address_invalid"},
	{target: service.ErrShopSessionNotFound, code: response.CodeUnauthorized, key: "error.session_not_found"},
	{target: service.ErrShopSessionClosed, code: response.CodeUnauthorized, key: "error.session_not_found"},
}

// respondOutcomeError 拒绝类结果：库存不足返回 409 及上限，其余按映射表处理
func respondOutcomeError(c *gin.Context, outcome service.ShopOutcome) {
	err := outcome.Err()
	var limitErr *service.StockLimitError
	if errors.As(err, &limitErr) {
		handlershared.RespondErrorWithData(c, response.CodeConflict, "error.stock_limit_exceeded", gin.H{
			"kind":         outcome.Kind,
			"product_id":   limitErr.ProductID,
			"max_quantity": limitErr.MaxQuantity,
		}, limitErr.MaxQuantity)
		return
	}
	respondWithMappedError(c, err, shopOutcomeErrorRules, response.CodeInternal, "error.internal")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
}
