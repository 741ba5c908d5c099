package shared

import (
	"fmt"
	"strings"
)

// messages 错误提示文案（面向罗马尼亚语店铺前端）
var messages = map[string]string{
	"error.bad_request":                  "Cerere invalidă",
	"error.internal":                     "Eroare internă, încercați din nou",
	"error.unauthorized":                 "Sesiune lipsă sau expirată",
	"error.session_token_invalid":        "Sesiune invalidă",
	"error.session_secret_missing":       "Configurarea sesiunii este incompletă",
	"error.session_issue_failed":         "Nu s-a putut crea sesiunea",
	"error.session_not_found":            "Sesiunea nu mai este activă",
	"error.shop_item_invalid":            "Produs invalid",
	"error.stock_limit_exceeded":         "Stoc insuficient: maximum %d buc.",
	"error.cart_empty":                   "Coșul este gol",
	"error.shipping_address_invalid":     "Adresa de livrare este incompletă",
	"error.shipping_address_save_failed": "Adresa de livrare nu a putut fi salvată",
	"error.checkout_failed":              "Comanda nu a putut fi finalizată",
	"error.notifications_fetch_failed":   "Notificările nu au putut fi încărcate",
	"error.config_fetch_failed":          "Configurația nu a putut fi încărcată",
	"error.rate_limited":                 "Prea multe cereri, reîncercați peste %d secunde",
	"error.rate_limit_unavailable":       "Serviciul este temporar indisponibil",
}

// Message 根据 key 返回提示文案，未登记的 key 原样返回
func Message(key string, args ...interface{}) string {
	key = strings.TrimSpace(key)
	msg, ok := messages[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
