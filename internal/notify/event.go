package notify

import (
	"fmt"
	"time"

	"github.com/florarie-simona/internal/constants"
)

// Event 引擎提交变更后发出的结果事件
type Event struct {
	SessionID   string
	Kind        string // constants.ShopOutcome*
	Collection  string // constants.ShopCollection*
	ProductID   string
	Name        string
	Quantity    int
	MaxQuantity int
	At          time.Time
}

// Toast 前端提示
type Toast struct {
	Level     string `json:"level"`
	Key       string `json:"key"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
	At        int64  `json:"at"`
}

// BuildToast 将事件转换为提示；无需提示的事件返回 false
func BuildToast(ev Event) (Toast, bool) {
	toast := Toast{
		Level:     constants.ToastLevelSuccess,
		ProductID: ev.ProductID,
		At:        ev.At.UnixMilli(),
	}
	name := ev.Name
	if name == "" {
		name = "Produsul"
	}
	switch ev.Kind {
	case constants.ShopOutcomeAdded:
		toast.Key = "toast.cart_added"
		toast.Message = fmt.Sprintf("%s a fost adăugat în coș.", name)
	case constants.ShopOutcomeDuplicateMerged:
		toast.Level = constants.ToastLevelInfo
		toast.Key = "toast.cart_merged"
		toast.Message = fmt.Sprintf("Cantitatea pentru %s a fost actualizată (%d buc.).", name, ev.Quantity)
	case constants.ShopOutcomeStockLimitExceeded:
		toast.Level = constants.ToastLevelWarning
		toast.Key = "toast.stock_limit"
		toast.Message = fmt.Sprintf("Stoc insuficient: poți comanda maximum %d buc. din %s.", ev.MaxQuantity, name)
	case constants.ShopOutcomeUpdated:
		toast.Level = constants.ToastLevelInfo
		toast.Key = "toast.cart_updated"
		toast.Message = fmt.Sprintf("Cantitatea pentru %s este acum %d.", name, ev.Quantity)
	case constants.ShopOutcomeCleared:
		toast.Level = constants.ToastLevelInfo
		toast.Key = "toast.cart_cleared"
		toast.Message = "Coșul a fost golit."
	case constants.ShopOutcomeSaved:
		toast.Key = "toast.wishlist_saved"
		toast.Message = fmt.Sprintf("%s a fost salvat în lista de dorințe.", name)
	case constants.ShopOutcomeAlreadySaved:
		toast.Level = constants.ToastLevelInfo
		toast.Key = "toast.wishlist_exists"
		toast.Message = fmt.Sprintf("%s este deja în lista de dorințe.", name)
	case constants.ShopOutcomeRemoved:
		toast.Level = constants.ToastLevelInfo
		if ev.Collection == constants.ShopCollectionWishlist {
			toast.Key = "toast.wishlist_removed"
			toast.Message = fmt.Sprintf("%s a fost eliminat din lista de dorințe.", name)
		} else {
			toast.Key = "toast.cart_removed"
			toast.Message = fmt.Sprintf("%s a fost eliminat din coș.", name)
		}
	default:
		return Toast{}, false
	}
	return toast, true
}
