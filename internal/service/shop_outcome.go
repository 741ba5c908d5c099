package service

import (
	"fmt"

	"github.com/florarie-simona/internal/constants"
)

// ShopOutcomeKind 引擎操作结果类型
type ShopOutcomeKind string

const (
	OutcomeAdded              ShopOutcomeKind = constants.ShopOutcomeAdded
	OutcomeDuplicateMerged    ShopOutcomeKind = constants.ShopOutcomeDuplicateMerged
	OutcomeStockLimitExceeded ShopOutcomeKind = constants.ShopOutcomeStockLimitExceeded
	OutcomeRemoved            ShopOutcomeKind = constants.ShopOutcomeRemoved
	OutcomeUpdated            ShopOutcomeKind = constants.ShopOutcomeUpdated
	OutcomeCleared            ShopOutcomeKind = constants.ShopOutcomeCleared
	OutcomeSaved              ShopOutcomeKind = constants.ShopOutcomeSaved
	OutcomeAlreadySaved       ShopOutcomeKind = constants.ShopOutcomeAlreadySaved
	OutcomeUnchanged          ShopOutcomeKind = constants.ShopOutcomeUnchanged
	OutcomeInvalid            ShopOutcomeKind = constants.ShopOutcomeInvalid
)

// ShopOutcome 引擎变更操作的返回值
// Changed 表示内存状态是否发生变化（仅变化时才会持久化）
type ShopOutcome struct {
	Kind        ShopOutcomeKind `json:"kind"`
	Collection  string          `json:"collection"`
	ProductID   string          `json:"product_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Quantity    int             `json:"quantity,omitempty"`
	MaxQuantity int             `json:"max_quantity,omitempty"`
	Changed     bool            `json:"changed"`

	err error
}

// Err 拒绝类结果对应的错误，可用 errors.Is 判断
func (o ShopOutcome) Err() error {
	return o.err
}

// Rejected 操作是否被拒绝
func (o ShopOutcome) Rejected() bool {
	return o.err != nil
}

// StockLimitError 超出库存上限
type StockLimitError struct {
	ProductID   string
	MaxQuantity int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("%s: product %s allows at most %d", ErrStockLimitExceeded.Error(), e.ProductID, e.MaxQuantity)
}

func (e *StockLimitError) Unwrap() error {
	return ErrStockLimitExceeded
}

func stockLimitOutcome(productID, name string, ceiling int) ShopOutcome {
	return ShopOutcome{
		Kind:        OutcomeStockLimitExceeded,
		Collection:  constants.ShopCollectionCart,
		ProductID:   productID,
		Name:        name,
		MaxQuantity: ceiling,
		err:         &StockLimitError{ProductID: productID, MaxQuantity: ceiling},
	}
}

func invalidOutcome(collection string) ShopOutcome {
	return ShopOutcome{Kind: OutcomeInvalid, Collection: collection, err: ErrInvalidShopItem}
}

func closedOutcome(collection string) ShopOutcome {
	return ShopOutcome{Kind: OutcomeUnchanged, Collection: collection, err: ErrShopSessionClosed}
}
