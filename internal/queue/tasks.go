package queue

import (
	"encoding/json"

	"github.com/florarie-simona/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskShopToast 店铺操作提示任务
	TaskShopToast = constants.TaskShopToast
)

// ShopToastPayload 店铺操作提示任务载荷
type ShopToastPayload struct {
	SessionID   string `json:"session_id"`
	Kind        string `json:"kind"`
	Collection  string `json:"collection"`
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"max_quantity"`
	At          int64  `json:"at"` // 毫秒时间戳
}

// NewShopToastTask 创建店铺操作提示任务
func NewShopToastTask(payload ShopToastPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShopToast, body), nil
}

// ParseShopToastPayload 解析任务载荷
func ParseShopToastPayload(task *asynq.Task) (ShopToastPayload, error) {
	var payload ShopToastPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
