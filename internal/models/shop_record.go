package models

import "time"

// ShopRecord 店铺本地状态记录（按会话命名空间的键值对）
type ShopRecord struct {
	Namespace string    `gorm:"primarykey;type:varchar(64)" json:"namespace"` // 会话命名空间
	Key       string    `gorm:"primarykey;type:varchar(64)" json:"key"`       // 记录键
	Value     string    `gorm:"type:text;not null" json:"value"`              // 序列化后的值
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                      // 最后写入时间
}

// TableName 指定表名
func (ShopRecord) TableName() string {
	return "shop_records"
}
