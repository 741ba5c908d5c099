package repository

import (
	"context"
	"errors"
	"time"

	"github.com/florarie-simona/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShopRecordRepository 店铺本地状态键值存储接口
// 每个键独立原子写入，多键写入之间不保证原子性
type ShopRecordRepository interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Clear(ctx context.Context, namespace string) error
}

// ShopRecordPurger 支持按最后写入时间批量清理的存储
type ShopRecordPurger interface {
	PurgeStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// GormShopRecordRepository GORM 实现
type GormShopRecordRepository struct {
	db *gorm.DB
}

// NewShopRecordRepository 创建店铺状态仓库
func NewShopRecordRepository(db *gorm.DB) *GormShopRecordRepository {
	return &GormShopRecordRepository{db: db}
}

// Get 读取记录
func (r *GormShopRecordRepository) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var record models.ShopRecord
	err := r.db.WithContext(ctx).Where("namespace = ? AND key = ?", namespace, key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.Value, true, nil
}

// Set 写入或覆盖记录
func (r *GormShopRecordRepository) Set(ctx context.Context, namespace, key, value string) error {
	record := models.ShopRecord{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

// Clear 删除命名空间下所有记录
func (r *GormShopRecordRepository) Clear(ctx context.Context, namespace string) error {
	return r.db.WithContext(ctx).Where("namespace = ?", namespace).Delete(&models.ShopRecord{}).Error
}

// CountByNamespace 统计命名空间下记录数
func (r *GormShopRecordRepository) CountByNamespace(ctx context.Context, namespace string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ShopRecord{}).Where("namespace = ?", namespace).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// PurgeStale 删除最后写入早于 cutoff 的整个命名空间，返回删除的记录数
func (r *GormShopRecordRepository) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	stale := r.db.Model(&models.ShopRecord{}).
		Select("namespace").
		Group("namespace").
		Having("MAX(updated_at) < ?", cutoff.UTC())
	result := r.db.WithContext(ctx).Where("namespace IN (?)", stale).Delete(&models.ShopRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
