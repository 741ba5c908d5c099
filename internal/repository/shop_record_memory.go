package repository

import (
	"context"
	"sync"
)

// MemoryShopRecordRepository 进程内实现，进程退出即丢失
type MemoryShopRecordRepository struct {
	mu      sync.RWMutex
	records map[string]map[string]string
}

// NewMemoryShopRecordRepository 创建内存店铺状态仓库
func NewMemoryShopRecordRepository() *MemoryShopRecordRepository {
	return &MemoryShopRecordRepository{records: make(map[string]map[string]string)}
}

// Get 读取记录
func (r *MemoryShopRecordRepository) Get(_ context.Context, namespace, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.records[namespace][key]
	return val, ok, nil
}

// Set 写入记录
func (r *MemoryShopRecordRepository) Set(_ context.Context, namespace, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.records[namespace]
	if !ok {
		bucket = make(map[string]string)
		r.records[namespace] = bucket
	}
	bucket[key] = value
	return nil
}

// Clear 删除命名空间
func (r *MemoryShopRecordRepository) Clear(_ context.Context, namespace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, namespace)
	return nil
}

// Len 命名空间下记录数
func (r *MemoryShopRecordRepository) Len(namespace string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records[namespace])
}
