package worker

import (
	"context"
	"time"

	"github.com/florarie-simona/internal/logger"
	"github.com/florarie-simona/internal/provider"
	"github.com/florarie-simona/internal/repository"
)

const shopRecordPurgeInterval = time.Hour

// PurgeService 定时清理过期的店铺记录，独立于异步队列运行
type PurgeService struct {
	purger   repository.ShopRecordPurger
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewPurgeService 仅当存储支持批量清理时返回服务；Redis 依赖键过期，内存随进程释放
func NewPurgeService(c *provider.Container) (*PurgeService, bool) {
	if c == nil || c.Config == nil || c.ShopRecordRepo == nil {
		return nil, false
	}
	purger, ok := c.ShopRecordRepo.(repository.ShopRecordPurger)
	if !ok {
		return nil, false
	}
	return &PurgeService{
		purger:   purger,
		ttl:      c.Config.Shop.EnvelopeTTL(),
		interval: shopRecordPurgeInterval,
		now:      time.Now,
	}, true
}

// Name 服务名称
func (s *PurgeService) Name() string {
	return "shop_record_purge"
}

// Start 启动时先清理一次，此后按间隔执行，直到 ctx 结束
func (s *PurgeService) Start(ctx context.Context) error {
	s.runOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop 循环随 ctx 退出
func (s *PurgeService) Stop(context.Context) error {
	return nil
}

func (s *PurgeService) runOnce(ctx context.Context) {
	if _, err := s.purge(ctx, s.now()); err != nil {
		logger.Warnw("worker_shop_record_purge_failed", "error", err)
	}
}

// purge 清理超过过期时间未写入的会话记录
func (s *PurgeService) purge(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.ttl)
	purged, err := s.purger.PurgeStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		logger.Infow("worker_shop_record_purged", "records", purged, "cutoff", cutoff)
	}
	return purged, nil
}
