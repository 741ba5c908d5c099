package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/florarie-simona/internal/logger"
	"github.com/florarie-simona/internal/repository"

	"github.com/google/uuid"
)

const defaultSessionSweepInterval = time.Minute

// ShopSessionManager 按会话管理引擎实例：首次请求时创建，登出或空闲超时时回收
type ShopSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*ShopService
	records  repository.ShopRecordRepository
	base     ShopOptions
	idle     time.Duration
	interval time.Duration
	onClose  func(sessionID string)
}

// NewShopSessionManager 创建会话管理器；base 作为每个引擎的构造模板
func NewShopSessionManager(records repository.ShopRecordRepository, base ShopOptions, idle time.Duration) *ShopSessionManager {
	if base.Now == nil {
		base.Now = time.Now
	}
	interval := defaultSessionSweepInterval
	if idle > 0 && idle/2 < interval {
		interval = idle / 2
	}
	return &ShopSessionManager{
		sessions: make(map[string]*ShopService),
		records:  records,
		base:     base,
		idle:     idle,
		interval: interval,
	}
}

// OnClose 注册引擎回收回调
func (m *ShopSessionManager) OnClose(fn func(sessionID string)) {
	m.mu.Lock()
	m.onClose = fn
	m.mu.Unlock()
}

// NewSessionID 生成会话 ID
func (m *ShopSessionManager) NewSessionID() string {
	return uuid.NewString()
}

// Open 获取会话引擎，不存在时创建并恢复持久化状态
func (m *ShopSessionManager) Open(ctx context.Context, sessionID string) (*ShopService, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrShopSessionNotFound
	}
	if shop, ok := m.Get(sessionID); ok {
		return shop, nil
	}

	opts := m.base
	opts.SessionID = sessionID
	created := NewShopService(ctx, m.records, opts)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[sessionID]; ok {
		created.Close()
		return existing, nil
	}
	m.sessions[sessionID] = created
	logger.Debugw("shop_session_opened", "session_id", sessionID)
	return created, nil
}

// Get 获取已打开的会话引擎
func (m *ShopSessionManager) Get(sessionID string) (*ShopService, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shop, ok := m.sessions[sessionID]
	return shop, ok
}

// Close 关闭会话引擎（登出）
func (m *ShopSessionManager) Close(sessionID string) bool {
	m.mu.Lock()
	shop, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	onClose := m.onClose
	m.mu.Unlock()
	if !ok {
		return false
	}
	shop.Close()
	if onClose != nil {
		onClose(sessionID)
	}
	logger.Debugw("shop_session_closed", "session_id", sessionID)
	return true
}

// Len 当前打开的会话数
func (m *ShopSessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle 回收空闲超时的会话，返回回收数量
func (m *ShopSessionManager) EvictIdle(now time.Time) int {
	if m.idle <= 0 {
		return 0
	}
	m.mu.Lock()
	expired := make([]string, 0)
	for id, shop := range m.sessions {
		if now.Sub(shop.LastUsed()) > m.idle {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	evicted := 0
	for _, id := range expired {
		if m.Close(id) {
			evicted++
		}
	}
	if evicted > 0 {
		logger.Infow("shop_session_evicted", "count", evicted)
	}
	return evicted
}

// Name 服务名称
func (m *ShopSessionManager) Name() string {
	return "shop_sessions"
}

// Start 运行空闲回收循环，直到 ctx 结束
func (m *ShopSessionManager) Start(ctx context.Context) error {
	if m.idle <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.EvictIdle(m.base.Now())
		}
	}
}

// Stop 关闭全部会话引擎
func (m *ShopSessionManager) Stop(ctx context.Context) error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Close(id)
	}
	return nil
}
