package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrStoreFull 清理後仍達到容量上限
var ErrStoreFull = errors.New("session store is full")

// MemoryStore 記憶體工作階段儲存，具 TTL 與 LRU 淘汰
type MemoryStore struct {
	ttl     time.Duration
	maxSize int

	mu    sync.RWMutex
	store map[string]entry
	stats storeStats

	stop chan struct{}
	once sync.Once
}

// entry 儲存條目
type entry struct {
	session     Session
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// storeStats 儲存統計
type storeStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemoryStore 創建記憶體儲存並啟動過期清理
func NewMemoryStore(cfg *config.Config) *MemoryStore {
	m := &MemoryStore{
		ttl:     cfg.Session.TTL,
		maxSize: cfg.Session.MaxSize,
		store:   make(map[string]entry),
		stop:    make(chan struct{}),
	}

	if cfg.Session.CleanupInterval > 0 {
		go m.startCleanup(cfg.Session.CleanupInterval)
	}

	common.LogInfo("Session store initialized",
		zap.String("backend", config.SessionBackendMemory),
		zap.Int("max_size", m.maxSize),
		zap.Duration("ttl", m.ttl),
	)
	return m
}

// Create 建立新的工作階段
func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.maxSize {
		m.cleanup()
		if len(m.store) >= m.maxSize {
			m.evictLRU()
		}
		if len(m.store) >= m.maxSize {
			common.LogWarn("Session store full", zap.Int("size", len(m.store)))
			return nil, ErrStoreFull
		}
	}

	s := newSession()
	now := time.Now()
	m.store[s.ID] = entry{
		session:    *s,
		expiresAt:  now.Add(m.ttl),
		lastAccess: now,
	}
	return s, nil
}

// Get 取得工作階段副本，並延長存活時間
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.load(id)
	if err != nil {
		return nil, err
	}
	s := e.session
	return &s, nil
}

// Update 在鎖內讀取、修改並寫回；fn 回傳錯誤時不寫回
func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.load(id)
	if err != nil {
		return nil, err
	}

	s := e.session
	if err := fn(&s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	e.session = s
	m.store[id] = e

	out := s
	return &out, nil
}

// load 呼叫端需持有寫鎖
func (m *MemoryStore) load(id string) (entry, error) {
	e, ok := m.store[id]
	if !ok {
		m.stats.misses++
		return entry{}, ErrNotFound
	}

	now := time.Now()
	if now.After(e.expiresAt) {
		delete(m.store, id)
		m.stats.evictions++
		m.stats.misses++
		return entry{}, ErrNotFound
	}

	e.lastAccess = now
	e.accessCount++
	e.expiresAt = now.Add(m.ttl)
	m.store[id] = e
	m.stats.hits++
	return e, nil
}

// Delete 刪除工作階段
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// startCleanup 定期清理過期條目
func (m *MemoryStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// cleanup 呼叫端需持有寫鎖
func (m *MemoryStore) cleanup() int {
	now := time.Now()
	count := 0

	for id, e := range m.store {
		if now.After(e.expiresAt) {
			delete(m.store, id)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogDebug("Cleaned up expired sessions",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.stats.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}
	return count
}

// evictLRU 淘汰最少使用的條目
func (m *MemoryStore) evictLRU() {
	var oldestID string
	var oldestAccess time.Time
	var lowestAccessCount int

	for id, e := range m.store {
		if oldestID == "" ||
			e.accessCount < lowestAccessCount ||
			(e.accessCount == lowestAccessCount && e.lastAccess.Before(oldestAccess)) {
			oldestID = id
			oldestAccess = e.lastAccess
			lowestAccessCount = e.accessCount
		}
	}

	if oldestID != "" {
		delete(m.store, oldestID)
		m.stats.evictions++
		common.LogDebug("Session evicted (LRU)", zap.String("session_id", oldestID))
	}
}

// Stats 儲存統計
func (m *MemoryStore) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"backend":   config.SessionBackendMemory,
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
	}
}

// Close 停止清理並清空儲存
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]entry)
	common.LogInfo("Session store closed",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}
