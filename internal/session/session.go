package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"salescope/internal/dataset"
	"salescope/internal/model"
)

// 派生视图缓存上限，超出时整体清空（同一会话内筛选组合通常很少）
const cacheLimit = 64

// Session 一次用户会话的私有状态
//
// 持有上传的数据集、最近一次筛选快照与按指纹缓存的派生结果。
// 数据集上传即创建、再次上传整体替换、会话结束丢弃。
type Session struct {
	ID string

	mu         sync.Mutex
	dataset    *dataset.Dataset
	lastFilter *model.FilterState
	cache      map[string]any
}

// SetDataset 替换数据集并失效所有派生缓存
func (s *Session) SetDataset(ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.lastFilter = nil
	s.cache = make(map[string]any)
}

// Dataset 当前数据集；未上传时为 nil
func (s *Session) Dataset() *dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset
}

// RememberFilter 记录最近一次筛选快照
func (s *Session) RememberFilter(f *model.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = f
}

// LastFilter 最近一次筛选快照；从未筛选时为 nil
func (s *Session) LastFilter() *model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFilter
}

// CachedView 按指纹读取派生结果缓存
func (s *Session) CachedView(fingerprint string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache[fingerprint]
	return v, ok
}

// StoreView 写入派生结果缓存（显式的可选优化，不影响语义）
func (s *Session) StoreView(fingerprint string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil || len(s.cache) >= cacheLimit {
		s.cache = make(map[string]any)
	}
	s.cache[fingerprint] = v
}

// ErrNoSession 会话不存在或尚未上传数据
var ErrNoSession = errors.New("会话不存在，请先上传数据")

// Manager 会话管理器
//
// 锁只保护会话表的并发访问；单个会话内的计算仍是同步的请求/响应模型。
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	current  string
}

// NewManager 创建会话管理器
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create 新建会话并记为当前会话
func (m *Manager) Create() *Session {
	s := &Session{ID: uuid.NewString(), cache: make(map[string]any)}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	m.current = s.ID
	return s
}

// Get 按 ID 取会话；ID 为空时退回最近创建的会话（单会话使用习惯）
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id == "" {
		id = m.current
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Delete 丢弃会话
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	if m.current == id {
		m.current = ""
	}
}
