package trivia

import (
	"container/list"
	"os"
	"strconv"
	"sync"
	"time"

	"squash-trivia/internal/logger"
	"squash-trivia/internal/metrics"

	"github.com/google/uuid"
)

// 文档注释：页面会话表（LRU + TTL）
// 背景：每次打开页面创建一个协调器，片段请求按会话 ID 找回它；超出容量或过期的会话被关闭并移除。
// 约束：读取会刷新过期时间；淘汰时调用 Close 释放地图与在途请求。
type Sessions struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
	now  func() time.Time
}

type sessionItem struct {
	id  string
	c   *Coordinator
	exp time.Time
}

func NewSessions(capacity int, ttl time.Duration) *Sessions {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{cap: capacity, ttl: ttl, lst: list.New(), dict: make(map[string]*list.Element), now: time.Now}
}

// NewSessionsFromEnv：TRIVIA_SESSION_MAX（默认 1000）与 TRIVIA_SESSION_TTL_S（默认 1800）
func NewSessionsFromEnv() *Sessions {
	capacity := 1000
	if v := os.Getenv("TRIVIA_SESSION_MAX"); v != "" {
		if n, e := strconv.Atoi(v); e == nil && n > 0 {
			capacity = n
		}
	}
	ttl := 1800
	if v := os.Getenv("TRIVIA_SESSION_TTL_S"); v != "" {
		if n, e := strconv.Atoi(v); e == nil && n > 0 {
			ttl = n
		}
	}
	return NewSessions(capacity, time.Duration(ttl)*time.Second)
}

// Add：登记协调器并返回新的会话 ID
func (s *Sessions) Add(c *Coordinator) string {
	id := uuid.NewString()
	s.mu.Lock()
	e := s.lst.PushFront(&sessionItem{id: id, c: c, exp: s.now().Add(s.ttl)})
	s.dict[id] = e
	var evicted []*Coordinator
	for s.lst.Len() > s.cap {
		back := s.lst.Back()
		it := back.Value.(*sessionItem)
		delete(s.dict, it.id)
		s.lst.Remove(back)
		evicted = append(evicted, it.c)
	}
	metrics.LiveSessions.Set(float64(s.lst.Len()))
	s.mu.Unlock()
	for _, old := range evicted {
		old.Close()
	}
	if len(evicted) > 0 {
		logger.L().Debug("session_evicted", "count", len(evicted))
	}
	return id
}

// Get：查找会话；过期会话被移除并关闭
func (s *Sessions) Get(id string) (*Coordinator, bool) {
	s.mu.Lock()
	e, ok := s.dict[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	it := e.Value.(*sessionItem)
	if s.now().After(it.exp) {
		s.lst.Remove(e)
		delete(s.dict, id)
		metrics.LiveSessions.Set(float64(s.lst.Len()))
		s.mu.Unlock()
		it.c.Close()
		logger.L().Debug("session_expired", "sid", id)
		return nil, false
	}
	it.exp = s.now().Add(s.ttl)
	s.lst.MoveToFront(e)
	s.mu.Unlock()
	return it.c, true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lst.Len()
}

// CloseAll：进程退出时关闭全部会话
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	var all []*Coordinator
	for e := s.lst.Front(); e != nil; e = e.Next() {
		all = append(all, e.Value.(*sessionItem).c)
	}
	s.lst.Init()
	s.dict = make(map[string]*list.Element)
	metrics.LiveSessions.Set(0)
	s.mu.Unlock()
	for _, c := range all {
		c.Close()
	}
}
