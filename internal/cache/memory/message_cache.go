package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
	"github.com/Gunvolt24/hermes_receiver/pkg/metrics"
)

var _ ports.MessageCache = (*LRUCacheTTL)(nil)

type entry struct {
	id        string
	msg       *domain.Message
	expiresAt time.Time
	// позиция в порядке записи (received)
	received *list.Element
}

// LRUCacheTTL — потокобезопасный LRU-кэш последних сообщений с TTL.
// ll упорядочен по использованию (вытеснение), received — по времени записи (Recent, TTL).
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration
	clock    ports.Clock

	ll       *list.List
	received *list.List
	cache    map[string]*list.Element

	mu sync.Mutex
}

func NewLRUCacheTTL(capacity int, ttl time.Duration, clock ports.Clock) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		clock:    clock,
		ll:       list.New(),
		received: list.New(),
		cache:    make(map[string]*list.Element),
	}
}

func (c *LRUCacheTTL) Get(_ context.Context, id string) (*domain.Message, bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[id]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(c.ll.Len()))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneMessage(ent.msg), true
}

// Set — сообщения без ID не кэшируются (ключа нет).
func (c *LRUCacheTTL) Set(_ context.Context, msg *domain.Message) error {
	if msg == nil || msg.ID == "" {
		return nil
	}
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[msg.ID]; ok {
		ent := elem.Value.(*entry)
		ent.msg = cloneMessage(msg)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		c.received.MoveToFront(ent.received)
		return nil
	}

	c.pruneExpiredFromBack(now)

	ent := &entry{
		id:        msg.ID,
		msg:       cloneMessage(msg),
		expiresAt: c.expiryFrom(now),
	}
	elem := c.ll.PushFront(ent)
	ent.received = c.received.PushFront(elem)
	c.cache[msg.ID] = elem
	metrics.CacheSize.Set(float64(c.ll.Len()))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

// Recent — страница сообщений от последних записанных к старым; просроченные пропускаются.
// Чтение через Get порядок не меняет.
func (c *LRUCacheTTL) Recent(_ context.Context, limit, offset int) []*domain.Message {
	if limit <= 0 || offset < 0 {
		return nil
	}
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*domain.Message, 0, min(limit, c.received.Len()))
	skipped := 0
	for r := c.received.Front(); r != nil && len(out) < limit; r = r.Next() {
		ent := r.Value.(*list.Element).Value.(*entry)
		if c.isExpired(ent, now) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, cloneMessage(ent.msg))
	}
	return out
}

// Len — текущее число элементов (включая ещё не вычищенные просроченные).
func (c *LRUCacheTTL) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
