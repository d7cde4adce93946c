package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/pkg/metrics"
)

// evictLRU — удаляет наименее используемый элемент.
func (c *LRUCacheTTL) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}

func (c *LRUCacheTTL) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	if ent, ok := elem.Value.(*entry); ok {
		delete(c.cache, ent.id)
		if ent.received != nil {
			c.received.Remove(ent.received)
		}
	}
	c.ll.Remove(elem)
}

func (c *LRUCacheTTL) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *LRUCacheTTL) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack — чистит самые старые записи до первой актуальной.
// Срок считается от записи, поэтому хвост received истекает первым.
func (c *LRUCacheTTL) pruneExpiredFromBack(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for {
		oldest := c.received.Back()
		if oldest == nil {
			return
		}
		elem := oldest.Value.(*list.Element)
		if !now.After(elem.Value.(*entry).expiresAt) {
			return
		}
		c.removeElement(elem)
		metrics.CacheOps.WithLabelValues("expired").Inc()
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}

// cloneMessage — копия с собственным буфером Content,
// чтобы внешние изменения не отражались на данных в кэше.
func cloneMessage(msg *domain.Message) *domain.Message {
	if msg == nil {
		return nil
	}
	cloned := *msg
	if msg.Content != nil {
		cloned.Content = append([]byte(nil), msg.Content...)
	}
	return &cloned
}
