package repo

import (
	"sync"
	"time"
)

// clock 产生严格递增的时间戳（微秒精度，和 datetime(6)/timestamptz 对齐），
// 同一毫秒内的两次更新 updated_at 也不会相等
type clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newClock() *clock { return &clock{now: time.Now} }

func (c *clock) Now() time.Time {
	t := c.now().UTC().Truncate(time.Microsecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
