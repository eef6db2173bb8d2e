package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStoreTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(5*time.Minute, WithClock(clock.Now))

	s.Set(42, 7)

	clock.Advance(299 * time.Second)
	q, ok := s.Get(42)
	require.True(t, ok)
	assert.Equal(t, 7, q)

	clock.Advance(2 * time.Second)
	_, ok = s.Get(42)
	assert.False(t, ok)
}

func TestStoreLookup(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(time.Minute, WithClock(clock.Now))
	s.SetMany(map[int]int{1: 10, 2: 20})

	clock.Advance(30 * time.Second)
	s.Set(3, 30)
	clock.Advance(40 * time.Second)

	hits, missing := s.Lookup([]int{3, 1, 4, 3, 2, 4})
	assert.Equal(t, map[int]int{3: 30}, hits)
	assert.Equal(t, []int{1, 4, 2}, missing)
}

func TestStoreClear(t *testing.T) {
	s := NewStore(0)
	assert.Equal(t, DefaultStockTTL, s.TTL())

	s.SetMany(map[int]int{1: 1, 2: 2})
	assert.Equal(t, 2, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get(1)
	assert.False(t, ok)
}
