package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTL_SetGet(t *testing.T) {
	c := NewTTL[string, int](time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 42)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 42, got)
}

func TestTTL_Expiry(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c.clock = func() time.Time { return now }

	c.Set("a", 1)

	now = now.Add(30 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok, "entry inside TTL")

	now = now.Add(31 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry past TTL")
}

func TestTTL_Invalidate(t *testing.T) {
	c := NewTTL[string, string](time.Minute)
	c.Set("donor", "profile")
	c.Invalidate("donor")

	_, ok := c.Get("donor")
	assert.False(t, ok)
}

func TestTTL_DisabledWhenNonPositive(t *testing.T) {
	c := NewTTL[string, int](0)
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestTTL_Purge(t *testing.T) {
	c := NewTTL[int, int](time.Minute)
	c.Set(1, 1)
	c.Set(2, 2)
	assert.Equal(t, 2, c.Len())
	c.Purge()
	assert.Zero(t, c.Len())
}
