package framepool

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ReusesSameSize(t *testing.T) {
	p := New(3)

	a := p.Get(64, 32)
	require.Equal(t, image.Rect(0, 0, 64, 32), a.Bounds())
	p.Put(a)

	b := p.Get(64, 32)
	assert.Same(t, a, b)

	stats := p.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 0, stats.Free)
}

func TestPool_DifferentSizeAllocates(t *testing.T) {
	p := New(3)

	a := p.Get(64, 32)
	p.Put(a)

	b := p.Get(32, 64)
	assert.NotSame(t, a, b)
	assert.Equal(t, 1, p.Stats().Free, "the 64x32 buffer stays pooled")
}

func TestPool_Eviction(t *testing.T) {
	p := New(2)

	first := p.Get(10, 10)
	second := p.Get(20, 20)
	third := p.Get(30, 30)

	p.Put(first)
	p.Put(second)
	p.Put(third) // Should evict first

	assert.Equal(t, 2, p.Stats().Free)
	assert.NotSame(t, first, p.Get(10, 10))
	assert.Same(t, second, p.Get(20, 20))
	assert.Same(t, third, p.Get(30, 30))
}

func TestPool_PutNil(t *testing.T) {
	p := New(2)
	p.Put(nil)
	assert.Equal(t, 0, p.Stats().Free)
}
