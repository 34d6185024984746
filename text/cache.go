package text

import (
	"container/list"

	"github.com/agiangrant/prism/geom"
)

// Cached wraps a Measurer with an LRU over shaped results. Layout
// measures the same strings every frame; without the cache each frame
// would re-shape unchanged text twice (once to size, once to paint).
//
// Cached is not safe for concurrent use. Each window owns its text
// system, so nothing shares one.
type Cached struct {
	inner    Measurer
	capacity int

	entries map[shapeKey]*list.Element
	order   *list.List // front = most recently used

	hits   uint64
	misses uint64
}

type shapeKey struct {
	text       string
	size       float32
	lineHeight float32
	maxWidth   float32
}

type shapeEntry struct {
	key    shapeKey
	shaped *Shaped
}

// NewCached wraps inner with an LRU of the given capacity. A capacity
// of 0 or less uses 512 entries.
func NewCached(inner Measurer, capacity int) *Cached {
	if capacity <= 0 {
		capacity = 512
	}
	return &Cached{
		inner:    inner,
		capacity: capacity,
		entries:  make(map[shapeKey]*list.Element),
		order:    list.New(),
	}
}

// Measure implements Measurer.
func (c *Cached) Measure(text string, style Style, maxWidth float32) geom.Size {
	return c.Shape(text, style, maxWidth).Size
}

// Shape implements Measurer.
func (c *Cached) Shape(text string, style Style, maxWidth float32) *Shaped {
	key := shapeKey{text: text, size: style.Size, lineHeight: style.LineHeight, maxWidth: maxWidth}
	if el, ok := c.entries[key]; ok {
		c.hits++
		c.order.MoveToFront(el)
		return el.Value.(*shapeEntry).shaped
	}
	c.misses++
	shaped := c.inner.Shape(text, style, maxWidth)
	c.entries[key] = c.order.PushFront(&shapeEntry{key: key, shaped: shaped})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*shapeEntry).key)
	}
	return shaped
}

// Len reports the number of cached shapes.
func (c *Cached) Len() int { return c.order.Len() }
