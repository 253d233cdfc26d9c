package framepool

import (
	"container/list"
	"fmt"
	"image"
	"sync"
)

// Pool recycles released frame buffers so that the per-tick
// release-then-capture cycle does not allocate a fresh bitmap every time.
// Free buffers are kept in LRU order and bucketed by size.
type Pool struct {
	mu      sync.Mutex
	maxSize int
	lruList *list.List                 // free buffers, most recently released at front
	bySize  map[string][]*list.Element // free buffers per "WxH" key
	hits    int
	misses  int
}

// poolEntry is one free buffer
type poolEntry struct {
	img *image.RGBA
	key string
}

// New creates a new pool holding at most maxSize free buffers
func New(maxSize int) *Pool {
	if maxSize <= 0 {
		maxSize = 4 // Default pool size
	}

	return &Pool{
		maxSize: maxSize,
		lruList: list.New(),
		bySize:  make(map[string][]*list.Element),
	}
}

func sizeKey(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

// Get returns a w x h buffer, reusing a free one of the same size if any.
// The contents of a reused buffer are stale; callers overwrite every pixel.
func (p *Pool) Get(w, h int) *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := sizeKey(w, h)
	elems := p.bySize[key]
	if len(elems) == 0 {
		p.misses++
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	// Take the most recently released buffer of this size
	elem := elems[len(elems)-1]
	p.removeElementUnsafe(elem)
	p.hits++

	return elem.Value.(*poolEntry).img
}

// Put hands a buffer back to the pool. The caller must not touch img afterwards.
func (p *Pool) Put(img *image.RGBA) {
	if img == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	b := img.Bounds()
	entry := &poolEntry{
		img: img,
		key: sizeKey(b.Dx(), b.Dy()),
	}

	elem := p.lruList.PushFront(entry)
	p.bySize[entry.key] = append(p.bySize[entry.key], elem)

	// Enforce size limit
	p.enforceMaxSize()
}

// enforceMaxSize drops the least recently released buffers beyond maxSize
func (p *Pool) enforceMaxSize() {
	for p.lruList.Len() > p.maxSize {
		elem := p.lruList.Back()
		if elem == nil {
			return
		}
		p.removeElementUnsafe(elem)
	}
}

// removeElementUnsafe unlinks a free buffer from all structures (must hold lock)
func (p *Pool) removeElementUnsafe(elem *list.Element) {
	entry := elem.Value.(*poolEntry)
	p.lruList.Remove(elem)

	elems := p.bySize[entry.key]
	for i, e := range elems {
		if e == elem {
			elems = append(elems[:i], elems[i+1:]...)
			break
		}
	}
	if len(elems) == 0 {
		delete(p.bySize, entry.key)
	} else {
		p.bySize[entry.key] = elems
	}
}

// Stats returns pool statistics
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Free:    p.lruList.Len(),
		MaxSize: p.maxSize,
		Sizes:   len(p.bySize),
		Hits:    p.hits,
		Misses:  p.misses,
	}
}

// Stats holds pool statistics
type Stats struct {
	Free    int `json:"free"`
	MaxSize int `json:"max_size"`
	Sizes   int `json:"sizes"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}
