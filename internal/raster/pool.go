package raster

import (
	"slices"
	"sync"
)

// Pool is a thread-safe pool for reusing raster sample buffers.
//
// Pool groups buffers by dimensions and channel count. Only the byte slices
// are recycled; every Get hands out a fresh Raster value, so a stale pointer
// to a released raster never observes a later owner's pixels as its own.
//
// Retention is bounded twice: per shape by maxPerBucket, and in total by
// maxBytes. When a put would exceed maxBytes, whole buckets are evicted,
// least recently filled first.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	buckets  map[poolKey][][]byte
	order    []poolKey // non-empty buckets, least recently filled first
	maxSize  int       // max buffers per bucket
	maxBytes int       // max retained bytes across buckets
	bytes    int
}

// poolKey identifies a bucket of identical raster shapes.
type poolKey struct {
	width    int
	height   int
	channels int
}

// NewPool creates a pool retaining at most maxPerBucket buffers of each
// shape and at most maxBytes bytes overall. Zero disables either limit.
func NewPool(maxPerBucket, maxBytes int) *Pool {
	return &Pool{
		buckets:  make(map[poolKey][][]byte),
		maxSize:  maxPerBucket,
		maxBytes: maxBytes,
	}
}

// Get returns a zeroed raster of the given shape, reusing a pooled buffer
// when one is available. Returns nil for invalid dimensions or channels.
func (p *Pool) Get(width, height, channels int) *Raster {
	if width <= 0 || height <= 0 || !validChannels(channels) {
		return nil
	}
	key := poolKey{width: width, height: height, channels: channels}

	p.mu.Lock()
	var data []byte
	if bucket := p.buckets[key]; len(bucket) > 0 {
		data = bucket[len(bucket)-1]
		p.bytes -= len(data)
		if len(bucket) == 1 {
			delete(p.buckets, key)
			p.forget(key)
		} else {
			p.buckets[key] = bucket[:len(bucket)-1]
		}
	}
	p.mu.Unlock()

	if data == nil {
		data = make([]byte, width*channels*height)
	} else {
		clear(data)
	}

	return &Raster{
		data:     data,
		width:    width,
		height:   height,
		stride:   width * channels,
		channels: channels,
		pool:     p,
	}
}

// put stores the buffer of r for reuse, discarding it if a limit would be
// exceeded and eviction cannot make room.
func (p *Pool) put(r *Raster) {
	if r.stride != r.width*r.channels {
		return
	}
	n := len(r.data)
	if p.maxBytes > 0 && n > p.maxBytes {
		return
	}
	key := poolKey{width: r.width, height: r.height, channels: r.channels}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxSize > 0 && len(p.buckets[key]) >= p.maxSize {
		return
	}
	for p.maxBytes > 0 && p.bytes+n > p.maxBytes {
		if !p.evictOldest(key) {
			return
		}
	}

	p.buckets[key] = append(p.buckets[key], r.data)
	p.bytes += n
	p.forget(key)
	p.order = append(p.order, key)
}

// evictOldest drops the least recently filled bucket other than keep.
// It reports false when there is nothing to drop.
func (p *Pool) evictOldest(keep poolKey) bool {
	for i, k := range p.order {
		if k == keep {
			continue
		}
		for _, b := range p.buckets[k] {
			p.bytes -= len(b)
		}
		delete(p.buckets, k)
		p.order = slices.Delete(p.order, i, i+1)
		return true
	}
	return false
}

func (p *Pool) forget(key poolKey) {
	if i := slices.Index(p.order, key); i >= 0 {
		p.order = slices.Delete(p.order, i, i+1)
	}
}

// Len returns the number of buffers currently held for the given shape.
func (p *Pool) Len(width, height, channels int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[poolKey{width: width, height: height, channels: channels}])
}

// Bytes returns the total size of the buffers currently held.
func (p *Pool) Bytes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytes
}

// defaultPool is the package-level pool used by Clone on unpooled rasters.
var defaultPool = NewPool(8, 64<<20)

// Get retrieves a raster from the default pool.
func Get(width, height, channels int) *Raster {
	return defaultPool.Get(width, height, channels)
}

// CloneInto deep copies r into a raster drawn from p.
func CloneInto(p *Pool, r *Raster) *Raster {
	c := p.Get(r.width, r.height, r.channels)
	rowLen := r.width * r.channels
	for y := range r.height {
		copy(c.data[y*c.stride:y*c.stride+rowLen], r.data[y*r.stride:y*r.stride+rowLen])
	}
	return c
}
