// Package snapshot keeps the last fetched copy of a list and discards fetches that
// resolve after the holder moved on.
package snapshot

import (
	"context"
	"sync"
)

// Holder stores a value replaced wholesale by Load. Every Invalidate or Close bumps a
// generation counter; a Load that started under an older generation is dropped when it
// completes, without touching the value and without reporting its error.
type Holder[T any] struct {
	mu     sync.Mutex
	gen    uint64
	value  T
	loaded bool
	closed bool
}

// Load runs fetch and stores its result if the holder is still on the same generation
// and ctx is still live. It reports whether the result was applied.
func (h *Holder[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (bool, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false, nil
	}
	gen := h.gen
	h.mu.Unlock()

	v, err := fetch(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.gen != gen || ctx.Err() != nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	h.value = v
	h.loaded = true
	return true, nil
}

// Get returns the current value and whether one was ever loaded.
func (h *Holder[T]) Get() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value, h.loaded
}

// Invalidate makes every in-flight Load stale.
func (h *Holder[T]) Invalidate() {
	h.mu.Lock()
	h.gen++
	h.mu.Unlock()
}

// Close tears the holder down: in-flight and future loads are no-ops.
func (h *Holder[T]) Close() {
	h.mu.Lock()
	h.closed = true
	h.gen++
	h.mu.Unlock()
}
