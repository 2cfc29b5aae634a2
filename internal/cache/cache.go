// Package cache stores serialised public listings between writes. Every write to an
// entity invalidates its keys and bumps their version; a fill started before the write
// carries the old version and is refused, so a read after a write always goes back to
// the store.
package cache

import (
	"context"
	"time"
)

// Keys of the cached public listings.
const (
	KeyProducts   = "catalogue:products"
	KeyCategories = "catalogue:categories"
	KeyPosts      = "participation:posts"
)

// ListingCache is a versioned byte cache keyed by listing name.
type ListingCache interface {
	// Get returns the cached bytes and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Version returns the current version of key. Read it before fetching the value to store.
	Version(ctx context.Context, key string) (int64, error)
	// Set stores value only while key is still at version. It reports whether it stored.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, version int64) (bool, error)
	// Invalidate drops keys and bumps their versions.
	Invalidate(ctx context.Context, keys ...string) error
}

// KeysFor returns the listing keys affected by a write to entity.
func KeysFor(entity string) []string {
	switch entity {
	case "product":
		return []string{KeyProducts}
	case "category":
		return []string{KeyCategories}
	case "blog_post":
		return []string{KeyPosts}
	default:
		return []string{KeyProducts, KeyCategories, KeyPosts}
	}
}
