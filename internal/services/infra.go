package services

import (
	"context"
	"encoding/json"
	"time"

	"atelier/internal/cache"
	"atelier/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

// Entity names used for cache keys and change events.
const (
	EntityProduct  = "product"
	EntityCategory = "category"
	EntityBlogPost = "blog_post"
)

// Change event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventPublisher publishes catalogue change events. *rabbitmq.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, event rabbitmq.Event) error
}

// Infra carries the optional collaborators shared by the catalogue services. Every field
// may be left zero: no cache, no events, no logging.
type Infra struct {
	Cache    cache.ListingCache
	CacheTTL time.Duration
	Events   EventPublisher
	Logger   *zerolog.Logger
	Now      func() time.Time
}

func (i Infra) logger(component string) zerolog.Logger {
	if i.Logger == nil {
		return zerolog.Nop()
	}
	return i.Logger.With().Str("component", component).Logger()
}

func (i Infra) now() time.Time {
	if i.Now == nil {
		return time.Now()
	}
	return i.Now()
}

// cachedList serves key from the listing cache, falling back to fetch on a miss or any
// cache failure. Cache failures are logged, never returned. The key version is read before
// fetching, so a write committed while the fetch runs keeps its stale result out of the cache.
func cachedList[T any](ctx context.Context, in Infra, log zerolog.Logger, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	fill := in.Cache != nil
	var version int64
	if fill {
		raw, ok, err := in.Cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		case ok:
			var items []T
			if err := json.Unmarshal(raw, &items); err == nil {
				return items, nil
			}
			log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		}
		if version, err = in.Cache.Version(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache version read failed")
			fill = false
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if fill {
		if raw, err := json.Marshal(items); err == nil {
			stored, err := in.Cache.Set(ctx, key, raw, in.CacheTTL, version)
			switch {
			case err != nil:
				log.Warn().Err(err).Str("key", key).Msg("cache write failed")
			case !stored:
				log.Debug().Str("key", key).Msg("listing changed during fetch, not cached")
			}
		}
	}
	return items, nil
}

// changed runs after a committed write: it drops the affected listings and announces the change.
func changed(ctx context.Context, in Infra, log zerolog.Logger, entity, action, id string) {
	if in.Cache != nil {
		if err := in.Cache.Invalidate(ctx, cache.KeysFor(entity)...); err != nil {
			log.Warn().Err(err).Str("entity", entity).Msg("cache invalidation failed")
		}
	}
	if in.Events != nil {
		event := rabbitmq.Event{Entity: entity, Action: action, ID: id, At: in.now()}
		if err := in.Events.Publish(ctx, event); err != nil {
			log.Warn().Err(err).Str("routing_key", event.RoutingKey()).Msg("publishing change event failed")
		}
	}
	log.Info().Str("entity", entity).Str("action", action).Str("id", id).Msg("catalogue changed")
}

// InvalidateOnEvent returns a consumer handler that drops the listings touched by a
// change committed by another instance.
func InvalidateOnEvent(c cache.ListingCache) func(context.Context, rabbitmq.Event) error {
	return func(ctx context.Context, event rabbitmq.Event) error {
		return c.Invalidate(ctx, cache.KeysFor(event.Entity)...)
	}
}
