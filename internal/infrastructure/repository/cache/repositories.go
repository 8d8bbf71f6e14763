package cache

import (
	"context"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	basecache "github.com/fulbitoplay/prediction-pool/internal/platform/cache"
)

// Read-through decorators over the hot read paths. Events and
// matches change rarely compared to how often the public endpoints
// read them, so a short TTL wins a lot. Every write invalidates, so
// stale reads are bounded by the TTL only when another instance
// wrote.

type cachedEvent struct {
	value  event.Event
	exists bool
}

type EventRepository struct {
	next  event.Repository
	cache *basecache.Store
}

func NewEventRepository(next event.Repository, cache *basecache.Store) *EventRepository {
	return &EventRepository{next: next, cache: cache}
}

func (r *EventRepository) Create(ctx context.Context, ev event.Event) error {
	if err := r.next.Create(ctx, ev); err != nil {
		return err
	}
	r.invalidateLists(ctx)
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (event.Event, bool, error) {
	key := "event:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedEvent{value: item, exists: exists}, nil
	})
	if err != nil {
		return event.Event{}, false, err
	}

	cached, _ := v.(cachedEvent)
	return cached.value, cached.exists, nil
}

func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	v, err := r.cache.GetOrLoad(ctx, "event:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]event.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]event.Event)
	return append([]event.Event(nil), items...), nil
}

func (r *EventRepository) ListOpen(ctx context.Context) ([]event.Event, error) {
	v, err := r.cache.GetOrLoad(ctx, "event:list:open", func(ctx context.Context) (any, error) {
		items, err := r.next.ListOpen(ctx)
		if err != nil {
			return nil, err
		}
		return append([]event.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]event.Event)
	return append([]event.Event(nil), items...), nil
}

func (r *EventRepository) MarkFinished(ctx context.Context, id string) error {
	if err := r.next.MarkFinished(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.invalidate(ctx, id)
		// cascaded matches are gone too
		r.cache.DeletePrefix(ctx, "match:")
	}
	return deleted, nil
}

func (r *EventRepository) invalidate(ctx context.Context, id string) {
	r.cache.Delete(ctx, "event:id:"+id)
	r.invalidateLists(ctx)
}

func (r *EventRepository) invalidateLists(ctx context.Context) {
	r.cache.Delete(ctx, "event:list")
	r.cache.Delete(ctx, "event:list:open")
}

type cachedMatch struct {
	value  match.Match
	exists bool
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	if err := r.next.Create(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx, m.ID, m.EventID)
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	key := "match:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedMatch{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatch)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) ListByEvent(ctx context.Context, eventID string) ([]match.Match, error) {
	key := "match:event:" + eventID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) (bool, error) {
	updated, err := r.next.Update(ctx, m)
	if err != nil {
		return false, err
	}
	if updated {
		r.invalidate(ctx, m.ID, m.EventID)
	}
	return updated, nil
}

func (r *MatchRepository) SetResult(ctx context.Context, id string, resultLocal, resultVisitor int) (bool, error) {
	updated, err := r.next.SetResult(ctx, id, resultLocal, resultVisitor)
	if err != nil {
		return false, err
	}
	if updated {
		// the event id is unknown here, drop every per-event list
		r.cache.Delete(ctx, "match:id:"+id)
		r.cache.DeletePrefix(ctx, "match:event:")
	}
	return updated, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.cache.Delete(ctx, "match:id:"+id)
		r.cache.DeletePrefix(ctx, "match:event:")
	}
	return deleted, nil
}

func (r *MatchRepository) invalidate(ctx context.Context, id, eventID string) {
	r.cache.Delete(ctx, "match:id:"+id)
	r.cache.Delete(ctx, "match:event:"+eventID)
}
