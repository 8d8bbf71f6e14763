package memory

import (
	"context"
	"fmt"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
)

type EventRepository struct {
	s *Store
}

func NewEventRepository(s *Store) *EventRepository {
	return &EventRepository{s: s}
}

func (r *EventRepository) Create(_ context.Context, ev event.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[ev.ID]; ok {
		return fmt.Errorf("event %s already exists", ev.ID)
	}

	r.s.events[ev.ID] = ev
	r.s.eventOrder = append(r.s.eventOrder, ev.ID)

	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (event.Event, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ev, ok := r.s.events[id]
	if !ok {
		return event.Event{}, false, nil
	}

	return ev, true, nil
}

func (r *EventRepository) List(_ context.Context) ([]event.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]event.Event, 0, len(r.s.eventOrder))
	for _, id := range r.s.eventOrder {
		out = append(out, r.s.events[id])
	}

	return out, nil
}

func (r *EventRepository) ListOpen(_ context.Context) ([]event.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]event.Event, 0, len(r.s.eventOrder))
	for _, id := range r.s.eventOrder {
		if ev := r.s.events[id]; ev.Status == event.StatusOpen {
			out = append(out, ev)
		}
	}

	return out, nil
}

func (r *EventRepository) MarkFinished(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ev, ok := r.s.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id)
	}
	if ev.Status == event.StatusFinished {
		return fmt.Errorf("%w: %s", event.ErrFinished, id)
	}

	ev.Status = event.StatusFinished
	r.s.events[id] = ev

	return nil
}

func (r *EventRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return false, nil
	}

	for _, matchID := range r.s.eventMatchIDsLocked(id) {
		r.s.removeMatchLocked(matchID)
	}
	for key, v := range r.s.vips {
		if v.EventID == id {
			delete(r.s.vips, key)
		}
	}

	delete(r.s.events, id)
	for i, evID := range r.s.eventOrder {
		if evID == id {
			r.s.eventOrder = append(r.s.eventOrder[:i], r.s.eventOrder[i+1:]...)
			break
		}
	}

	return true, nil
}
