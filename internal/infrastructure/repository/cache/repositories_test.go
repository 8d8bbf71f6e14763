package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/infrastructure/repository/memory"
	basecache "github.com/fulbitoplay/prediction-pool/internal/platform/cache"
)

func TestEventRepository_CachesGetByID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	next := memory.NewEventRepository(store)
	repo := NewEventRepository(next, basecache.NewStore(time.Minute))

	ev := event.Event{
		ID:        "ev-1",
		Name:      "Clausura 2026",
		Status:    event.StatusOpen,
		CloseDate: time.Now().Add(24 * time.Hour),
	}
	if err := repo.Create(ctx, ev); err != nil {
		t.Fatalf("create event: %v", err)
	}

	got, exists, err := repo.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if !exists || got.Name != "Clausura 2026" {
		t.Fatalf("unexpected event: exists=%v name=%q", exists, got.Name)
	}

	// served from cache even after the backing row is gone
	if _, err := next.Delete(ctx, "ev-1"); err != nil {
		t.Fatalf("delete from backing repo: %v", err)
	}
	got, exists, err = repo.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get event after backing delete: %v", err)
	}
	if !exists || got.ID != "ev-1" {
		t.Fatalf("expected cached event, got exists=%v", exists)
	}
}

func TestEventRepository_MarkFinishedInvalidates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewEventRepository(memory.NewEventRepository(store), basecache.NewStore(time.Minute))

	ev := event.Event{
		ID:        "ev-1",
		Name:      "Clausura 2026",
		Status:    event.StatusOpen,
		CloseDate: time.Now().Add(24 * time.Hour),
	}
	if err := repo.Create(ctx, ev); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, _, err := repo.GetByID(ctx, "ev-1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	if err := repo.MarkFinished(ctx, "ev-1"); err != nil {
		t.Fatalf("mark finished: %v", err)
	}

	got, exists, err := repo.GetByID(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if !exists || got.Status != event.StatusFinished {
		t.Fatalf("expected finished status after invalidation, got %q", got.Status)
	}
}

func TestEventRepository_ListOpenInvalidatedByCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewEventRepository(memory.NewEventRepository(store), basecache.NewStore(time.Minute))

	first := event.Event{
		ID:        "ev-1",
		Name:      "Apertura 2026",
		Status:    event.StatusOpen,
		CloseDate: time.Now().Add(24 * time.Hour),
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create first event: %v", err)
	}
	open, err := repo.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected 1 open event, got %d", len(open))
	}

	second := event.Event{
		ID:        "ev-2",
		Name:      "Clausura 2026",
		Status:    event.StatusOpen,
		CloseDate: time.Now().Add(48 * time.Hour),
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create second event: %v", err)
	}

	open, err = repo.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list open after create: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 open events after invalidation, got %d", len(open))
	}
}
