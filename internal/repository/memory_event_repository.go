package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/TusharSh06/Techgather/internal/domain"
)

// MemoryEventRepository implements EventRepository using in-memory storage.
// Each event carries its own mutex; Update applies fn to a deep copy and
// commits only on success, so a failed mutation leaves no partial state.
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events map[string]*eventEntry
}

type eventEntry struct {
	mu    sync.Mutex
	event *domain.Event
}

// NewMemoryEventRepository creates a new in-memory event repository
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{
		events: make(map[string]*eventEntry),
	}
}

// Create stores a new event aggregate
func (r *MemoryEventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[event.ID]; exists {
		return domain.ErrEventExists
	}
	r.events[event.ID] = &eventEntry{event: event.Clone()}
	return nil
}

// GetByID returns a snapshot of the event aggregate
func (r *MemoryEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.event.Clone(), nil
}

// List returns event snapshots matching the filter, newest first
func (r *MemoryEventRepository) List(ctx context.Context, filter EventFilter) ([]*domain.Event, int, error) {
	r.mu.RLock()
	entries := make([]*eventEntry, 0, len(r.events))
	for _, e := range r.events {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	var all []*domain.Event
	for _, entry := range entries {
		entry.mu.Lock()
		snapshot := entry.event.Clone()
		entry.mu.Unlock()

		if filter.Category != "" && snapshot.Category != filter.Category {
			continue
		}
		if filter.Status != "" && snapshot.Status != filter.Status {
			continue
		}
		all = append(all, snapshot)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		return all, total, nil
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []*domain.Event{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// Update runs fn inside the event's exclusive section. The mutation is
// applied to a copy and committed only when fn returns nil.
func (r *MemoryEventRepository) Update(ctx context.Context, id string, fn UpdateFunc) (*domain.Event, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.event.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	entry.event = working
	return working.Clone(), nil
}

// Delete removes the event aggregate
func (r *MemoryEventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[id]; !exists {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *MemoryEventRepository) entry(id string) (*eventEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.events[id]
	if !exists {
		return nil, domain.ErrEventNotFound
	}
	return entry, nil
}
