package applications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process Repo for local development and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	apps map[string]map[string]Application // ownerID -> id -> record
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{apps: make(map[string]map[string]Application)}
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Application, 0, len(r.apps[ownerID]))
	for _, app := range r.apps[ownerID] {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.apps[ownerID][id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if r.apps[app.OwnerID] == nil {
		r.apps[app.OwnerID] = make(map[string]Application)
	}
	r.apps[app.OwnerID][app.ID] = app
	return app, nil
}

func (r *MemoryRepo) Update(ctx context.Context, ownerID, id string, patch UpdateInput) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[ownerID][id]
	if !ok {
		return Application{}, ErrNotFound
	}
	app.Merge(patch, time.Now().UTC())
	r.apps[ownerID][id] = app
	return app, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.apps[ownerID], id)
	return nil
}

func (r *MemoryRepo) StatsByOwner(ctx context.Context, ownerID string) (Stats, error) {
	apps, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	return foldStats(apps), nil
}

// foldStats computes the analytics summary from a full collection. Status
// buckets follow pipeline order; the activity feed takes the most recently
// updated records.
func foldStats(apps []Application) Stats {
	stats := Stats{Total: len(apps), ByStatus: []StatusCount{}, RecentActivity: []ActivityItem{}}

	counts := make(map[Status]int)
	for _, app := range apps {
		counts[app.Status]++
	}
	for _, s := range Statuses {
		if n, ok := counts[s]; ok {
			stats.ByStatus = append(stats.ByStatus, StatusCount{Status: s, Count: n})
		}
	}

	sorted := make([]Application, len(apps))
	copy(sorted, apps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	for i, app := range sorted {
		if i == recentActivityLimit {
			break
		}
		stats.RecentActivity = append(stats.RecentActivity, ActivityItem{
			ID:            app.ID,
			CompanyName:   app.CompanyName,
			PositionTitle: app.PositionTitle,
			Status:        app.Status,
			UpdatedAt:     app.UpdatedAt,
		})
	}
	return stats
}
