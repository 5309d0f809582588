package applications

import (
	"context"
	"time"
)

// Repo defines the storage contract shared by the guest and remote adapters.
// Every operation is scoped to an owner; a record belonging to someone else
// is indistinguishable from a missing one.
type Repo interface {
	ListByOwner(ctx context.Context, ownerID string) ([]Application, error)
	GetByID(ctx context.Context, ownerID, id string) (Application, error)
	Create(ctx context.Context, app Application) (Application, error)
	Update(ctx context.Context, ownerID, id string, patch UpdateInput) (Application, error)
	Delete(ctx context.Context, ownerID, id string) error
	StatsByOwner(ctx context.Context, ownerID string) (Stats, error)
}

// Stats summarizes an owner's applications for the analytics surface.
type Stats struct {
	Total          int            `json:"totalApplications"`
	ByStatus       []StatusCount  `json:"byStatus"`
	RecentActivity []ActivityItem `json:"recentActivity"`
}

// StatusCount is the number of applications in one status.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// ActivityItem is a recently updated application, reduced for display.
type ActivityItem struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"companyName"`
	PositionTitle string    `json:"positionTitle"`
	Status        Status    `json:"status"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// recentActivityLimit caps the activity feed in stats.
const recentActivityLimit = 5
