package applications

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"time"

	"jobtrack-backend/internal/shared/telemetry"
	"jobtrack-backend/internal/shared/util"
)

// GuestRepo implements Repo for guest sessions: one JSON collection file per
// guest id, rewritten wholesale on every mutation. A mutex guards the whole
// read-modify-write cycle; collections are small (hundreds of records at
// most) so full rewrites are fine.
type GuestRepo struct {
	baseDir string

	mu       sync.Mutex
	upgraded map[string]struct{} // owner ids whose collection was backfilled this process
}

var _ Repo = (*GuestRepo)(nil)

// NewGuestRepo constructs a GuestRepo rooted at baseDir.
func NewGuestRepo(baseDir string) *GuestRepo {
	return &GuestRepo{
		baseDir:  baseDir,
		upgraded: make(map[string]struct{}),
	}
}

// ListByOwner returns all records in storage order.
func (r *GuestRepo) ListByOwner(ctx context.Context, ownerID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ownerID)
}

// GetByID returns the matching record or ErrNotFound.
func (r *GuestRepo) GetByID(ctx context.Context, ownerID, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.load(ownerID)
	if err != nil {
		return Application{}, err
	}
	for i := range apps {
		if apps[i].ID == id {
			return apps[i], nil
		}
	}
	return Application{}, ErrNotFound
}

// Create appends the record with a locally generated id and persists the
// whole collection.
func (r *GuestRepo) Create(ctx context.Context, app Application) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.load(app.OwnerID)
	if err != nil {
		return Application{}, err
	}
	if app.ID == "" {
		app.ID = newGuestID()
	}
	apps = append(apps, app)
	if err := r.save(app.OwnerID, apps); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Update merges the patch over the stored record and persists the collection.
func (r *GuestRepo) Update(ctx context.Context, ownerID, id string, patch UpdateInput) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.load(ownerID)
	if err != nil {
		return Application{}, err
	}
	for i := range apps {
		if apps[i].ID == id {
			apps[i].Merge(patch, time.Now().UTC())
			if err := r.save(ownerID, apps); err != nil {
				return Application{}, err
			}
			return apps[i], nil
		}
	}
	return Application{}, ErrNotFound
}

// Delete removes the record if present; deleting an absent id is a no-op.
func (r *GuestRepo) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.load(ownerID)
	if err != nil {
		return err
	}
	kept := apps[:0]
	for _, app := range apps {
		if app.ID != id {
			kept = append(kept, app)
		}
	}
	if len(kept) == len(apps) {
		return nil
	}
	return r.save(ownerID, kept)
}

// StatsByOwner folds the collection in memory.
func (r *GuestRepo) StatsByOwner(ctx context.Context, ownerID string) (Stats, error) {
	apps, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	return foldStats(apps), nil
}

// load reads the owner's collection. The first read of a collection in this
// process backfills reminder fields missing from records written by older
// versions of the store, rewriting the file once if anything changed.
func (r *GuestRepo) load(ownerID string) ([]Application, error) {
	data, err := os.ReadFile(r.collectionPath(ownerID))
	if err != nil {
		if os.IsNotExist(err) {
			return []Application{}, nil
		}
		return nil, fmt.Errorf("read guest collection: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode guest collection: %w", err)
	}

	_, alreadyUpgraded := r.upgraded[ownerID]

	apps := make([]Application, 0, len(raws))
	changed := false
	for _, raw := range raws {
		var app Application
		if err := json.Unmarshal(raw, &app); err != nil {
			return nil, fmt.Errorf("decode guest record: %w", err)
		}
		if !alreadyUpgraded && backfillReminderFields(&app, raw) {
			changed = true
		}
		apps = append(apps, app)
	}

	if !alreadyUpgraded {
		r.upgraded[ownerID] = struct{}{}
		if changed {
			if err := r.save(ownerID, apps); err != nil {
				return nil, err
			}
			telemetry.Info("guest.collection_upgraded", map[string]any{
				"owner_id": ownerID,
				"records":  len(apps),
			})
		}
	}
	return apps, nil
}

// backfillReminderFields fills reminder fields absent from the serialized
// record: enabled=true, cadence=7 days, last ack = the record's updatedAt.
func backfillReminderFields(app *Application, raw json.RawMessage) bool {
	var probe struct {
		ReminderEnabled *bool      `json:"reminderEnabled"`
		ReminderDays    *int       `json:"reminderDays"`
		LastReminderAck *time.Time `json:"lastReminderAck"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}

	changed := false
	if probe.ReminderEnabled == nil {
		app.ReminderEnabled = true
		changed = true
	}
	if probe.ReminderDays == nil {
		app.ReminderDays = DefaultReminderDays
		changed = true
	}
	if probe.LastReminderAck == nil {
		app.LastReminderAck = app.UpdatedAt
		changed = true
	}
	return changed
}

func (r *GuestRepo) save(ownerID string, apps []Application) error {
	if err := os.MkdirAll(r.baseDir, 0o755); err != nil {
		return fmt.Errorf("mkdir guest store: %w", err)
	}
	data, err := json.Marshal(apps)
	if err != nil {
		return fmt.Errorf("encode guest collection: %w", err)
	}
	if err := os.WriteFile(r.collectionPath(ownerID), data, 0o644); err != nil {
		return fmt.Errorf("write guest collection: %w", err)
	}
	return nil
}

func (r *GuestRepo) collectionPath(ownerID string) string {
	return filepath.Join(r.baseDir, util.HashUserKey(ownerID)+".json")
}

const guestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newGuestID derives an id from the current time plus a random suffix.
// Collisions are not safety-critical in a single guest's collection.
func newGuestID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(guestIDAlphabet))))
		if err != nil {
			n = big.NewInt(time.Now().UnixNano() % int64(len(guestIDAlphabet)))
		}
		suffix[i] = guestIDAlphabet[n.Int64()]
	}
	return fmt.Sprintf("app_%d_%s", time.Now().UnixMilli(), suffix)
}
