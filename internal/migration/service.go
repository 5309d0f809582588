package migration

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobtrack-backend/internal/applications"
	"jobtrack-backend/internal/shared/metrics"
	"jobtrack-backend/internal/shared/session"
	"jobtrack-backend/internal/shared/telemetry"
)

// perRecordTimeout bounds each create so one slow insert cannot stall
// the whole import.
const perRecordTimeout = 10 * time.Second

// Service copies a guest collection into an account. Each record is
// recreated remotely with fresh identity and defaults, and removed from
// the guest store only after its copy succeeds.
type Service struct {
	Guest  applications.Repo
	Remote applications.Repo
	Now    func() time.Time
}

// NewService builds a Service backed by the two storage adapters.
func NewService(guest, remote applications.Repo) *Service {
	return &Service{Guest: guest, Remote: remote, Now: func() time.Time { return time.Now().UTC() }}
}

// Result reports the outcome of one import.
type Result struct {
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
}

// Run imports every record owned by the guest session into the account.
// A failure on one record does not abort the rest; failed records stay
// in the guest store.
func (s *Service) Run(ctx context.Context, guestID, userID string) (int, int, error) {
	if strings.TrimSpace(guestID) == "" || strings.TrimSpace(userID) == "" {
		return 0, 0, errors.New("guestID and userID are required")
	}
	if s.Guest == nil || s.Remote == nil {
		return 0, 0, errors.New("migration storage not configured")
	}

	guestOwner := session.GuestPrefix + guestID
	records, err := s.Guest.ListByOwner(ctx, guestOwner)
	if err != nil {
		return 0, 0, err
	}

	migrated, failed := 0, 0
	for _, rec := range records {
		if err := s.importRecord(ctx, guestOwner, userID, rec); err != nil {
			failed++
			metrics.IncMigrationFailed()
			telemetry.Error("migration.record_failed", map[string]any{
				"user_id":        userID,
				"application_id": rec.ID,
				"error":          err.Error(),
			})
			continue
		}
		migrated++
		metrics.IncMigrationMigrated()
	}

	telemetry.Info("migration.complete", map[string]any{
		"user_id":  userID,
		"migrated": migrated,
		"failed":   failed,
	})
	return migrated, failed, nil
}

func (s *Service) importRecord(ctx context.Context, guestOwner, userID string, rec applications.Application) error {
	ctx, cancel := context.WithTimeout(ctx, perRecordTimeout)
	defer cancel()

	app := applications.New(userID, projectInput(rec), s.Now())
	if _, err := s.Remote.Create(ctx, app); err != nil {
		return err
	}

	// Copied successfully; drop the guest original so repeat imports
	// cannot duplicate it.
	if err := s.Guest.Delete(ctx, guestOwner, rec.ID); err != nil {
		telemetry.Error("migration.cleanup_failed", map[string]any{
			"application_id": rec.ID,
			"error":          err.Error(),
		})
	}
	return nil
}

// projectInput keeps only the fields an account-side create accepts.
// Reminder state and timestamps are reset so imported records behave
// like freshly created ones.
func projectInput(rec applications.Application) applications.CreateInput {
	status := rec.Status
	priority := rec.Priority
	return applications.CreateInput{
		CompanyName:    rec.CompanyName,
		PositionTitle:  rec.PositionTitle,
		JobDescription: rec.JobDescription,
		JobURL:         rec.JobURL,
		LocationCity:   rec.LocationCity,
		Notes:          rec.Notes,
		Status:         &status,
		Priority:       &priority,
	}
}
