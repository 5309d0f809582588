package applications

import (
	"context"
	"errors"
	"time"

	"jobtrack-backend/internal/shared/metrics"
	"jobtrack-backend/internal/shared/session"
)

// Service is the single CRUD surface all callers use. It routes each call to
// the guest or remote adapter based on the caller's principal, read per call
// so a session that flips from guest to registered is honored on the next
// operation. Beyond routing and default-filling it performs no
// transformation of its own.
type Service struct {
	Remote Repo
	Guest  Repo
	Now    func() time.Time
}

// NewService constructs a Service over the two adapters.
func NewService(remote, guest Repo) *Service {
	return &Service{Remote: remote, Guest: guest, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) repoFor(p session.Principal) (Repo, error) {
	if p.UserID == "" {
		return nil, errors.New("missing principal")
	}
	if p.Guest {
		if s.Guest == nil {
			return nil, errors.New("guest store not configured")
		}
		return s.Guest, nil
	}
	if s.Remote == nil {
		return nil, errors.New("remote store not configured")
	}
	return s.Remote, nil
}

// List returns every application owned by the caller.
func (s *Service) List(ctx context.Context, p session.Principal) ([]Application, error) {
	repo, err := s.repoFor(p)
	if err != nil {
		return nil, err
	}
	return repo.ListByOwner(ctx, p.UserID)
}

// Get fetches one application by id.
func (s *Service) Get(ctx context.Context, p session.Principal, id string) (Application, error) {
	repo, err := s.repoFor(p)
	if err != nil {
		return Application{}, err
	}
	return repo.GetByID(ctx, p.UserID, id)
}

// Create stores a new application with defaults filled from the input.
func (s *Service) Create(ctx context.Context, p session.Principal, in CreateInput) (Application, error) {
	repo, err := s.repoFor(p)
	if err != nil {
		return Application{}, err
	}
	app, err := repo.Create(ctx, New(p.UserID, in, s.Now()))
	if err != nil {
		return Application{}, err
	}
	metrics.IncApplicationsCreated()
	return app, nil
}

// Update merges a partial patch into an existing application.
func (s *Service) Update(ctx context.Context, p session.Principal, id string, patch UpdateInput) (Application, error) {
	repo, err := s.repoFor(p)
	if err != nil {
		return Application{}, err
	}
	return repo.Update(ctx, p.UserID, id, patch)
}

// Delete removes an application; absent ids are not an error.
func (s *Service) Delete(ctx context.Context, p session.Principal, id string) error {
	repo, err := s.repoFor(p)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, p.UserID, id)
}

// Stats aggregates the caller's applications for the analytics surface.
func (s *Service) Stats(ctx context.Context, p session.Principal) (Stats, error) {
	repo, err := s.repoFor(p)
	if err != nil {
		return Stats{}, err
	}
	return repo.StatsByOwner(ctx, p.UserID)
}
