package reminders

import (
	"context"
	"time"

	"jobtrack-backend/internal/applications"
	"jobtrack-backend/internal/shared/metrics"
	"jobtrack-backend/internal/shared/session"
)

// DueReminder is the reduced projection surfaced on the notification path;
// the full record stays behind the applications API.
type DueReminder struct {
	ID              string              `json:"id"`
	CompanyName     string              `json:"companyName"`
	PositionTitle   string              `json:"positionTitle"`
	Status          applications.Status `json:"status"`
	ReminderDays    int                 `json:"reminderDays"`
	LastReminderAck time.Time           `json:"lastReminderAck"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// Service evaluates which of a caller's applications are due for follow-up.
type Service struct {
	Apps *applications.Service
	Now  func() time.Time
}

// NewService constructs a Service over the applications facade.
func NewService(apps *applications.Service) *Service {
	return &Service{Apps: apps, Now: func() time.Time { return time.Now().UTC() }}
}

// Due returns the caller's due reminders. A record is due when its cadence
// has elapsed since the last acknowledgment (boundary-inclusive), unless
// reminders are disabled or the application reached a terminal status.
func (s *Service) Due(ctx context.Context, p session.Principal) ([]DueReminder, error) {
	apps, err := s.Apps.List(ctx, p)
	if err != nil {
		return nil, err
	}
	metrics.IncRemindersEvaluated()

	now := s.Now()
	due := []DueReminder{}
	for _, app := range apps {
		if !app.ReminderEnabled || app.Status.TerminalForReminders() {
			continue
		}
		dueAt := app.LastReminderAck.AddDate(0, 0, app.ReminderDays)
		if now.Before(dueAt) {
			continue
		}
		due = append(due, DueReminder{
			ID:              app.ID,
			CompanyName:     app.CompanyName,
			PositionTitle:   app.PositionTitle,
			Status:          app.Status,
			ReminderDays:    app.ReminderDays,
			LastReminderAck: app.LastReminderAck,
			UpdatedAt:       app.UpdatedAt,
		})
	}
	return due, nil
}

// Acknowledge resets the reminder clock for one application. A missing id
// fails with applications.ErrNotFound in both storage modes.
func (s *Service) Acknowledge(ctx context.Context, p session.Principal, id string) (applications.Application, error) {
	now := s.Now()
	app, err := s.Apps.Update(ctx, p, id, applications.UpdateInput{LastReminderAck: &now})
	if err != nil {
		return applications.Application{}, err
	}
	metrics.IncRemindersAcked()
	return app, nil
}
