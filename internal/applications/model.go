package applications

import "time"

// Status is a stage in the application pipeline, ordered by typical progression.
type Status string

const (
	StatusApplied            Status = "APPLIED"
	StatusScreening          Status = "SCREENING"
	StatusPhoneInterview     Status = "PHONE_INTERVIEW"
	StatusTechnicalInterview Status = "TECHNICAL_INTERVIEW"
	StatusOnsiteInterview    Status = "ONSITE_INTERVIEW"
	StatusOfferReceived      Status = "OFFER_RECEIVED"
	StatusAccepted           Status = "ACCEPTED"
	StatusRejected           Status = "REJECTED"
	StatusWithdrawn          Status = "WITHDRAWN"
)

// Statuses lists every valid status in pipeline order.
var Statuses = []Status{
	StatusApplied,
	StatusScreening,
	StatusPhoneInterview,
	StatusTechnicalInterview,
	StatusOnsiteInterview,
	StatusOfferReceived,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

// ValidStatus reports whether raw is a member of the status taxonomy.
func ValidStatus(raw string) bool {
	for _, s := range Statuses {
		if Status(raw) == s {
			return true
		}
	}
	return false
}

// TerminalForReminders reports whether the status suppresses reminder
// evaluation. Transitions into and out of these statuses stay unguarded.
func (s Status) TerminalForReminders() bool {
	return s == StatusRejected || s == StatusWithdrawn
}

// Priority is the user-assigned importance of an application.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ValidPriority reports whether raw is a member of the priority taxonomy.
func ValidPriority(raw string) bool {
	switch Priority(raw) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	// DefaultReminderDays is the follow-up cadence applied when none is given.
	DefaultReminderDays = 7
	// MaxReminderDays bounds the cadence a caller may set.
	MaxReminderDays = 365
)

// Application is a single tracked job application. The JSON tags double as
// the guest collection file format, so records round-trip between the guest
// store and the API unchanged.
type Application struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"userId"`
	CompanyName     string    `json:"companyName"`
	PositionTitle   string    `json:"positionTitle"`
	JobDescription  string    `json:"jobDescription,omitempty"`
	JobURL          string    `json:"jobUrl,omitempty"`
	LocationCity    string    `json:"locationCity,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ApplicationDate time.Time `json:"applicationDate"`
	Status          Status    `json:"status"`
	Priority        Priority  `json:"priority"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	ReminderDays    int       `json:"reminderDays"`
	LastReminderAck time.Time `json:"lastReminderAck"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// New builds a fully defaulted record from validated input. The ID is left
// empty; each storage adapter assigns its own identifier scheme on create.
func New(ownerID string, in CreateInput, now time.Time) Application {
	app := Application{
		OwnerID:         ownerID,
		CompanyName:     in.CompanyName,
		PositionTitle:   in.PositionTitle,
		JobDescription:  in.JobDescription,
		JobURL:          in.JobURL,
		LocationCity:    in.LocationCity,
		Notes:           in.Notes,
		ApplicationDate: now,
		Status:          StatusApplied,
		Priority:        PriorityMedium,
		ReminderEnabled: true,
		ReminderDays:    DefaultReminderDays,
		LastReminderAck: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.ApplicationDate != nil {
		app.ApplicationDate = *in.ApplicationDate
	}
	if in.Status != nil {
		app.Status = *in.Status
	}
	if in.Priority != nil {
		app.Priority = *in.Priority
	}
	if in.ReminderEnabled != nil {
		app.ReminderEnabled = *in.ReminderEnabled
	}
	if in.ReminderDays != nil {
		app.ReminderDays = *in.ReminderDays
	}
	return app
}

// Merge overlays the set fields of patch onto the record and refreshes
// UpdatedAt. Unset fields are untouched.
func (a *Application) Merge(patch UpdateInput, now time.Time) {
	if patch.CompanyName != nil {
		a.CompanyName = *patch.CompanyName
	}
	if patch.PositionTitle != nil {
		a.PositionTitle = *patch.PositionTitle
	}
	if patch.JobDescription != nil {
		a.JobDescription = *patch.JobDescription
	}
	if patch.JobURL != nil {
		a.JobURL = *patch.JobURL
	}
	if patch.LocationCity != nil {
		a.LocationCity = *patch.LocationCity
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.ApplicationDate != nil {
		a.ApplicationDate = *patch.ApplicationDate
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Priority != nil {
		a.Priority = *patch.Priority
	}
	if patch.ReminderEnabled != nil {
		a.ReminderEnabled = *patch.ReminderEnabled
	}
	if patch.ReminderDays != nil {
		a.ReminderDays = *patch.ReminderDays
	}
	if patch.LastReminderAck != nil {
		a.LastReminderAck = *patch.LastReminderAck
	}
	a.UpdatedAt = now
}
