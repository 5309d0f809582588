package applications

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// FieldError carries field-level validation detail back to the caller.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreateInput is a validated, normalized create payload.
type CreateInput struct {
	CompanyName     string
	PositionTitle   string
	JobDescription  string
	JobURL          string
	LocationCity    string
	Notes           string
	ApplicationDate *time.Time
	Status          *Status
	Priority        *Priority
	ReminderEnabled *bool
	ReminderDays    *int
}

// UpdateInput is a validated partial update; nil fields are left untouched.
type UpdateInput struct {
	CompanyName     *string
	PositionTitle   *string
	JobDescription  *string
	JobURL          *string
	LocationCity    *string
	Notes           *string
	ApplicationDate *time.Time
	Status          *Status
	Priority        *Priority
	ReminderEnabled *bool
	ReminderDays    *int
	LastReminderAck *time.Time
}

type applicationRequest struct {
	CompanyName     *string `json:"companyName"`
	PositionTitle   *string `json:"positionTitle"`
	JobDescription  *string `json:"jobDescription"`
	JobURL          *string `json:"jobUrl"`
	LocationCity    *string `json:"locationCity"`
	Notes           *string `json:"notes"`
	ApplicationDate *string `json:"applicationDate"`
	Status          *string `json:"status"`
	Priority        *string `json:"priority"`
	ReminderEnabled *bool   `json:"reminderEnabled"`
	ReminderDays    *int    `json:"reminderDays"`
}

// DecodeCreate parses and validates a create payload. Unknown fields are
// rejected outright; validation failures are reported before any mutation.
func DecodeCreate(r io.Reader) (CreateInput, []FieldError) {
	req, ferr := decodeStrict(r)
	if ferr != nil {
		return CreateInput{}, ferr
	}

	var errs []FieldError
	in := CreateInput{}

	in.CompanyName = requireText(&errs, "companyName", req.CompanyName, 200)
	in.PositionTitle = requireText(&errs, "positionTitle", req.PositionTitle, 200)
	in.JobDescription = optionalText(&errs, "jobDescription", req.JobDescription, 10000)
	in.JobURL = optionalURL(&errs, "jobUrl", req.JobURL)
	in.LocationCity = optionalText(&errs, "locationCity", req.LocationCity, 100)
	in.Notes = optionalText(&errs, "notes", req.Notes, 5000)
	in.ApplicationDate = optionalTime(&errs, "applicationDate", req.ApplicationDate)
	in.Status = optionalStatus(&errs, req.Status)
	in.Priority = optionalPriority(&errs, req.Priority)
	in.ReminderEnabled = req.ReminderEnabled
	in.ReminderDays = optionalReminderDays(&errs, req.ReminderDays)

	if len(errs) > 0 {
		return CreateInput{}, errs
	}
	return in, nil
}

// DecodeUpdate parses and validates a partial update payload.
func DecodeUpdate(r io.Reader) (UpdateInput, []FieldError) {
	req, ferr := decodeStrict(r)
	if ferr != nil {
		return UpdateInput{}, ferr
	}

	var errs []FieldError
	in := UpdateInput{}

	if req.CompanyName != nil {
		v := requireText(&errs, "companyName", req.CompanyName, 200)
		in.CompanyName = &v
	}
	if req.PositionTitle != nil {
		v := requireText(&errs, "positionTitle", req.PositionTitle, 200)
		in.PositionTitle = &v
	}
	if req.JobDescription != nil {
		v := optionalText(&errs, "jobDescription", req.JobDescription, 10000)
		in.JobDescription = &v
	}
	if req.JobURL != nil {
		v := optionalURL(&errs, "jobUrl", req.JobURL)
		in.JobURL = &v
	}
	if req.LocationCity != nil {
		v := optionalText(&errs, "locationCity", req.LocationCity, 100)
		in.LocationCity = &v
	}
	if req.Notes != nil {
		v := optionalText(&errs, "notes", req.Notes, 5000)
		in.Notes = &v
	}
	in.ApplicationDate = optionalTime(&errs, "applicationDate", req.ApplicationDate)
	in.Status = optionalStatus(&errs, req.Status)
	in.Priority = optionalPriority(&errs, req.Priority)
	in.ReminderEnabled = req.ReminderEnabled
	in.ReminderDays = optionalReminderDays(&errs, req.ReminderDays)

	if len(errs) > 0 {
		return UpdateInput{}, errs
	}
	return in, nil
}

func decodeStrict(r io.Reader) (applicationRequest, []FieldError) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var req applicationRequest
	if err := dec.Decode(&req); err != nil {
		return applicationRequest{}, []FieldError{{Field: "body", Message: bodyErrorMessage(err)}}
	}
	return req, nil
}

func bodyErrorMessage(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "unknown field") {
		return msg
	}
	return "invalid request body"
}

func requireText(errs *[]FieldError, field string, raw *string, max int) string {
	if raw == nil {
		*errs = append(*errs, FieldError{Field: field, Message: field + " is required"})
		return ""
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		*errs = append(*errs, FieldError{Field: field, Message: field + " is required"})
		return ""
	}
	if len(v) > max {
		*errs = append(*errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, max)})
		return ""
	}
	return v
}

func optionalText(errs *[]FieldError, field string, raw *string, max int) string {
	if raw == nil {
		return ""
	}
	v := strings.TrimSpace(*raw)
	if len(v) > max {
		*errs = append(*errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, max)})
		return ""
	}
	return v
}

func optionalURL(errs *[]FieldError, field string, raw *string) string {
	if raw == nil {
		return ""
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return ""
	}
	if len(v) > 2000 {
		*errs = append(*errs, FieldError{Field: field, Message: field + " must be at most 2000 characters"})
		return ""
	}
	parsed, err := url.Parse(v)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		*errs = append(*errs, FieldError{Field: field, Message: field + " must be a valid http(s) URL"})
		return ""
	}
	return v
}

func optionalTime(errs *[]FieldError, field string, raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	v, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: field + " must be an RFC 3339 timestamp"})
		return nil
	}
	return &v
}

func optionalStatus(errs *[]FieldError, raw *string) *Status {
	if raw == nil {
		return nil
	}
	if !ValidStatus(*raw) {
		*errs = append(*errs, FieldError{Field: "status", Message: "status must be one of the known pipeline stages"})
		return nil
	}
	v := Status(*raw)
	return &v
}

func optionalPriority(errs *[]FieldError, raw *string) *Priority {
	if raw == nil {
		return nil
	}
	if !ValidPriority(*raw) {
		*errs = append(*errs, FieldError{Field: "priority", Message: "priority must be LOW, MEDIUM or HIGH"})
		return nil
	}
	v := Priority(*raw)
	return &v
}

func optionalReminderDays(errs *[]FieldError, raw *int) *int {
	if raw == nil {
		return nil
	}
	if *raw < 1 || *raw > MaxReminderDays {
		*errs = append(*errs, FieldError{Field: "reminderDays", Message: fmt.Sprintf("reminderDays must be between 1 and %d", MaxReminderDays)})
		return nil
	}
	return raw
}
