package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo against Postgres. Owner scoping is enforced in
// every statement's WHERE clause.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

const applicationColumns = `id, user_id, company_name, position_title, job_description, job_url, location_city, notes, application_date, status, priority, reminder_enabled, reminder_days, last_reminder_ack, created_at, updated_at`

// ListByOwner returns the owner's applications, most recently updated first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications
WHERE user_id = $1
ORDER BY updated_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

// GetByID fetches one application owned by ownerID.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, id string) (Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications
WHERE user_id = $1 AND id = $2
LIMIT 1`

	app, err := scanApplication(r.DB.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

// Create inserts a new application with a server-assigned id.
func (r *PGRepo) Create(ctx context.Context, app Application) (Application, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}

	const query = `
INSERT INTO applications (` + applicationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.OwnerID,
		app.CompanyName,
		app.PositionTitle,
		nullableString(app.JobDescription),
		nullableString(app.JobURL),
		nullableString(app.LocationCity),
		nullableString(app.Notes),
		app.ApplicationDate,
		string(app.Status),
		string(app.Priority),
		app.ReminderEnabled,
		app.ReminderDays,
		app.LastReminderAck,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

// Update merges the patch over the stored record inside one transaction and
// refreshes updated_at.
func (r *PGRepo) Update(ctx context.Context, ownerID, id string, patch UpdateInput) (Application, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Application{}, err
	}
	defer tx.Rollback()

	const selectQuery = `
SELECT ` + applicationColumns + `
FROM applications
WHERE user_id = $1 AND id = $2
FOR UPDATE`

	app, err := scanApplication(tx.QueryRowContext(ctx, selectQuery, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}

	app.Merge(patch, time.Now().UTC())

	const updateQuery = `
UPDATE applications
SET company_name = $1,
    position_title = $2,
    job_description = $3,
    job_url = $4,
    location_city = $5,
    notes = $6,
    application_date = $7,
    status = $8,
    priority = $9,
    reminder_enabled = $10,
    reminder_days = $11,
    last_reminder_ack = $12,
    updated_at = $13
WHERE user_id = $14 AND id = $15`

	if _, err := tx.ExecContext(ctx, updateQuery,
		app.CompanyName,
		app.PositionTitle,
		nullableString(app.JobDescription),
		nullableString(app.JobURL),
		nullableString(app.LocationCity),
		nullableString(app.Notes),
		app.ApplicationDate,
		string(app.Status),
		string(app.Priority),
		app.ReminderEnabled,
		app.ReminderDays,
		app.LastReminderAck,
		app.UpdatedAt,
		ownerID,
		id,
	); err != nil {
		return Application{}, err
	}

	if err := tx.Commit(); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Delete removes an application; absent records are not an error.
func (r *PGRepo) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM applications WHERE user_id = $1 AND id = $2`
	_, err := r.DB.ExecContext(ctx, query, ownerID, id)
	return err
}

// StatsByOwner aggregates totals, per-status counts and recent activity.
func (r *PGRepo) StatsByOwner(ctx context.Context, ownerID string) (Stats, error) {
	stats := Stats{ByStatus: []StatusCount{}, RecentActivity: []ActivityItem{}}

	const countQuery = `
SELECT status, COUNT(*)
FROM applications
WHERE user_id = $1
GROUP BY status`

	rows, err := r.DB.QueryContext(ctx, countQuery, ownerID)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		counts[Status(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	// Pipeline order, not map order.
	for _, s := range Statuses {
		if n, ok := counts[s]; ok {
			stats.ByStatus = append(stats.ByStatus, StatusCount{Status: s, Count: n})
		}
	}

	const recentQuery = `
SELECT id, company_name, position_title, status, updated_at
FROM applications
WHERE user_id = $1
ORDER BY updated_at DESC
LIMIT $2`

	recentRows, err := r.DB.QueryContext(ctx, recentQuery, ownerID, recentActivityLimit)
	if err != nil {
		return Stats{}, err
	}
	defer recentRows.Close()

	for recentRows.Next() {
		var item ActivityItem
		var status string
		if err := recentRows.Scan(&item.ID, &item.CompanyName, &item.PositionTitle, &status, &item.UpdatedAt); err != nil {
			return Stats{}, err
		}
		item.Status = Status(status)
		stats.RecentActivity = append(stats.RecentActivity, item)
	}
	if err := recentRows.Err(); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var jobDescription sql.NullString
	var jobURL sql.NullString
	var locationCity sql.NullString
	var notes sql.NullString
	var status string
	var priority string
	err := row.Scan(
		&app.ID,
		&app.OwnerID,
		&app.CompanyName,
		&app.PositionTitle,
		&jobDescription,
		&jobURL,
		&locationCity,
		&notes,
		&app.ApplicationDate,
		&status,
		&priority,
		&app.ReminderEnabled,
		&app.ReminderDays,
		&app.LastReminderAck,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return Application{}, err
	}
	if jobDescription.Valid {
		app.JobDescription = jobDescription.String
	}
	if jobURL.Valid {
		app.JobURL = jobURL.String
	}
	if locationCity.Valid {
		app.LocationCity = locationCity.String
	}
	if notes.Valid {
		app.Notes = notes.String
	}
	app.Status = Status(status)
	app.Priority = Priority(priority)
	return app, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
