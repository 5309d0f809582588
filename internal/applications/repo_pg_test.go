package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var applicationTestColumns = []string{
	"id", "user_id", "company_name", "position_title", "job_description",
	"job_url", "location_city", "notes", "application_date", "status",
	"priority", "reminder_enabled", "reminder_days", "last_reminder_ack",
	"created_at", "updated_at",
}

func TestPGRepoCreateInsertsAllFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	app := New("user-1", CreateInput{
		CompanyName:   "Initech",
		PositionTitle: "Backend Engineer",
		JobURL:        "https://initech.example/jobs/42",
	}, now)
	app.ID = "app-1"

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(
			"app-1",
			"user-1",
			"Initech",
			"Backend Engineer",
			nil, // job_description
			"https://initech.example/jobs/42",
			nil, // location_city
			nil, // notes
			now,
			string(StatusApplied),
			string(PriorityMedium),
			true,
			DefaultReminderDays,
			now,
			now,
			now,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.Create(context.Background(), app)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "app-1" {
		t.Fatalf("unexpected id %q", created.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateAssignsIDWhenEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	app := New("user-1", CreateInput{CompanyName: "Initech", PositionTitle: "SRE"}, now)

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(
			sqlmock.AnyArg(), // id
			"user-1",
			"Initech",
			"SRE",
			nil,
			nil,
			nil,
			nil,
			now,
			string(StatusApplied),
			string(PriorityMedium),
			true,
			DefaultReminderDays,
			now,
			now,
			now,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.Create(context.Background(), app)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows(applicationTestColumns))

	_, err = repo.GetByID(context.Background(), "user-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateMergesPatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("user-1", "app-1").
		WillReturnRows(sqlmock.NewRows(applicationTestColumns).AddRow(
			"app-1", "user-1", "Initech", "Backend Engineer", nil,
			nil, nil, nil, now, string(StatusApplied),
			string(PriorityMedium), true, DefaultReminderDays, now,
			now, now,
		))
	mock.ExpectExec("UPDATE applications").
		WithArgs(
			"Initech",
			"Backend Engineer",
			nil,
			nil,
			nil,
			nil,
			now,
			string(StatusScreening),
			string(PriorityMedium),
			true,
			DefaultReminderDays,
			now,
			sqlmock.AnyArg(), // updated_at
			"user-1",
			"app-1",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status := StatusScreening
	updated, err := repo.Update(context.Background(), "user-1", "app-1", UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusScreening {
		t.Fatalf("expected status %s, got %s", StatusScreening, updated.Status)
	}
	if !updated.UpdatedAt.After(now) {
		t.Fatalf("expected updated_at to advance")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMissingRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows(applicationTestColumns))
	mock.ExpectRollback()

	_, err = repo.Update(context.Background(), "user-1", "missing", UpdateInput{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoStatsByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT status, COUNT").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(string(StatusScreening), 1).
			AddRow(string(StatusApplied), 3))
	mock.ExpectQuery("SELECT id, company_name").
		WithArgs("user-1", recentActivityLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name", "position_title", "status", "updated_at"}).
			AddRow("app-2", "Globex", "SRE", string(StatusScreening), now))

	stats, err := repo.StatsByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("StatsByOwner: %v", err)
	}
	if stats.Total != 4 {
		t.Fatalf("expected total 4, got %d", stats.Total)
	}
	// Buckets come back in pipeline order regardless of row order.
	if len(stats.ByStatus) != 2 || stats.ByStatus[0].Status != StatusApplied || stats.ByStatus[1].Status != StatusScreening {
		t.Fatalf("unexpected status buckets: %+v", stats.ByStatus)
	}
	if len(stats.RecentActivity) != 1 || stats.RecentActivity[0].ID != "app-2" {
		t.Fatalf("unexpected recent activity: %+v", stats.RecentActivity)
	}
}
