package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO users").
		WithArgs("user-1", "jamie@example.com", sqlmock.AnyArg(), nil, nil, nil).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`))

	err = repo.Create(context.Background(), User{ID: "user-1", Email: "jamie@example.com", PasswordHash: "hash"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPGRepoGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "email", "password_hash", "first_name", "last_name", "picture_url", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("jamie@example.com").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("user-1", "jamie@example.com", "hash", "Jamie", nil, nil, now, now))

	user, err := repo.GetByEmail(context.Background(), "jamie@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != "user-1" || user.FirstName != "Jamie" || user.LastName != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestPGRepoUpdateMissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE users").
		WithArgs("jamie@example.com", sqlmock.AnyArg(), nil, nil, nil, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), User{ID: "missing", Email: "jamie@example.com", PasswordHash: "hash"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
