package users

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jamie@Example.com", "correct-horse", "Jamie", "Rivera")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "jamie@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}

	got, err := svc.Authenticate(ctx, "jamie@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected same account, got %q vs %q", got.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jamie@example.com", "correct-horse", "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "JAMIE@example.com", "other-password", "", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jamie@example.com", "correct-horse", "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "jamie@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticateRejectsOAuthOnlyAccount(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	err := svc.UpsertFromOAuth(ctx, User{ID: "google:123", Email: "jamie@example.com"})
	if err != nil {
		t.Fatalf("UpsertFromOAuth: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "jamie@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for passwordless account, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "jamie@example.com", "correct-horse", "Jamie", "Rivera")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	first := "Jay"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfilePatch{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FirstName != "Jay" || updated.LastName != "Rivera" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
}

func TestChangePassword(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "jamie@example.com", "correct-horse", "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong", "new-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "correct-horse", "new-password"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "jamie@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "jamie@example.com", "new-password"); err != nil {
		t.Fatalf("expected new password accepted, got %v", err)
	}
}
