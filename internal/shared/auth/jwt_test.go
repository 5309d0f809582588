package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	token, err := SignJWT(Claims{Sub: "user-1", Email: "jamie@example.com", Name: "Jamie"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "user-1" || claims.Email != "jamie@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp <= claims.Iat {
		t.Fatalf("expected exp after iat: %+v", claims)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	token, err := SignJWT(Claims{Sub: "user-1"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "bad-signature"
	if _, err := VerifyJWT(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	refresh, err := SignRefreshJWT(Claims{Sub: "user-1"})
	if err != nil {
		t.Fatalf("SignRefreshJWT: %v", err)
	}

	if _, err := VerifyJWT(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected access verification to reject refresh token, got %v", err)
	}
	if _, err := VerifyRefreshJWT(refresh); err != nil {
		t.Fatalf("VerifyRefreshJWT: %v", err)
	}
}

func TestSignRequiresSubject(t *testing.T) {
	if _, err := SignJWT(Claims{}); err == nil {
		t.Fatalf("expected error for empty sub")
	}
}
