package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Claims represents the identity contained in a JWT.
type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Exp   int64  `json:"exp,omitempty"`
	Iat   int64  `json:"iat,omitempty"`
}

const (
	accessTokenTTL  = 7 * 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// SignJWT signs the given claims with HS256 using the configured secret.
func SignJWT(claims Claims) (string, error) {
	secret, err := secretKey("JWT_SECRET", "dev-secret")
	if err != nil {
		return "", err
	}
	return sign(claims, secret, accessTokenTTL)
}

// SignRefreshJWT signs a refresh token with the refresh secret and a longer TTL.
func SignRefreshJWT(claims Claims) (string, error) {
	secret, err := secretKey("JWT_REFRESH_SECRET", "dev-refresh-secret")
	if err != nil {
		return "", err
	}
	return sign(claims, secret, refreshTokenTTL)
}

// VerifyJWT verifies an access token and returns its claims.
func VerifyJWT(token string) (Claims, error) {
	secret, err := secretKey("JWT_SECRET", "dev-secret")
	if err != nil {
		return Claims{}, err
	}
	return verify(token, secret)
}

// VerifyRefreshJWT verifies a refresh token and returns its claims.
func VerifyRefreshJWT(token string) (Claims, error) {
	secret, err := secretKey("JWT_REFRESH_SECRET", "dev-refresh-secret")
	if err != nil {
		return Claims{}, err
	}
	return verify(token, secret)
}

func sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}

	now := time.Now().UTC().Unix()
	if claims.Iat == 0 {
		claims.Iat = now
	}
	if claims.Exp == 0 {
		claims.Exp = now + int64(ttl/time.Second)
	}

	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	segments := []string{
		base64.RawURLEncoding.EncodeToString(headerJSON),
		base64.RawURLEncoding.EncodeToString(payloadJSON),
	}
	signingInput := strings.Join(segments, ".")

	sig := signHMAC(signingInput, secret)
	segments = append(segments, sig)
	return strings.Join(segments, "."), nil
}

func verify(token string, secret []byte) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	signingInput := strings.Join(parts[0:2], ".")
	expectedSig := signHMAC(signingInput, secret)
	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return Claims{}, ErrInvalidToken
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}

	if claims.Sub == "" {
		return Claims{}, ErrInvalidToken
	}

	if claims.Exp > 0 && time.Now().UTC().Unix() > claims.Exp {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

func signHMAC(input string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func secretKey(envKey, devFallback string) ([]byte, error) {
	secret := strings.TrimSpace(os.Getenv(envKey))
	env := strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	if env == "production" || env == "prod" {
		if secret == "" {
			return nil, fmt.Errorf("%w: %s required in production", errMissingSecret, envKey)
		}
	}
	if secret == "" {
		secret = devFallback
	}
	return []byte(secret), nil
}
