package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// RefreshTokenBytes is the entropy of a refresh token before hex encoding.
const RefreshTokenBytes = 64

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes JWT payload.
type Claims struct {
	VetID string `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TTL returns the lifetime of issued access tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// GenerateAccessToken builds and signs a JWT for the vet.
func (tm *TokenManager) GenerateAccessToken(vetID, email string) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		VetID: vetID,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   vetID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry and returns claims.
// Failures wrap the jwt sentinel errors so callers can tell expiry from forgery.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: unexpected signing method %v", jwt.ErrTokenSignatureInvalid, token.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", jwt.ErrTokenInvalidClaims)
	}
	if claims.VetID == "" || claims.VetID != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}

// GenerateRefreshToken returns a hex encoded random token.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, RefreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(errors.New("generate refresh token"), err)
	}
	return hex.EncodeToString(buf), nil
}
