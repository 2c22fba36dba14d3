package auth

import (
	"errors"
	"fmt"
	"time"

	"voxpop/internal/config"
	"voxpop/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and verifies signed, time-limited access tokens.
// A token is self-contained: validity is computable from its signature and
// expiry alone, so there is no session store and no revocation before expiry.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService from configuration. The algorithm
// name (e.g. "HS256") must resolve to an HMAC signing method; asymmetric
// algorithms would need a key pair the config surface does not carry.
func NewTokenService(cfg *config.Config) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", cfg.Algorithm)
	}
	return &TokenService{
		secret: []byte(cfg.SecretKey),
		method: method,
		ttl:    time.Duration(cfg.TokenTTLMin) * time.Minute,
		now:    time.Now,
	}, nil
}

// WithTimeFunc returns a copy of the service using now as its clock.
// Tests use this to step past the TTL deterministically.
func (t *TokenService) WithTimeFunc(now func() time.Time) *TokenService {
	cp := *t
	cp.now = now
	return &cp
}

// Issue creates a signed token for the given user ID, expiring after the
// configured TTL.
func (t *TokenService) Issue(userID uint) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(t.ttl).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.New().String(),
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token, returning the user ID it carries.
// Failures are AppErrors: AUTH_EXPIRED when the signature is valid but the
// token is past its expiry, AUTH_INVALID for everything else (bad signature,
// structural corruption, missing user_id claim).
func (t *TokenService) Verify(tokenString string) (uint, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{t.method.Alg()}), jwt.WithTimeFunc(t.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, models.NewAuthExpiredError("Token expired, please log in again")
		}
		return 0, models.NewAuthInvalidError("Could not validate credentials")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewAuthInvalidError("Could not validate credentials")
	}

	// JSON numbers decode as float64
	idClaim, ok := claims["user_id"].(float64)
	if !ok || idClaim <= 0 {
		return 0, models.NewAuthInvalidError("Could not validate credentials")
	}

	return uint(idClaim), nil
}
