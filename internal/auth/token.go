package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewTokenIssuerFromConfig builds an issuer from JWT_* settings.
func NewTokenIssuerFromConfig(cfg *config.Config) *TokenIssuer {
	return NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL())
}

// TTL returns the lifetime of issued tokens.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token whose subject is userID.
func (t *TokenIssuer) Issue(userID uint) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": t.issuer,
		"aud": t.audience,
		"exp": now.Add(t.ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm, expiry, issuer and audience and
// returns the subject user id. Every failure is an INVALID_TOKEN AppError.
func (t *TokenIssuer) Parse(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return 0, models.NewInvalidTokenError(err)
	}
	if !token.Valid {
		return 0, models.NewInvalidTokenError(errors.New("token is not valid"))
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, models.NewInvalidTokenError(errors.New("missing subject"))
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewInvalidTokenError(fmt.Errorf("invalid subject %q", sub))
	}
	return uint(id), nil
}
