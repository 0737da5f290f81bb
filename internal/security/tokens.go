package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSigningKey is returned when no signing secret is configured. This is a
	// configuration failure, not a per-request one; it surfaces on first use.
	ErrNoSigningKey = errors.New("no signing secret configured")
	// ErrInvalidToken is returned when a token is malformed or its signature does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a token's expiry is in the past.
	ErrTokenExpired = errors.New("token expired")
)

// AccessClaims holds JWT claims for the access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenProvider issues and verifies HS256 access tokens carrying the user id and
// email. Verification is pure: validity is fully determined by signature and expiry,
// never by store state. The signing secret comes from explicit configuration passed
// at construction; there is no ambient lookup inside operations.
type TokenProvider struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenProvider returns a TokenProvider signing with the given secret.
// An empty secret is accepted here; Issue and Verify fail with ErrNoSigningKey.
func NewTokenProvider(secret string, accessTTL time.Duration) *TokenProvider {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &TokenProvider{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// AccessTTL returns the configured access token lifetime.
func (p *TokenProvider) AccessTTL() time.Duration {
	return p.accessTTL
}

// Issue signs a short-lived access token for the given user. Returns the token
// string and its expiration time.
func (p *TokenProvider) Issue(userID int64, email string) (token string, expiresAt time.Time, err error) {
	if len(p.secret) == 0 {
		return "", time.Time{}, ErrNoSigningKey
	}
	now := p.now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	return token, expiresAt, err
}

// Verify parses and validates the access token (signature, exp). Returns the user
// id and email, or ErrTokenExpired when only the expiry failed, ErrInvalidToken
// for every other failure.
func (p *TokenProvider) Verify(tokenString string) (userID int64, email string, err error) {
	if len(p.secret) == 0 {
		return 0, "", ErrNoSigningKey
	}
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", ErrTokenExpired
		}
		return 0, "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return 0, "", ErrInvalidToken
	}
	userID, err = strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", ErrInvalidToken
	}
	return userID, claims.Email, nil
}
