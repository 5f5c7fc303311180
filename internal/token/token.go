package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"auth-gateway/internal/auth"
)

var (
	// ErrMalformed means the token could not be decoded or its
	// signature did not check out.
	ErrMalformed = errors.New("token malformed")
	// ErrExpired means the token carried an expiry claim that has
	// passed.
	ErrExpired = errors.New("token expired")
)

// Claims represents JWT claims with the account role and issue flags.
type Claims struct {
	jwt.RegisteredClaims
	Role      auth.Role `json:"role"`
	Temporary bool      `json:"tmp,omitempty"`
}

// Principal is the verified content of a bearer token. A verified
// principal is trusted at face value; there is no cross-check against
// a live user record.
type Principal struct {
	SubjectID string
	Role      auth.Role
	Temporary bool
}

// Issuer mints and verifies bearer tokens signed with a symmetric
// HMAC secret. The secret is process-wide, loaded once at startup and
// never logged.
type Issuer struct {
	secret string
	ttl    time.Duration
}

// NewIssuer creates a token issuer. A zero ttl issues tokens without
// an expiry claim; callers needing expiry must configure one.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs a token for the given subject. The role claim is
// immutable after issuance; downstream authorization trusts it only
// through Verify.
func (i *Issuer) Issue(subjectID string, role auth.Role, temporary bool) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subjectID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Role:      role,
		Temporary: temporary,
	}
	if i.ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify validates the signature and returns the embedded principal.
func (i *Issuer) Verify(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(i.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpired
		}
		return Principal{}, ErrMalformed
	}
	if !token.Valid {
		return Principal{}, ErrMalformed
	}

	return Principal{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		Temporary: claims.Temporary,
	}, nil
}
