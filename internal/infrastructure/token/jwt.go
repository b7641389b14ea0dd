// Package token implements the bearer credential codec on HS256 JWTs.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/geonotes/notes-api/internal/core/domain"
)

var errEmptySecret = errors.New("token: empty signing secret")

// claims is the wire shape of a credential: {id, role, iat, exp}.
type claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies credentials with a shared secret held for the
// lifetime of the process.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec returns a Codec for secret. The secret is copied.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a credential for identityID/role expiring ttl from now.
func (c *Codec) Issue(identityID string, role domain.Role, ttl time.Duration) (string, error) {
	if identityID == "" {
		return "", errors.New("token: empty identity id")
	}
	if !role.Valid() {
		return "", domain.ErrUnknownRole
	}
	if ttl <= 0 {
		return "", errors.New("token: ttl must be positive")
	}

	now := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID:   identityID,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString(c.secret)
}

// Verify checks signature, algorithm and expiry and returns the identity.
// Every rejection collapses to domain.ErrInvalidToken so callers cannot
// tell a forged credential from an expired one.
func (c *Codec) Verify(raw string) (domain.Identity, error) {
	var cl claims
	tkn, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tkn.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	if cl.ID == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	role, err := domain.ParseRole(cl.Role)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{ID: cl.ID, Role: role}, nil
}
