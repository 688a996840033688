// Package identity resolves opaque caller credentials to account ids.
// Exactly one Resolver is wired at startup; handlers never see the
// credential, only the resolved id.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/hieulm/writeuphub/backend/internal/models"
)

// ErrUnauthenticated is returned when a credential is missing, malformed,
// expired or otherwise unverifiable.
var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver turns a bearer credential into a stable account id.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (uint, error)
}

// TokenTTL is the lifetime of locally issued tokens.
const TokenTTL = 24 * time.Hour

// JWTResolver verifies locally issued HMAC tokens.
type JWTResolver struct {
	secret []byte
}

// NewJWTResolver creates a JWTResolver with the given signing secret.
func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

// Resolve parses and verifies the token, returning the embedded account id.
func (r *JWTResolver) Resolve(ctx context.Context, credential string) (uint, error) {
	claims := &models.AccountClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid || claims.AccountID == 0 {
		return 0, ErrUnauthenticated
	}
	return claims.AccountID, nil
}

// Issue signs a token for the account, expiring after TokenTTL.
func (r *JWTResolver) Issue(account *models.Account) (string, error) {
	claims := &models.AccountClaims{
		AccountID: account.ID,
		Role:      account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(r.secret)
}
