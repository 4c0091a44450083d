package accounts

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"poslito/internal/apperr"
	"poslito/internal/domain"
)

// courierSource attaches the courier capability to resolved identities.
type courierSource interface {
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Courier, error)
}

// tokenClaims is the claim set issued by the accounts service.
type tokenClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	PersonID  string `json:"person_id"`
	IsAdmin   bool   `json:"is_admin"`
}

// Gateway resolves bearer tokens from the external accounts service into
// identities. Tokens are HMAC-signed JWTs; the shared secret comes from
// configuration.
type Gateway struct {
	secret   []byte
	couriers courierSource
}

// NewGateway creates an accounts gateway.
func NewGateway(secret []byte, couriers courierSource) *Gateway {
	return &Gateway{secret: secret, couriers: couriers}
}

// Resolve validates the token and returns the identity it carries, with the
// courier capability attached when the account has one.
func (g *Gateway) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("%w: invalid token", apperr.Forbidden)
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: token missing account id", apperr.Forbidden)
	}
	personID, err := uuid.Parse(claims.PersonID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: token missing person id", apperr.Forbidden)
	}

	identity := domain.Identity{
		AccountID: accountID,
		PersonID:  personID,
		IsAdmin:   claims.IsAdmin,
	}

	if g.couriers != nil {
		courier, err := g.couriers.GetByAccount(ctx, accountID)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("resolve courier capability: %w", err)
		}
		identity.Courier = courier
	}
	return identity, nil
}
