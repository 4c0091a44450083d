package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"poslito/internal/apperr"
	"poslito/internal/domain"
)

type stubCouriers struct {
	byAccount map[uuid.UUID]*domain.Courier
}

func (s *stubCouriers) GetByAccount(_ context.Context, accountID uuid.UUID) (*domain.Courier, error) {
	return s.byAccount[accountID], nil
}

func signToken(t *testing.T, secret []byte, claims tokenClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func validClaims(accountID, personID uuid.UUID) tokenClaims {
	return tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AccountID: accountID.String(),
		PersonID:  personID.String(),
	}
}

func TestGateway_Resolve(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	accountID, personID := uuid.New(), uuid.New()
	courier := &domain.Courier{ID: uuid.New(), AccountID: accountID, VehicleType: domain.SizeMedium}
	g := NewGateway(secret, &stubCouriers{byAccount: map[uuid.UUID]*domain.Courier{accountID: courier}})

	id, err := g.Resolve(context.Background(), signToken(t, secret, validClaims(accountID, personID)))
	require.NoError(t, err)
	require.Equal(t, accountID, id.AccountID)
	require.Equal(t, personID, id.PersonID)
	require.False(t, id.IsAdmin)
	require.NotNil(t, id.Courier)
	require.Equal(t, courier.ID, id.Courier.ID)
}

func TestGateway_Resolve_NoCourier(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	accountID, personID := uuid.New(), uuid.New()
	g := NewGateway(secret, &stubCouriers{})

	id, err := g.Resolve(context.Background(), signToken(t, secret, validClaims(accountID, personID)))
	require.NoError(t, err)
	require.Nil(t, id.Courier)
	require.False(t, id.IsCourier())
}

func TestGateway_Resolve_Admin(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	claims := validClaims(uuid.New(), uuid.New())
	claims.IsAdmin = true
	g := NewGateway(secret, &stubCouriers{})

	id, err := g.Resolve(context.Background(), signToken(t, secret, claims))
	require.NoError(t, err)
	require.True(t, id.IsAdmin)
}

func TestGateway_Resolve_Rejections(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	g := NewGateway(secret, &stubCouriers{})

	_, err := g.Resolve(context.Background(), "garbage")
	require.ErrorIs(t, err, apperr.Forbidden)

	_, err = g.Resolve(context.Background(), signToken(t, []byte("wrong-secret"), validClaims(uuid.New(), uuid.New())))
	require.ErrorIs(t, err, apperr.Forbidden)

	expired := validClaims(uuid.New(), uuid.New())
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	_, err = g.Resolve(context.Background(), signToken(t, secret, expired))
	require.ErrorIs(t, err, apperr.Forbidden)

	missing := validClaims(uuid.New(), uuid.New())
	missing.AccountID = ""
	_, err = g.Resolve(context.Background(), signToken(t, secret, missing))
	require.ErrorIs(t, err, apperr.Forbidden)
}
