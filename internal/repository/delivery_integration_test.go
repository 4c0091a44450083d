//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"poslito/internal/domain"
	"poslito/internal/ports/deliverytx"
	"poslito/internal/repository"
)

type DeliveryRepositorySuite struct {
	suite.Suite
	repo *repository.DeliveryRepo
}

func (s *DeliveryRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")
	s.repo = repository.NewDeliveryRepo(tcPool)
}

func (s *DeliveryRepositorySuite) SetupTest() {
	_, err := tcPool.Exec(context.Background(),
		`TRUNCATE routes, deliveries, items, couriers, persons, places CASCADE`)
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) newDelivery(senderEmail string) *domain.Delivery {
	n := uuid.NewString()[:8]
	return &domain.Delivery{
		ID:     uuid.New(),
		SafeID: uuid.New(),
		Sender: domain.Person{
			ID:          uuid.New(),
			FirstName:   "Ada",
			LastName:    "Sender",
			Email:       senderEmail,
			PhoneNumber: "+421900000001",
		},
		Receiver: domain.Person{
			FirstName:   "Rui",
			LastName:    "Receiver",
			Email:       fmt.Sprintf("receiver-%s@example.com", n),
			PhoneNumber: "+421900000002",
		},
		Item: domain.Item{
			Name:   "books",
			Size:   domain.SizeMedium,
			Weight: domain.WeightMedium,
		},
		PickupPlace: domain.Place{
			PlaceID:          "pickup-" + n,
			FormattedAddress: "Obchodna 1, Bratislava",
			Coordinates:      domain.Coordinates{Longitude: 17.10, Latitude: 48.14},
		},
		DeliveryPlace: domain.Place{
			PlaceID:          "dropoff-" + n,
			FormattedAddress: "Hlavna 9, Kosice",
			Coordinates:      domain.Coordinates{Longitude: 21.25, Latitude: 48.72},
		},
		State:           domain.StateReady,
		DistanceMeters:  402000,
		DurationSeconds: 14800,
		Price:           decimal.RequireFromString("442.20"),
	}
}

func (s *DeliveryRepositorySuite) createDelivery(d *domain.Delivery) {
	err := s.repo.WithTx(context.Background(), func(tx deliverytx.Repository) error {
		if err := tx.GetOrCreatePlace(context.Background(), &d.PickupPlace); err != nil {
			return err
		}
		if err := tx.GetOrCreatePlace(context.Background(), &d.DeliveryPlace); err != nil {
			return err
		}
		if err := tx.GetOrCreatePerson(context.Background(), &d.Sender); err != nil {
			return err
		}
		if err := tx.GetOrCreatePerson(context.Background(), &d.Receiver); err != nil {
			return err
		}
		if err := tx.InsertItem(context.Background(), &d.Item); err != nil {
			return err
		}
		return tx.InsertDelivery(context.Background(), d)
	})
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) createCourier() uuid.UUID {
	couriers := repository.NewCourierRepo(tcPool)
	c := &domain.Courier{
		AccountID:   uuid.New(),
		PersonID:    uuid.New(),
		VehicleType: domain.SizeLarge,
	}
	s.Require().NoError(couriers.Create(context.Background(), c))
	return c.ID
}

func (s *DeliveryRepositorySuite) TestCreateAndGetBySafeID() {
	ctx := context.Background()
	d := s.newDelivery("ada-1@example.com")
	s.createDelivery(d)

	got, err := s.repo.GetBySafeID(ctx, d.SafeID)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(d.ID, got.ID)
	s.Equal(d.Sender.Email, got.Sender.Email)
	s.Equal(d.Item.Name, got.Item.Name)
	s.Equal(d.PickupPlace.PlaceID, got.PickupPlace.PlaceID)
	s.Equal(domain.StateReady, got.State)
	s.True(got.Price.Equal(d.Price))
	s.Nil(got.CourierID)
}

func (s *DeliveryRepositorySuite) TestGetBySafeID_Missing() {
	got, err := s.repo.GetBySafeID(context.Background(), uuid.New())
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *DeliveryRepositorySuite) TestGetOrCreatePlace_Idempotent() {
	ctx := context.Background()
	d1 := s.newDelivery("ada-2@example.com")
	s.createDelivery(d1)

	d2 := s.newDelivery("ada-3@example.com")
	d2.PickupPlace = domain.Place{
		PlaceID:     d1.PickupPlace.PlaceID,
		Coordinates: domain.Coordinates{Longitude: 1, Latitude: 1},
	}
	s.createDelivery(d2)

	got, err := s.repo.GetByID(ctx, d2.ID)
	s.Require().NoError(err)
	// The original place wins; places are immutable.
	s.Equal(d1.PickupPlace.FormattedAddress, got.PickupPlace.FormattedAddress)
	s.Equal(d1.PickupPlace.Coordinates, got.PickupPlace.Coordinates)
}

func (s *DeliveryRepositorySuite) TestCompareAndSetState() {
	ctx := context.Background()
	d := s.newDelivery("ada-4@example.com")
	s.createDelivery(d)
	courierID := s.createCourier()

	ok, err := s.repo.CompareAndSetState(ctx, d.ID, domain.StateReady, domain.StateAssigned, &courierID)
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.GetByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(domain.StateAssigned, got.State)
	s.Require().NotNil(got.CourierID)
	s.Equal(courierID, *got.CourierID)
}

func (s *DeliveryRepositorySuite) TestCompareAndSetState_LostRace() {
	ctx := context.Background()
	d := s.newDelivery("ada-5@example.com")
	s.createDelivery(d)
	first := s.createCourier()
	second := s.createCourier()

	ok, err := s.repo.CompareAndSetState(ctx, d.ID, domain.StateReady, domain.StateAssigned, &first)
	s.Require().NoError(err)
	s.True(ok)

	// The same expected-state write must not apply twice.
	ok, err = s.repo.CompareAndSetState(ctx, d.ID, domain.StateReady, domain.StateAssigned, &second)
	s.Require().NoError(err)
	s.False(ok)

	got, err := s.repo.GetByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(first, *got.CourierID)
}

func (s *DeliveryRepositorySuite) TestCompareAndSetState_KeepsCourierWithoutOverride() {
	ctx := context.Background()
	d := s.newDelivery("ada-6@example.com")
	s.createDelivery(d)
	courierID := s.createCourier()

	ok, err := s.repo.CompareAndSetState(ctx, d.ID, domain.StateReady, domain.StateAssigned, &courierID)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.repo.CompareAndSetState(ctx, d.ID, domain.StateAssigned, domain.StateDelivering, nil)
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.GetByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(domain.StateDelivering, got.State)
	s.Equal(courierID, *got.CourierID)
}

func (s *DeliveryRepositorySuite) TestListReady() {
	ctx := context.Background()
	ready := s.newDelivery("ada-7@example.com")
	s.createDelivery(ready)
	taken := s.newDelivery("ada-8@example.com")
	s.createDelivery(taken)
	courierID := s.createCourier()
	_, err := s.repo.CompareAndSetState(ctx, taken.ID, domain.StateReady, domain.StateAssigned, &courierID)
	s.Require().NoError(err)

	got, err := s.repo.ListReady(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(ready.ID, got[0].ID)
}

func (s *DeliveryRepositorySuite) TestListForPerson() {
	ctx := context.Background()
	mine := s.newDelivery("ada-9@example.com")
	s.createDelivery(mine)
	other := s.newDelivery("someone-else@example.com")
	s.createDelivery(other)

	got, err := s.repo.ListForPerson(ctx, mine.Sender.ID, uuid.New())
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(mine.ID, got[0].ID)
}

func (s *DeliveryRepositorySuite) TestFindAccountIDByEmail() {
	ctx := context.Background()
	accountID := uuid.New()
	d := s.newDelivery("linked@example.com")
	d.Sender.AccountID = &accountID
	s.createDelivery(d)

	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		found, err := tx.FindAccountIDByEmail(ctx, "linked@example.com")
		s.Require().NoError(err)
		s.Require().NotNil(found)
		s.Equal(accountID, *found)

		missing, err := tx.FindAccountIDByEmail(ctx, "nobody@example.com")
		s.Require().NoError(err)
		s.Nil(missing)
		return nil
	})
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) TestInsertRoute() {
	ctx := context.Background()
	d := s.newDelivery("ada-10@example.com")
	s.createDelivery(d)

	route := &domain.Route{
		DeliveryID: d.ID,
		Polyline:   "gfo}EtohhU",
		Steps: []domain.Coordinates{
			{Longitude: 17.10, Latitude: 48.14},
			{Longitude: 21.25, Latitude: 48.72},
		},
	}
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		return tx.InsertRoute(ctx, route)
	})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, route.ID)

	routes := repository.NewRouteRepo(tcPool)
	got, err := routes.GetByDeliverySafeID(ctx, d.SafeID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(route.Polyline, got.Polyline)
	s.Len(got.Steps, 2)
}

func TestDeliveryRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositorySuite))
}
